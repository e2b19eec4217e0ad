package fsstore

import (
	"context"
	"fmt"
	"os"
	"path"
	"sync/atomic"

	"github.com/gabriel-vasile/mimetype"
	"github.com/opencontainers/go-digest"
	"github.com/spf13/afero"

	"github.com/sonatype/nexus-public-sub016/internal/log"
	"github.com/sonatype/nexus-public-sub016/pkg/file"
	"github.com/sonatype/nexus-public-sub016/pkg/storage"
)

var _ storage.Repository = (*Repository)(nil)

// Repository exposes a directory tree on an afero.Fs as repository content: directories are collections and
// everything else is a leaf. Symlinks are followed.
type Repository struct {
	id           string
	fs           afero.Fs
	root         string
	detectMIME   bool
	digests      bool
	outOfService atomic.Bool
}

type Option func(*Repository) error

// WithRoot scopes the repository to the given directory on the filesystem.
func WithRoot(root string) Option {
	return func(r *Repository) error {
		if root == "" {
			return fmt.Errorf("root directory must not be empty")
		}
		r.root = path.Clean(root)
		return nil
	}
}

// WithMIMEDetection sniffs the content type of every leaf as it is resolved or listed.
func WithMIMEDetection() Option {
	return func(r *Repository) error {
		r.detectMIME = true
		return nil
	}
}

// WithDigests computes the sha256 digest of every leaf as it is resolved or listed.
func WithDigests() Option {
	return func(r *Repository) error {
		r.digests = true
		return nil
	}
}

func New(id string, fs afero.Fs, options ...Option) (*Repository, error) {
	if fs == nil {
		return nil, fmt.Errorf("no filesystem provided")
	}
	r := &Repository{
		id:   id,
		fs:   fs,
		root: "/",
	}
	for _, o := range options {
		if err := o(r); err != nil {
			return nil, fmt.Errorf("unable to parse option: %w", err)
		}
	}

	info, err := fs.Stat(r.root)
	if err != nil {
		return nil, fmt.Errorf("unable to stat repository root %q: %w", r.root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("repository root is not a directory: %q", r.root)
	}
	return r, nil
}

// NewOS is a convenience for a repository rooted at a directory on the local disk.
func NewOS(id, root string, options ...Option) (*Repository, error) {
	return New(id, afero.NewOsFs(), append([]Option{WithRoot(root)}, options...)...)
}

func (r *Repository) ID() string {
	return r.id
}

func (r *Repository) OutOfService() bool {
	return r.outOfService.Load()
}

func (r *Repository) SetOutOfService(outOfService bool) {
	r.outOfService.Store(outOfService)
}

func (r *Repository) realPath(p file.Path) string {
	return path.Join(r.root, string(p.Normalize()))
}

func (r *Repository) Resolve(ctx context.Context, request storage.ResolveRequest) (storage.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := request.Path.Normalize()
	info, err := r.fs.Stat(r.realPath(p))
	if err != nil {
		return nil, r.translate(p, err)
	}
	return r.newItem(p, info)
}

func (r *Repository) List(ctx context.Context, collection *storage.Collection) ([]storage.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := collection.Path()
	// ReadDir returns lstat results; Stat is applied per entry so links are followed
	entries, err := afero.ReadDir(r.fs, r.realPath(p))
	if err != nil {
		return nil, r.translate(p, err)
	}

	items := make([]storage.Item, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		childPath := p.Join(entry.Name())
		info, err := r.fs.Stat(r.realPath(childPath))
		if err != nil {
			log.Debugf("skipping unreadable entry %q in repository=%q: %+v", childPath, r.id, err)
			continue
		}
		if entry.Mode()&os.ModeSymlink != 0 && info.IsDir() && r.linksToAncestor(p, info) {
			log.Debugf("skipping link %q in repository=%q: points back to a parent collection", childPath, r.id)
			continue
		}
		item, err := r.newItem(childPath, info)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// linksToAncestor reports whether the directory a link resolves to is the collection being listed or one of its
// ancestors, which would make a recursive walk cycle.
func (r *Repository) linksToAncestor(collection file.Path, target os.FileInfo) bool {
	for _, ancestor := range collection.AllPaths() {
		info, err := r.fs.Stat(r.realPath(ancestor))
		if err != nil {
			continue
		}
		if os.SameFile(info, target) {
			return true
		}
	}
	return false
}

func (r *Repository) translate(p file.Path, err error) error {
	if os.IsNotExist(err) {
		return storage.NotFound(p)
	}
	return fmt.Errorf("unable to read %q in repository=%q: %w", p, r.id, err)
}

func (r *Repository) newItem(p file.Path, info os.FileInfo) (storage.Item, error) {
	if info.IsDir() {
		c := storage.NewCollection(r.id, p)
		c.Modified = info.ModTime()
		return c, nil
	}

	leaf := storage.NewLeaf(r.id, p, info.Size())
	leaf.Modified = info.ModTime()
	if r.detectMIME || r.digests {
		if err := r.inspect(leaf); err != nil {
			return nil, err
		}
	}
	return leaf, nil
}

func (r *Repository) inspect(leaf *storage.Leaf) error {
	f, err := r.fs.Open(r.realPath(leaf.Path()))
	if err != nil {
		return r.translate(leaf.Path(), err)
	}
	defer f.Close()

	if r.detectMIME {
		mType, err := mimetype.DetectReader(f)
		if err != nil {
			return fmt.Errorf("unable to detect content type of %q: %w", leaf.Path(), err)
		}
		leaf.ContentType = mType.String()
		if _, err := f.Seek(0, 0); err != nil {
			return fmt.Errorf("unable to rewind %q: %w", leaf.Path(), err)
		}
	}

	if r.digests {
		d, err := digest.FromReader(f)
		if err != nil {
			return fmt.Errorf("unable to digest %q: %w", leaf.Path(), err)
		}
		leaf.Digest = d
	}
	return nil
}
