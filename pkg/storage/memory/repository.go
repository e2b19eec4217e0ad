package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/hashicorp/go-multierror"
	"github.com/opencontainers/go-digest"

	"github.com/sonatype/nexus-public-sub016/pkg/file"
	"github.com/sonatype/nexus-public-sub016/pkg/storage"
	"github.com/sonatype/nexus-public-sub016/pkg/tree"
)

var _ storage.Repository = (*Repository)(nil)

// Repository is an in-memory content tree. Children are listed in insertion order.
type Repository struct {
	id           string
	outOfService bool
	tree         *tree.Tree[storage.Item]
	lock         *sync.RWMutex
}

func New(id string) *Repository {
	return &Repository{
		id:   id,
		tree: tree.NewTree[storage.Item](file.DirSeparator, storage.NewCollection(id, file.RootPath)),
		lock: &sync.RWMutex{},
	}
}

func (r *Repository) ID() string {
	return r.id
}

func (r *Repository) OutOfService() bool {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.outOfService
}

func (r *Repository) SetOutOfService(outOfService bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.outOfService = outOfService
}

// AddCollection adds a collection at the given path, creating any missing ancestor collections.
func (r *Repository) AddCollection(p string) (*storage.Collection, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	id, err := r.ensureCollection(file.Path(p))
	if err != nil {
		return nil, err
	}
	return r.tree.Payload(id).(*storage.Collection), nil
}

// AddLeaf adds a leaf holding the given content, creating any missing ancestor collections.
func (r *Repository) AddLeaf(p string, content []byte) (*storage.Leaf, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	leafPath := file.Path(p).Normalize()
	if leafPath.IsRoot() {
		return nil, fmt.Errorf("cannot add a leaf at the repository root")
	}
	parentPath, err := leafPath.ParentPath()
	if err != nil {
		return nil, err
	}
	parent, err := r.ensureCollection(parentPath)
	if err != nil {
		return nil, err
	}
	if _, exists := r.tree.ChildByLabel(parent, leafPath.Basename()); exists {
		return nil, fmt.Errorf("path already exists: %q", leafPath)
	}

	leaf := storage.NewLeaf(r.id, leafPath, int64(len(content)))
	leaf.Modified = time.Now()
	leaf.Digest = digest.FromBytes(content)
	leaf.ContentType = mimetype.Detect(content).String()

	if _, err := r.tree.AddChild(parent, leafPath.Basename(), leaf); err != nil {
		return nil, err
	}
	return leaf, nil
}

// AddAll adds every path given: paths ending in "/" become collections, all others become empty leaves. Every
// failure is reported.
func (r *Repository) AddAll(paths ...string) error {
	var errs error
	for _, p := range paths {
		var err error
		if strings.HasSuffix(p, file.DirSeparator) {
			_, err = r.AddCollection(p)
		} else {
			_, err = r.AddLeaf(p, nil)
		}
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("unable to add %q: %w", p, err))
		}
	}
	return errs
}

// Remove deletes the item at the given path along with everything beneath it.
func (r *Repository) Remove(p string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	id, err := r.lookup(file.Path(p))
	if err != nil {
		return err
	}
	_, err = r.tree.RemoveNode(id)
	return err
}

func (r *Repository) ensureCollection(p file.Path) (tree.NodeID, error) {
	current := r.tree.Root()
	for _, segment := range p.Segments() {
		child, ok := r.tree.ChildByLabel(current, segment)
		if !ok {
			parent := r.tree.Payload(current).(*storage.Collection)
			c := storage.NewCollection(r.id, parent.Path().Join(segment))
			c.Modified = time.Now()
			var err error
			child, err = r.tree.AddChild(current, segment, c)
			if err != nil {
				return tree.NoNode, err
			}
		} else if !storage.IsCollection(r.tree.Payload(child)) {
			return tree.NoNode, fmt.Errorf("path is not a collection: %q", r.tree.Payload(child).Path())
		}
		current = child
	}
	return current, nil
}

func (r *Repository) lookup(p file.Path) (tree.NodeID, error) {
	current := r.tree.Root()
	for _, segment := range p.Segments() {
		child, ok := r.tree.ChildByLabel(current, segment)
		if !ok {
			return tree.NoNode, storage.NotFound(p.Normalize())
		}
		current = child
	}
	return current, nil
}

func (r *Repository) Resolve(ctx context.Context, request storage.ResolveRequest) (storage.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.lock.RLock()
	defer r.lock.RUnlock()

	id, err := r.lookup(request.Path)
	if err != nil {
		return nil, err
	}
	return r.tree.Payload(id), nil
}

func (r *Repository) List(ctx context.Context, collection *storage.Collection) ([]storage.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.lock.RLock()
	defer r.lock.RUnlock()

	id, err := r.lookup(collection.Path())
	if err != nil {
		return nil, err
	}
	if !storage.IsCollection(r.tree.Payload(id)) {
		return nil, fmt.Errorf("path is not a collection: %q", collection.Path())
	}

	children := r.tree.Children(id)
	items := make([]storage.Item, 0, len(children))
	for _, child := range children {
		items = append(items, r.tree.Payload(child))
	}
	return items, nil
}
