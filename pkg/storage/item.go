package storage

import (
	"fmt"
	"time"

	"github.com/opencontainers/go-digest"

	"github.com/sonatype/nexus-public-sub016/pkg/file"
)

// UID is the stable identity of an item: the repository that owns it and the path it is stored under. It may differ
// from the path an item was requested by (e.g. when the item is reached through a link or a group member).
type UID struct {
	Repository string
	Path       file.Path
}

func (u UID) String() string {
	return fmt.Sprintf("%s:%s", u.Repository, u.Path)
}

// Item is a node of a repository content tree: either a *Collection or a *Leaf.
type Item interface {
	// Path is the live path the item was resolved or listed under.
	Path() file.Path
	// UID is the stable identity of the item.
	UID() UID
	isItem()
}

// Collection is an item that may contain children (a directory).
type Collection struct {
	RealPath   file.Path
	Identity   UID
	Modified   time.Time
	Attributes map[string]string
}

func NewCollection(repository string, p file.Path) *Collection {
	p = p.Normalize()
	return &Collection{
		RealPath: p,
		Identity: UID{Repository: repository, Path: p},
	}
}

func (c *Collection) Path() file.Path { return c.RealPath }
func (c *Collection) UID() UID        { return c.Identity }
func (*Collection) isItem()           {}

func (c *Collection) String() string {
	return fmt.Sprintf("collection(%s)", c.Identity)
}

// Leaf is a terminal item holding content (a file).
type Leaf struct {
	RealPath    file.Path
	Identity    UID
	Size        int64
	Modified    time.Time
	ContentType string
	Digest      digest.Digest
	Attributes  map[string]string
}

func NewLeaf(repository string, p file.Path, size int64) *Leaf {
	p = p.Normalize()
	return &Leaf{
		RealPath: p,
		Identity: UID{Repository: repository, Path: p},
		Size:     size,
	}
}

func (l *Leaf) Path() file.Path { return l.RealPath }
func (l *Leaf) UID() UID        { return l.Identity }
func (*Leaf) isItem()           {}

func (l *Leaf) String() string {
	return fmt.Sprintf("leaf(%s)", l.Identity)
}

// IsCollection indicates the item is a *Collection.
func IsCollection(item Item) bool {
	_, ok := item.(*Collection)
	return ok
}
