package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/sonatype/nexus-public-sub016/pkg/file"
)

var ErrNotFound = errors.New("item not found")

// NotFound returns an error wrapping ErrNotFound for the given path.
func NotFound(p file.Path) error {
	return fmt.Errorf("%w: path=%q", ErrNotFound, p)
}

// IsNotFound indicates the error (or any error it wraps) is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ResolveRequest describes the item being asked for.
type ResolveRequest struct {
	Path file.Path
	// LocalOnly restricts resolution to locally stored content (no remote fetch).
	LocalOnly bool
}

// Repository is the content store a walk traverses.
type Repository interface {
	ID() string
	// OutOfService indicates the repository should not serve requests.
	OutOfService() bool
	// Resolve returns the item at the requested path (or an error wrapping ErrNotFound).
	Resolve(ctx context.Context, request ResolveRequest) (Item, error)
	// List returns the children of the given collection (or an error wrapping ErrNotFound if it no longer exists).
	List(ctx context.Context, collection *Collection) ([]Item, error)
}
