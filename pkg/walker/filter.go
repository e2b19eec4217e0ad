package walker

import (
	"fmt"
	"strings"

	"github.com/becheran/wildmatch-go"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/scylladb/go-set/strset"

	"github.com/sonatype/nexus-public-sub016/pkg/file"
	"github.com/sonatype/nexus-public-sub016/pkg/storage"
)

// Filter decides, independently, whether a node is processed and whether a collection is descended into.
type Filter interface {
	ShouldProcess(ctx *Context, item storage.Item) bool
	ShouldProcessRecursively(ctx *Context, collection *storage.Collection) bool
}

type affirmative struct{}

// Affirmative returns the filter that processes and recurses into everything.
func Affirmative() Filter {
	return affirmative{}
}

func (affirmative) ShouldProcess(*Context, storage.Item) bool                   { return true }
func (affirmative) ShouldProcessRecursively(*Context, *storage.Collection) bool { return true }

// Conjunction is the logical AND of its filters, evaluated in order and short-circuiting on the first false answer.
// An empty conjunction accepts everything.
type Conjunction []Filter

func NewConjunction(filters ...Filter) Conjunction {
	return filters
}

func (c Conjunction) ShouldProcess(ctx *Context, item storage.Item) bool {
	for _, f := range c {
		if !f.ShouldProcess(ctx, item) {
			return false
		}
	}
	return true
}

func (c Conjunction) ShouldProcessRecursively(ctx *Context, collection *storage.Collection) bool {
	for _, f := range c {
		if !f.ShouldProcessRecursively(ctx, collection) {
			return false
		}
	}
	return true
}

// PathExtractor selects which path of an item a path predicate is matched against.
type PathExtractor func(storage.Item) string

// LivePath extracts the path the item was reached under.
func LivePath(item storage.Item) string {
	return string(item.Path())
}

// UIDPath extracts the path of the item's stable identity.
func UIDPath(item storage.Item) string {
	return string(item.UID().Path)
}

// PathPredicate matches a path.
type PathPredicate func(path string) bool

// Not negates a predicate.
func Not(p PathPredicate) PathPredicate {
	return func(path string) bool {
		return !p(path)
	}
}

// GlobPredicate matches paths against any of the given doublestar patterns (e.g. "/org/**/*.pom").
func GlobPredicate(patterns ...string) (PathPredicate, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob pattern: %q", p)
		}
	}
	return func(path string) bool {
		for _, p := range patterns {
			if doublestar.MatchUnvalidated(p, path) {
				return true
			}
		}
		return false
	}, nil
}

// BasenamePredicate matches the last segment of paths against any of the given wildcard patterns ("*" and "?").
func BasenamePredicate(patterns ...string) PathPredicate {
	matchers := make([]*wildmatch.WildMatch, 0, len(patterns))
	for _, p := range patterns {
		matchers = append(matchers, wildmatch.NewWildMatch(p))
	}
	return func(path string) bool {
		basename := path
		if i := strings.LastIndex(strings.TrimSuffix(path, file.DirSeparator), file.DirSeparator); i >= 0 {
			basename = strings.TrimSuffix(path[i+1:], file.DirSeparator)
		}
		for _, m := range matchers {
			if m.IsMatch(basename) {
				return true
			}
		}
		return false
	}
}

// PredicatePathFilter matches the path of each node against predicates.
type PredicatePathFilter struct {
	extractor           PathExtractor
	predicate           PathPredicate
	collectionPredicate PathPredicate
}

// NewPredicatePathFilter processes nodes whose extracted path satisfies predicate (every node when nil), and descends
// into collections whose extracted path satisfies collectionPredicate (every collection when nil). A nil extractor
// uses LivePath.
func NewPredicatePathFilter(extractor PathExtractor, predicate, collectionPredicate PathPredicate) *PredicatePathFilter {
	if extractor == nil {
		extractor = LivePath
	}
	if predicate == nil {
		predicate = func(string) bool { return true }
	}
	return &PredicatePathFilter{
		extractor:           extractor,
		predicate:           predicate,
		collectionPredicate: collectionPredicate,
	}
}

func (f *PredicatePathFilter) ShouldProcess(_ *Context, item storage.Item) bool {
	return f.predicate(f.extractor(item))
}

func (f *PredicatePathFilter) ShouldProcessRecursively(_ *Context, collection *storage.Collection) bool {
	if f.collectionPredicate == nil {
		return true
	}
	return f.collectionPredicate(f.extractor(collection))
}

// PathSetFilter processes exactly a planned set of paths, recursing only into collections on the way to or beneath
// one of them.
type PathSetFilter struct {
	paths     *strset.Set
	ancestors *strset.Set
}

func NewPathSetFilter(paths ...file.Path) *PathSetFilter {
	f := &PathSetFilter{
		paths:     strset.New(),
		ancestors: strset.New(),
	}
	for _, p := range paths {
		all := p.Normalize().AllPaths()
		f.paths.Add(string(all[len(all)-1]))
		for _, a := range all[:len(all)-1] {
			f.ancestors.Add(string(a))
		}
	}
	return f
}

func (f *PathSetFilter) ShouldProcess(_ *Context, item storage.Item) bool {
	return f.covers(item.Path())
}

func (f *PathSetFilter) ShouldProcessRecursively(_ *Context, collection *storage.Collection) bool {
	return f.ancestors.Has(string(collection.Path())) || f.covers(collection.Path())
}

// covers indicates the path is in the set or beneath a path in the set.
func (f *PathSetFilter) covers(p file.Path) bool {
	for _, candidate := range p.AllPaths() {
		if f.paths.Has(string(candidate)) {
			return true
		}
	}
	return false
}
