package processor

import (
	"fmt"

	"github.com/scylladb/go-set/strset"

	"github.com/sonatype/nexus-public-sub016/pkg/file"
	"github.com/sonatype/nexus-public-sub016/pkg/storage"
	"github.com/sonatype/nexus-public-sub016/pkg/walker"
)

type EventKind string

const (
	BeforeWalk EventKind = "before"
	Enter      EventKind = "enter"
	Item       EventKind = "item"
	Exit       EventKind = "exit"
	AfterWalk  EventKind = "after"
)

// Event is a single boundary call observed by a PathRecorder.
type Event struct {
	Kind EventKind
	Path file.Path
}

func (e Event) String() string {
	if e.Path == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s:%s", e.Kind, e.Path)
}

// PathRecorder keeps an ordered log of every boundary call of a walk.
type PathRecorder struct {
	walker.BaseProcessor
	Events []Event
	seen   *strset.Set
}

func NewPathRecorder() *PathRecorder {
	return &PathRecorder{
		seen: strset.New(),
	}
}

func (r *PathRecorder) add(kind EventKind, p file.Path) {
	r.Events = append(r.Events, Event{Kind: kind, Path: p})
	if p != "" {
		r.seen.Add(string(p))
	}
}

func (r *PathRecorder) BeforeWalk(*walker.Context) error {
	r.add(BeforeWalk, "")
	return nil
}

func (r *PathRecorder) OnCollectionEnter(_ *walker.Context, collection *storage.Collection) error {
	r.add(Enter, collection.Path())
	return nil
}

func (r *PathRecorder) ProcessItem(_ *walker.Context, item storage.Item) error {
	r.add(Item, item.Path())
	return nil
}

func (r *PathRecorder) OnCollectionExit(_ *walker.Context, collection *storage.Collection) error {
	r.add(Exit, collection.Path())
	return nil
}

func (r *PathRecorder) AfterWalk(*walker.Context) error {
	r.add(AfterWalk, "")
	return nil
}

// Strings renders the events in order (e.g. "enter:/a").
func (r *PathRecorder) Strings() []string {
	out := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, e.String())
	}
	return out
}

// ItemPaths returns the paths passed to ProcessItem in order.
func (r *PathRecorder) ItemPaths() []file.Path {
	var out []file.Path
	for _, e := range r.Events {
		if e.Kind == Item {
			out = append(out, e.Path)
		}
	}
	return out
}

// Seen returns every distinct path observed, sorted.
func (r *PathRecorder) Seen() []file.Path {
	ps := file.NewPathSet()
	for _, p := range r.seen.List() {
		ps.Add(file.Path(p))
	}
	return ps.Sorted()
}
