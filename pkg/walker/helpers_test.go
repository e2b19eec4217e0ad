package walker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sonatype/nexus-public-sub016/pkg/file"
	"github.com/sonatype/nexus-public-sub016/pkg/storage"
	"github.com/sonatype/nexus-public-sub016/pkg/storage/memory"
)

// recorder logs every boundary call it receives.
type recorder struct {
	BaseProcessor
	events []string
	hook   func(ctx *Context, event string) error
}

func (r *recorder) record(ctx *Context, event string) error {
	r.events = append(r.events, event)
	if r.hook != nil {
		return r.hook(ctx, event)
	}
	return nil
}

func (r *recorder) BeforeWalk(ctx *Context) error {
	return r.record(ctx, "before")
}

func (r *recorder) OnCollectionEnter(ctx *Context, c *storage.Collection) error {
	return r.record(ctx, "enter:"+string(c.Path()))
}

func (r *recorder) ProcessItem(ctx *Context, item storage.Item) error {
	return r.record(ctx, "item:"+string(item.Path()))
}

func (r *recorder) OnCollectionExit(ctx *Context, c *storage.Collection) error {
	return r.record(ctx, "exit:"+string(c.Path()))
}

func (r *recorder) AfterWalk(ctx *Context) error {
	return r.record(ctx, "after")
}

func newRepository(t *testing.T, paths ...string) *memory.Repository {
	t.Helper()
	repo := memory.New("test-repo")
	require.NoError(t, repo.AddAll(paths...))
	return repo
}

// faultyRepository fails listing of chosen collections.
type faultyRepository struct {
	*memory.Repository
	listErrors map[string]error
}

func (r *faultyRepository) List(ctx context.Context, collection *storage.Collection) ([]storage.Item, error) {
	if err, ok := r.listErrors[string(collection.Path())]; ok {
		return nil, err
	}
	return r.Repository.List(ctx, collection)
}

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// fakeThrottle records its lifecycle and requests a fixed sleep.
type fakeThrottle struct {
	sleep   time.Duration
	started int
	ended   int
	asked   int
}

func (f *fakeThrottle) WalkStarted(*Context)             { f.started++ }
func (f *fakeThrottle) WalkEnded(*Context, ThrottleInfo) { f.ended++ }
func (f *fakeThrottle) IsThrottled() bool                { return true }
func (f *fakeThrottle) ThrottleTime(ThrottleInfo) time.Duration {
	f.asked++
	return f.sleep
}

// funcFilter adapts predicates to a Filter.
type funcFilter struct {
	process func(storage.Item) bool
	recurse func(*storage.Collection) bool
}

func (f funcFilter) ShouldProcess(_ *Context, item storage.Item) bool {
	if f.process == nil {
		return true
	}
	return f.process(item)
}

func (f funcFilter) ShouldProcessRecursively(_ *Context, c *storage.Collection) bool {
	if f.recurse == nil {
		return true
	}
	return f.recurse(c)
}

func mustContext(t *testing.T, ctx context.Context, repo storage.Repository, path string, options ...ContextOption) *Context {
	t.Helper()
	wc, err := NewContext(ctx, repo, Request{Path: file.Path(path)}, options...)
	require.NoError(t, err)
	return wc
}

func itemEvents(events []string) []string {
	var out []string
	for _, e := range events {
		if len(e) > 5 && e[:5] == "item:" {
			out = append(out, e)
		}
	}
	return out
}

func errorOn(event string, err error) func(*Context, string) error {
	return func(_ *Context, e string) error {
		if e == event {
			return err
		}
		return nil
	}
}

func stopOn(event string, cause error) func(*Context, string) error {
	return func(ctx *Context, e string) error {
		if e == event {
			ctx.Stop(cause)
		}
		return nil
	}
}

var errBoom = fmt.Errorf("boom")
