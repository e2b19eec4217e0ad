package walker

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/wagoodman/go-partybus"
	"github.com/wagoodman/go-progress"

	"github.com/sonatype/nexus-public-sub016/internal/bus"
	"github.com/sonatype/nexus-public-sub016/internal/log"
	"github.com/sonatype/nexus-public-sub016/pkg/event"
	"github.com/sonatype/nexus-public-sub016/pkg/file"
	"github.com/sonatype/nexus-public-sub016/pkg/storage"
)

// ErrWalkCanceled is the stop cause of a walk interrupted by its context.Context.
var ErrWalkCanceled = errors.New("walk canceled")

// WalkError is returned when a walk was stopped by a failure.
type WalkError struct {
	RepositoryID string
	Path         file.Path
	Err          error
}

func (e *WalkError) Error() string {
	return fmt.Sprintf("aborted walk on repository=%q from path=%q: %v", e.RepositoryID, e.Path, e.Err)
}

func (e *WalkError) Unwrap() error {
	return e.Err
}

// Walker runs a walk described by a Context.
type Walker interface {
	Walk(ctx *Context) error
}

// ByPath orders siblings lexically by path.
func ByPath(a, b storage.Item) int {
	switch {
	case a.Path() < b.Path():
		return -1
	case a.Path() > b.Path():
		return 1
	}
	return 0
}

var _ Walker = (*DefaultWalker)(nil)

// DefaultWalker walks a repository synchronously on the calling goroutine.
type DefaultWalker struct {
	clock Clock
	sleep func(ctx *Context, d time.Duration) error
}

func NewDefaultWalker() *DefaultWalker {
	return &DefaultWalker{
		clock: time.Now,
		sleep: sleep,
	}
}

// walk holds what a single Walk call tracks besides its Context.
type walk struct {
	*DefaultWalker
	ctx   *Context
	info  ThrottleInfo
	prog  *progress.Manual
	stage *progress.Stage
}

// Walk traverses the repository from the request path. Stops without a cause, cancellation and a missing start path
// are not failures; any other stop cause is returned as a *WalkError.
func (w *DefaultWalker) Walk(ctx *Context) error {
	startPath := ctx.Request().Path
	if startPath == "" {
		startPath = file.RootPath
	}
	startPath = startPath.Normalize()
	repositoryID := ctx.Repository().ID()

	if ctx.Repository().OutOfService() {
		log.Infof("repository=%q is out of service, skipping walk from path=%q", repositoryID, startPath)
		return w.report(ctx, startPath, false)
	}

	run := &walk{
		DefaultWalker: w,
		ctx:           ctx,
		info:          NewDefaultThrottleInfo(w.clock),
		prog:          progress.NewManual(-1),
		stage:         &progress.Stage{},
	}

	result := ctx.Result()
	result.StartPath = startPath
	result.CollectionCount = 0
	result.ThrottleInfo = run.info

	bus.Publish(partybus.Event{
		Type:   event.WalkStarted,
		Source: event.WalkDescription{RepositoryID: repositoryID, Path: string(startPath)},
		Value: progress.StagedProgressable(&struct {
			progress.Stager
			*progress.Manual
		}{
			Stager: progress.Stager(run.stage),
			Manual: run.prog,
		}),
	})

	log.Debugf("start walking repository=%q from path=%q", repositoryID, startPath)
	ctx.ThrottleController().WalkStarted(ctx)

	startNotFound := run.body(startPath)

	if !ctx.IsStopped() {
		run.afterWalk()
	}
	ctx.ThrottleController().WalkEnded(ctx, run.info)

	if cause := ctx.StopCause(); cause != nil && !startNotFound {
		run.prog.SetError(cause)
	} else {
		run.prog.SetCompleted()
	}

	return w.report(ctx, startPath, startNotFound)
}

// body runs the walk up to (not including) afterWalk, reporting whether the start path was missing.
func (w *walk) body(startPath file.Path) bool {
	w.beforeWalk()
	if w.ctx.IsStopped() {
		return false
	}

	item, err := w.ctx.Repository().Resolve(w.ctx.Context(), storage.ResolveRequest{
		Path:      startPath,
		LocalOnly: w.ctx.Request().LocalOnly,
	})
	if err != nil {
		w.ctx.Stop(w.interruption(err))
		return storage.IsNotFound(err)
	}

	switch i := item.(type) {
	case *storage.Collection:
		w.walkRecursive(i)
	default:
		w.walkItem(i)
	}
	return false
}

func (w *DefaultWalker) report(ctx *Context, startPath file.Path, startNotFound bool) error {
	repositoryID := ctx.Repository().ID()
	result := ctx.Result()
	cause := ctx.StopCause()

	switch {
	case cause == nil:
		if ctx.stopped {
			log.Debugf("walk on repository=%q from path=%q was stopped", repositoryID, startPath)
		} else {
			log.Debugf("finished walking repository=%q from path=%q (collections=%d)", repositoryID, startPath, result.CollectionCount)
		}
		return nil
	case errors.Is(cause, ErrWalkCanceled):
		log.Infof("walk on repository=%q from path=%q was canceled: %v", repositoryID, startPath, cause)
		return nil
	case startNotFound:
		log.Debugf("walk on repository=%q not started, path=%q not found", repositoryID, startPath)
		return nil
	case storage.IsNotFound(cause):
		log.Debugf("aborted walk on repository=%q from path=%q: %v", repositoryID, startPath, cause)
	default:
		log.Errorf("aborted walk on repository=%q from path=%q: %+v", repositoryID, startPath, cause)
	}

	return &WalkError{
		RepositoryID: repositoryID,
		Path:         startPath,
		Err:          cause,
	}
}

// interruption maps a context error surfaced by the repository to the cancellation cause.
func (w *walk) interruption(err error) error {
	if w.ctx.Context().Err() != nil && errors.Is(err, w.ctx.Context().Err()) {
		return fmt.Errorf("%w: %w", ErrWalkCanceled, err)
	}
	return err
}

func (w *walk) walkRecursive(collection *storage.Collection) {
	filter := w.ctx.Filter()
	shouldProcess := filter.ShouldProcess(w.ctx, collection)
	shouldRecurse := filter.ShouldProcessRecursively(w.ctx, collection)
	if !shouldProcess && !shouldRecurse {
		return
	}

	if shouldProcess {
		w.stage.Current = string(collection.Path())
		w.onCollectionEnter(collection)
		w.ctx.Result().CollectionCount++
		if w.ctx.IsStopped() {
			return
		}
	}

	if shouldRecurse {
		children, err := w.ctx.Repository().List(w.ctx.Context(), collection)
		switch {
		case storage.IsNotFound(err):
			log.Debugf("collection=%q vanished while walking repository=%q, skipping", collection.Path(), w.ctx.Repository().ID())
		case err != nil:
			w.ctx.Stop(w.interruption(err))
			return
		default:
			w.walkChildren(children)
		}
		if w.ctx.IsStopped() {
			return
		}
	}

	if shouldProcess {
		w.onCollectionExit(collection)
	}
}

func (w *walk) walkChildren(children []storage.Item) {
	if cmp := w.ctx.Comparator(); cmp != nil {
		sort.SliceStable(children, func(i, j int) bool {
			return cmp(children[i], children[j]) < 0
		})
	}

	var postponed []*storage.Collection
	for _, child := range children {
		collection, isCollection := child.(*storage.Collection)

		if w.ctx.ProcessCollections() || !isCollection {
			w.walkItem(child)
			if w.ctx.IsStopped() {
				return
			}
		}

		if isCollection {
			if w.ctx.Order() == BreadthFirst {
				postponed = append(postponed, collection)
				continue
			}
			w.walkRecursive(collection)
			if w.ctx.IsStopped() {
				return
			}
		}
	}

	for _, collection := range postponed {
		w.walkRecursive(collection)
		if w.ctx.IsStopped() {
			return
		}
	}
}

func (w *walk) walkItem(item storage.Item) {
	if w.ctx.Filter().ShouldProcess(w.ctx, item) {
		w.processItem(item)
	}
}

func (w *walk) beforeWalk() {
	w.invoke(func(p Processor) error {
		return p.BeforeWalk(w.ctx)
	})
}

func (w *walk) onCollectionEnter(collection *storage.Collection) {
	w.invoke(func(p Processor) error {
		return p.OnCollectionEnter(w.ctx, collection)
	})
}

func (w *walk) processItem(item storage.Item) {
	w.info.EnterProcessItem()
	w.invoke(func(p Processor) error {
		return p.ProcessItem(w.ctx, item)
	})
	w.info.ExitProcessItem()
	w.prog.Increment()

	if w.ctx.IsStopped() {
		return
	}

	throttle := w.ctx.ThrottleController()
	if !throttle.IsThrottled() {
		return
	}
	if d := throttle.ThrottleTime(w.info); d > 0 {
		if err := w.sleep(w.ctx, d); err != nil {
			w.ctx.Stop(fmt.Errorf("%w: %w", ErrWalkCanceled, err))
		}
	}
}

func (w *walk) onCollectionExit(collection *storage.Collection) {
	w.invoke(func(p Processor) error {
		return p.OnCollectionExit(w.ctx, collection)
	})
}

func (w *walk) afterWalk() {
	w.invoke(func(p Processor) error {
		return p.AfterWalk(w.ctx)
	})
}

// invoke calls every active processor in order until one fails or the walk is stopped.
func (w *walk) invoke(fn func(Processor) error) {
	for _, p := range w.ctx.Processors() {
		if w.ctx.IsStopped() {
			return
		}
		if !p.IsActive() {
			continue
		}
		if err := fn(p); err != nil {
			w.ctx.Stop(err)
			return
		}
	}
}

// sleep pauses for the given duration, returning early with the context error when the walk is canceled.
func sleep(ctx *Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Context().Done():
		return ctx.Context().Err()
	}
}
