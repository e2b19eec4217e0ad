package walker

import (
	"context"
	"fmt"

	"github.com/sonatype/nexus-public-sub016/pkg/file"
	"github.com/sonatype/nexus-public-sub016/pkg/storage"
)

// ThrottleControllerKey is the Request attribute a ThrottleController may be supplied under.
const ThrottleControllerKey = "walker.throttleController"

// Request describes where a walk starts.
type Request struct {
	Path       file.Path
	LocalOnly  bool
	Attributes map[string]interface{}
}

// Result is the state a walk shares with its processors and reports back to the caller.
type Result struct {
	// CollectionCount is the number of collections whose boundary callbacks were invoked, including the starting
	// collection when it is processed. A walk started on a leaf reports 0.
	CollectionCount int
	// StartPath is the path the walk was started from.
	StartPath file.Path
	// ThrottleInfo holds the item processing counters of the walk.
	ThrottleInfo ThrottleInfo
	// Attributes is free-form state processors may use to cooperate.
	Attributes map[string]interface{}
}

// Comparator orders siblings before they are visited (negative when a sorts before b).
type Comparator func(a, b storage.Item) int

// Context is the mutable state of exactly one walk. It must not be shared between walks.
type Context struct {
	ctx                context.Context
	repository         storage.Repository
	request            Request
	order              Order
	processCollections bool
	processors         []Processor
	filter             Filter
	throttle           ThrottleController
	comparator         Comparator
	result             *Result

	stopped   bool
	stopCause error
}

type ContextOption func(*Context) error

func WithOrder(o Order) ContextOption {
	return func(c *Context) error {
		if o != DepthFirst && o != BreadthFirst {
			return fmt.Errorf("unsupported walk order: %s", o)
		}
		c.order = o
		return nil
	}
}

// WithProcessCollections passes collections (not only leaves) to ProcessItem.
func WithProcessCollections(process bool) ContextOption {
	return func(c *Context) error {
		c.processCollections = process
		return nil
	}
}

// WithProcessors appends processors; invocation order is the order they were added.
func WithProcessors(processors ...Processor) ContextOption {
	return func(c *Context) error {
		for _, p := range processors {
			if p == nil {
				return fmt.Errorf("nil processor")
			}
			c.processors = append(c.processors, p)
		}
		return nil
	}
}

func WithFilter(f Filter) ContextOption {
	return func(c *Context) error {
		c.filter = f
		return nil
	}
}

func WithComparator(cmp Comparator) ContextOption {
	return func(c *Context) error {
		c.comparator = cmp
		return nil
	}
}

// WithThrottleController takes precedence over a controller supplied under ThrottleControllerKey.
func WithThrottleController(tc ThrottleController) ContextOption {
	return func(c *Context) error {
		c.throttle = tc
		return nil
	}
}

func NewContext(ctx context.Context, repository storage.Repository, request Request, options ...ContextOption) (*Context, error) {
	if repository == nil {
		return nil, fmt.Errorf("no repository provided")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c := &Context{
		ctx:        ctx,
		repository: repository,
		request:    request,
		order:      DepthFirst,
		result: &Result{
			Attributes: make(map[string]interface{}),
		},
	}

	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(c); err != nil {
			return nil, fmt.Errorf("unable to parse option: %w", err)
		}
	}

	if c.throttle == nil {
		if v, ok := request.Attributes[ThrottleControllerKey]; ok {
			tc, ok := v.(ThrottleController)
			if !ok {
				return nil, fmt.Errorf("request attribute %q is not a throttle controller: %T", ThrottleControllerKey, v)
			}
			c.throttle = tc
		}
	}

	if c.filter == nil {
		c.filter = Affirmative()
	}
	if c.throttle == nil {
		c.throttle = NoThrottle()
	}

	return c, nil
}

// Context returns the context.Context that cancels the walk.
func (c *Context) Context() context.Context {
	return c.ctx
}

func (c *Context) Repository() storage.Repository {
	return c.repository
}

func (c *Context) Request() Request {
	return c.request
}

func (c *Context) Order() Order {
	return c.order
}

func (c *Context) ProcessCollections() bool {
	return c.processCollections
}

// AddProcessor appends a processor. Processors must be added before the walk starts.
func (c *Context) AddProcessor(p Processor) {
	c.processors = append(c.processors, p)
}

func (c *Context) Processors() []Processor {
	return c.processors
}

func (c *Context) Filter() Filter {
	return c.filter
}

func (c *Context) ThrottleController() ThrottleController {
	return c.throttle
}

func (c *Context) Comparator() Comparator {
	return c.comparator
}

func (c *Context) Result() *Result {
	return c.result
}

// IsStopped reports whether the walk was stopped. A canceled context.Context is recorded as an ErrWalkCanceled stop
// cause the first time it is observed.
func (c *Context) IsStopped() bool {
	if !c.stopped {
		if err := c.ctx.Err(); err != nil {
			c.Stop(fmt.Errorf("%w: %w", ErrWalkCanceled, err))
		}
	}
	return c.stopped
}

// Stop stops the walk. A nil cause is a deliberate stop. The first non-nil cause is kept.
func (c *Context) Stop(cause error) {
	c.stopped = true
	if c.stopCause == nil {
		c.stopCause = cause
	}
}

func (c *Context) StopCause() error {
	return c.stopCause
}
