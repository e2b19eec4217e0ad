package walker

import (
	"time"
)

// Clock returns the current time.
type Clock func() time.Time

// ThrottleInfo tracks time spent processing items during a walk.
type ThrottleInfo interface {
	EnterProcessItem()
	ExitProcessItem()
	// TotalProcessItemSpent is the cumulative time spent inside item processing.
	TotalProcessItemSpent() time.Duration
	// TotalProcessItemInvocationCount is the number of completed item processing calls.
	TotalProcessItemInvocationCount() int64
	// WalkStarted is when the walk began.
	WalkStarted() time.Time
	// Elapsed is the wall time since the walk began.
	Elapsed() time.Duration
}

type DefaultThrottleInfo struct {
	clock     Clock
	started   time.Time
	enteredAt time.Time
	spent     time.Duration
	count     int64
}

// NewDefaultThrottleInfo starts tracking now. A nil clock uses time.Now.
func NewDefaultThrottleInfo(clock Clock) *DefaultThrottleInfo {
	if clock == nil {
		clock = time.Now
	}
	return &DefaultThrottleInfo{
		clock:   clock,
		started: clock(),
	}
}

func (i *DefaultThrottleInfo) EnterProcessItem() {
	i.enteredAt = i.clock()
}

func (i *DefaultThrottleInfo) ExitProcessItem() {
	i.count++
	i.spent += i.clock().Sub(i.enteredAt)
}

func (i *DefaultThrottleInfo) TotalProcessItemSpent() time.Duration {
	return i.spent
}

func (i *DefaultThrottleInfo) TotalProcessItemInvocationCount() int64 {
	return i.count
}

func (i *DefaultThrottleInfo) WalkStarted() time.Time {
	return i.started
}

func (i *DefaultThrottleInfo) Elapsed() time.Duration {
	return i.clock().Sub(i.started)
}

// ThrottleController decides whether and how long a walk sleeps after each processed item.
type ThrottleController interface {
	WalkStarted(ctx *Context)
	WalkEnded(ctx *Context, info ThrottleInfo)
	IsThrottled() bool
	// ThrottleTime is the sleep requested after the current item; zero or negative means no sleep.
	ThrottleTime(info ThrottleInfo) time.Duration
}

// NoThrottleTime is returned by controllers that never sleep.
const NoThrottleTime time.Duration = -1

type noThrottle struct{}

// NoThrottle returns the controller that never throttles.
func NoThrottle() ThrottleController {
	return noThrottle{}
}

func (noThrottle) WalkStarted(*Context)                    {}
func (noThrottle) WalkEnded(*Context, ThrottleInfo)        {}
func (noThrottle) IsThrottled() bool                       { return false }
func (noThrottle) ThrottleTime(ThrottleInfo) time.Duration { return NoThrottleTime }
