package walker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wagoodman/go-partybus"

	"github.com/sonatype/nexus-public-sub016/internal/bus"
	"github.com/sonatype/nexus-public-sub016/pkg/event"
)

// processItems simulates n items, each taking the given time.
func processItems(clock *fakeClock, info ThrottleInfo, n int, each time.Duration) {
	for i := 0; i < n; i++ {
		info.EnterProcessItem()
		clock.Advance(each)
		info.ExitProcessItem()
	}
}

func newTestController(t *testing.T, clock *fakeClock, limit int, sequence NumberSequence, options ...FixedRateOption) *FixedRateThrottleController {
	t.Helper()
	options = append([]FixedRateOption{WithClock(clock.Now), WithAdjustmentSlice(time.Second)}, options...)
	c, err := NewFixedRateThrottleController(limit, sequence, options...)
	require.NoError(t, err)
	c.WalkStarted(nil)
	return c
}

func TestNewFixedRateThrottleController(t *testing.T) {
	tests := []struct {
		name     string
		limit    int
		sequence NumberSequence
		options  []FixedRateOption
		wantErr  require.ErrorAssertionFunc
	}{
		{name: "unlimited", limit: Unlimited, sequence: NewFibonacciSequence(0), wantErr: require.NoError},
		{name: "freeze", limit: 0, sequence: NewFibonacciSequence(0), wantErr: require.NoError},
		{name: "invalid limit", limit: -2, sequence: NewFibonacciSequence(0), wantErr: require.Error},
		{name: "no sequence", limit: 10, wantErr: require.Error},
		{name: "negative sequence start", limit: 10, sequence: NewLinearSequence(-1, 1), wantErr: require.Error},
		{name: "bad slice", limit: 10, sequence: ConstantSequence(1), options: []FixedRateOption{WithAdjustmentSlice(0)}, wantErr: require.Error},
		{name: "nil clock", limit: 10, sequence: ConstantSequence(1), options: []FixedRateOption{WithClock(nil)}, wantErr: require.Error},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewFixedRateThrottleController(test.limit, test.sequence, test.options...)
			test.wantErr(t, err)
		})
	}
}

func TestFixedRateThrottleController_Unlimited(t *testing.T) {
	clock := newFakeClock()
	info := NewDefaultThrottleInfo(clock.Now)
	c := newTestController(t, clock, Unlimited, NewFibonacciSequence(0))

	assert.False(t, c.IsThrottled())
	for i := 0; i < 10; i++ {
		processItems(clock, info, 1000, time.Millisecond)
		assert.Equal(t, time.Duration(0), c.ThrottleTime(info))
	}
	assert.Equal(t, 1000.0, c.LastSliceTPS())
	assert.Equal(t, 1000.0, c.GlobalMaxTPS())
}

func TestFixedRateThrottleController_Freeze(t *testing.T) {
	clock := newFakeClock()
	info := NewDefaultThrottleInfo(clock.Now)
	c := newTestController(t, clock, 0, NewFibonacciSequence(0))

	assert.True(t, c.IsThrottled())

	var previous time.Duration
	for i := 0; i < 8; i++ {
		processItems(clock, info, 1, time.Second)
		sleep := c.ThrottleTime(info)
		assert.Positive(t, sleep)
		assert.GreaterOrEqual(t, sleep, previous)
		previous = sleep
	}
}

func TestFixedRateThrottleController_AdjustsPerSlice(t *testing.T) {
	clock := newFakeClock()
	info := NewDefaultThrottleInfo(clock.Now)
	c := newTestController(t, clock, 10, NewLinearSequence(0, 100))

	// within the slice nothing is recomputed
	processItems(clock, info, 5, 100*time.Millisecond)
	assert.Equal(t, time.Duration(0), c.ThrottleTime(info))
	assert.Zero(t, c.LastSliceTPS())

	// 15 items in the first second: over the limit
	processItems(clock, info, 10, 50*time.Millisecond)
	assert.Equal(t, 100*time.Millisecond, c.ThrottleTime(info))
	assert.InDelta(t, 15.0, c.LastSliceTPS(), 0.001)

	// 40 items in the next second: still over
	processItems(clock, info, 40, 25*time.Millisecond)
	assert.Equal(t, 200*time.Millisecond, c.ThrottleTime(info))
	assert.InDelta(t, 40.0, c.GlobalMaxTPS(), 0.001)
	assert.InDelta(t, 27.5, c.GlobalAverageTPS(), 0.001)

	// 5 items in the next second: under the limit
	processItems(clock, info, 5, 200*time.Millisecond)
	assert.Equal(t, 100*time.Millisecond, c.ThrottleTime(info))
	assert.InDelta(t, 5.0, c.LastSliceTPS(), 0.001)
	assert.InDelta(t, 40.0, c.GlobalMaxTPS(), 0.001)
}

func TestFixedRateThrottleController_ZeroElapsedYieldsSentinel(t *testing.T) {
	clock := newFakeClock()
	info := NewDefaultThrottleInfo(clock.Now)

	var calls int
	c := newTestController(t, clock, 10, NewFibonacciSequence(0), WithStatsCallback(func(*FixedRateThrottleController) {
		calls++
	}))

	c.WalkEnded(nil, info)
	assert.Equal(t, -1.0, c.GlobalAverageTPS())
	assert.Equal(t, -1.0, c.LastSliceTPS())
	assert.Zero(t, c.GlobalMaxTPS())
	assert.Equal(t, time.Duration(0), c.SleepTime())
	assert.Equal(t, 1, calls)
}

func TestFixedRateThrottleController_WalkStartedResets(t *testing.T) {
	clock := newFakeClock()
	info := NewDefaultThrottleInfo(clock.Now)
	c := newTestController(t, clock, 0, NewLinearSequence(0, 10))

	processItems(clock, info, 10, 200*time.Millisecond)
	require.Positive(t, c.ThrottleTime(info))

	c.WalkStarted(nil)
	assert.Equal(t, time.Duration(0), c.SleepTime())
	assert.Zero(t, c.GlobalMaxTPS())
}

func TestPublishThrottleStats(t *testing.T) {
	var events []partybus.Event
	bus.SetPublisher(publisherFunc(func(e partybus.Event) {
		events = append(events, e)
	}))
	t.Cleanup(func() {
		bus.SetPublisher(nil)
	})

	clock := newFakeClock()
	info := NewDefaultThrottleInfo(clock.Now)
	c := newTestController(t, clock, 1, NewFibonacciSequence(0), WithStatsCallback(PublishThrottleStats))

	processItems(clock, info, 4, 500*time.Millisecond)
	c.ThrottleTime(info)

	require.Len(t, events, 1)
	assert.Equal(t, event.ThrottleAdjusted, events[0].Type)
	assert.Same(t, c, events[0].Source)
	assert.Equal(t, c.Stats(), events[0].Value)
}

func TestDefaultThrottleInfo(t *testing.T) {
	clock := newFakeClock()
	info := NewDefaultThrottleInfo(clock.Now)
	start := clock.Now()

	processItems(clock, info, 3, 10*time.Millisecond)
	clock.Advance(time.Second)

	assert.Equal(t, start, info.WalkStarted())
	assert.Equal(t, int64(3), info.TotalProcessItemInvocationCount())
	assert.Equal(t, 30*time.Millisecond, info.TotalProcessItemSpent())
	assert.Equal(t, time.Second+30*time.Millisecond, info.Elapsed())
}

func TestNoThrottle(t *testing.T) {
	n := NoThrottle()
	assert.False(t, n.IsThrottled())
	assert.Equal(t, NoThrottleTime, n.ThrottleTime(nil))
}
