package walker

import (
	"fmt"
	"time"

	"github.com/wagoodman/go-partybus"

	"github.com/sonatype/nexus-public-sub016/internal/bus"
	"github.com/sonatype/nexus-public-sub016/internal/log"
	"github.com/sonatype/nexus-public-sub016/pkg/event"
)

const (
	// Unlimited disables throttling.
	Unlimited = -1
	// DefaultAdjustmentSlice is how often throughput is measured and the sleep time adjusted.
	DefaultAdjustmentSlice = 2 * time.Second
)

// ThrottleStats is a snapshot of the measurements of a FixedRateThrottleController.
type ThrottleStats struct {
	LimiterTPS int
	// GlobalAverageTPS is the throughput since the walk started (-1 when no time has elapsed).
	GlobalAverageTPS float64
	// GlobalMaxTPS is the highest slice throughput seen.
	GlobalMaxTPS float64
	// LastSliceTPS is the throughput of the most recent slice (-1 when no time has elapsed).
	LastSliceTPS float64
	SleepTime    time.Duration
}

type FixedRateOption func(*FixedRateThrottleController) error

func WithAdjustmentSlice(d time.Duration) FixedRateOption {
	return func(c *FixedRateThrottleController) error {
		if d <= 0 {
			return fmt.Errorf("adjustment slice must be positive: %s", d)
		}
		c.slice = d
		return nil
	}
}

func WithClock(clock Clock) FixedRateOption {
	return func(c *FixedRateThrottleController) error {
		if clock == nil {
			return fmt.Errorf("nil clock")
		}
		c.clock = clock
		return nil
	}
}

// WithStatsCallback registers a function invoked after every adjustment.
func WithStatsCallback(fn func(*FixedRateThrottleController)) FixedRateOption {
	return func(c *FixedRateThrottleController) error {
		c.callback = fn
		return nil
	}
}

// FixedRateThrottleController caps the throughput of a walk at a number of processed items per second. Once per
// adjustment slice the throughput of the slice is measured: above the limit the sleep time moves to the next value of
// the sequence, otherwise back to the previous one. Sequence values are milliseconds.
type FixedRateThrottleController struct {
	limiterTPS int
	slice      time.Duration
	sequence   NumberSequence
	clock      Clock
	callback   func(*FixedRateThrottleController)

	sleepTime      int64
	lastAdjustment time.Time
	lastCount      int64

	globalAverageTPS float64
	globalMaxTPS     float64
	lastSliceTPS     float64
}

// NewFixedRateThrottleController limits a walk to limiterTPS items per second: Unlimited disables throttling and 0
// slows the walk down as long as items are flowing.
func NewFixedRateThrottleController(limiterTPS int, sequence NumberSequence, options ...FixedRateOption) (*FixedRateThrottleController, error) {
	if limiterTPS < Unlimited {
		return nil, fmt.Errorf("invalid limiter TPS: %d", limiterTPS)
	}
	if sequence == nil {
		return nil, fmt.Errorf("no sleep time sequence provided")
	}
	sequence.Reset()
	if sequence.Peek() < 0 {
		return nil, fmt.Errorf("sleep time sequence must start at a non-negative value: %d", sequence.Peek())
	}

	c := &FixedRateThrottleController{
		limiterTPS: limiterTPS,
		slice:      DefaultAdjustmentSlice,
		sequence:   sequence,
		clock:      time.Now,
		sleepTime:  sequence.Peek(),
	}
	for _, o := range options {
		if err := o(c); err != nil {
			return nil, fmt.Errorf("unable to parse option: %w", err)
		}
	}
	c.lastAdjustment = c.clock()
	return c, nil
}

func (c *FixedRateThrottleController) WalkStarted(*Context) {
	c.sequence.Reset()
	c.sleepTime = c.sequence.Peek()
	c.lastAdjustment = c.clock()
	c.lastCount = 0
	c.globalAverageTPS = 0
	c.globalMaxTPS = 0
	c.lastSliceTPS = 0
}

func (c *FixedRateThrottleController) WalkEnded(_ *Context, info ThrottleInfo) {
	c.adjust(info, true)
}

func (c *FixedRateThrottleController) IsThrottled() bool {
	return c.limiterTPS != Unlimited
}

func (c *FixedRateThrottleController) ThrottleTime(info ThrottleInfo) time.Duration {
	c.adjust(info, false)
	return c.SleepTime()
}

func (c *FixedRateThrottleController) adjust(info ThrottleInfo, force bool) {
	now := c.clock()
	sinceLast := now.Sub(c.lastAdjustment)
	if !force && sinceLast < c.slice {
		return
	}

	count := info.TotalProcessItemInvocationCount()
	c.globalAverageTPS = cps(count, now.Sub(info.WalkStarted()).Milliseconds())
	c.lastSliceTPS = cps(count-c.lastCount, sinceLast.Milliseconds())
	if c.lastSliceTPS > c.globalMaxTPS {
		c.globalMaxTPS = c.lastSliceTPS
	}

	if c.limiterTPS != Unlimited {
		if c.lastSliceTPS > float64(c.limiterTPS) {
			c.sleepTime = c.sequence.Next()
		} else {
			c.sleepTime = c.sequence.Prev()
		}
	}

	c.lastAdjustment = now
	c.lastCount = count

	if c.callback != nil {
		c.callback(c)
	}
}

// cps is the count per second, or -1 when no time has elapsed.
func cps(count, millis int64) float64 {
	if millis == 0 {
		return -1
	}
	return float64(count) / float64(millis) * 1000
}

func (c *FixedRateThrottleController) LimiterTPS() int {
	return c.limiterTPS
}

func (c *FixedRateThrottleController) SleepTime() time.Duration {
	return time.Duration(c.sleepTime) * time.Millisecond
}

func (c *FixedRateThrottleController) GlobalAverageTPS() float64 {
	return c.globalAverageTPS
}

func (c *FixedRateThrottleController) GlobalMaxTPS() float64 {
	return c.globalMaxTPS
}

func (c *FixedRateThrottleController) LastSliceTPS() float64 {
	return c.lastSliceTPS
}

func (c *FixedRateThrottleController) Stats() ThrottleStats {
	return ThrottleStats{
		LimiterTPS:       c.limiterTPS,
		GlobalAverageTPS: c.globalAverageTPS,
		GlobalMaxTPS:     c.globalMaxTPS,
		LastSliceTPS:     c.lastSliceTPS,
		SleepTime:        c.SleepTime(),
	}
}

// PublishThrottleStats is a stats callback that logs every adjustment and publishes it as a ThrottleAdjusted event.
func PublishThrottleStats(c *FixedRateThrottleController) {
	stats := c.Stats()
	log.Tracef("throttle adjusted: limit=%d tps, slice=%.2f tps, avg=%.2f tps, max=%.2f tps, sleep=%s",
		stats.LimiterTPS, stats.LastSliceTPS, stats.GlobalAverageTPS, stats.GlobalMaxTPS, stats.SleepTime)

	bus.Publish(partybus.Event{
		Type:   event.ThrottleAdjusted,
		Source: c,
		Value:  stats,
	})
}
