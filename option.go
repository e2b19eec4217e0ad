package nexus

import (
	"fmt"

	"github.com/sonatype/nexus-public-sub016/pkg/walker"
)

type Option func(*config) error

type config struct {
	Order              walker.Order
	ProcessCollections bool
	LocalOnly          bool
	Processors         []walker.Processor
	Filters            []walker.Filter
	Throttle           walker.ThrottleController
	Comparator         walker.Comparator
}

func WithOrder(o walker.Order) Option {
	return func(c *config) error {
		c.Order = o
		return nil
	}
}

func WithProcessCollections(process bool) Option {
	return func(c *config) error {
		c.ProcessCollections = process
		return nil
	}
}

// WithLocalOnly restricts resolution of the start path to locally stored content.
func WithLocalOnly(localOnly bool) Option {
	return func(c *config) error {
		c.LocalOnly = localOnly
		return nil
	}
}

func WithProcessors(processors ...walker.Processor) Option {
	return func(c *config) error {
		c.Processors = append(c.Processors, processors...)
		return nil
	}
}

// WithFilter adds a filter; all filters must accept a node for it to be processed or descended into.
func WithFilter(f walker.Filter) Option {
	return func(c *config) error {
		if f == nil {
			return fmt.Errorf("nil filter")
		}
		c.Filters = append(c.Filters, f)
		return nil
	}
}

func WithThrottle(tc walker.ThrottleController) Option {
	return func(c *config) error {
		c.Throttle = tc
		return nil
	}
}

func WithComparator(cmp walker.Comparator) Option {
	return func(c *config) error {
		c.Comparator = cmp
		return nil
	}
}

// WithConfig applies every setting of a loaded Config.
func WithConfig(cfg Config) Option {
	return func(c *config) error {
		options, err := cfg.Options()
		if err != nil {
			return err
		}
		return applyOptions(c, options...)
	}
}

func applyOptions(cfg *config, options ...Option) error {
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(cfg); err != nil {
			return fmt.Errorf("unable to parse option: %w", err)
		}
	}
	return nil
}

func (c config) contextOptions() []walker.ContextOption {
	options := []walker.ContextOption{
		walker.WithOrder(c.Order),
		walker.WithProcessCollections(c.ProcessCollections),
		walker.WithProcessors(c.Processors...),
		walker.WithComparator(c.Comparator),
	}
	switch len(c.Filters) {
	case 0:
	case 1:
		options = append(options, walker.WithFilter(c.Filters[0]))
	default:
		options = append(options, walker.WithFilter(walker.NewConjunction(c.Filters...)))
	}
	if c.Throttle != nil {
		options = append(options, walker.WithThrottleController(c.Throttle))
	}
	return options
}
