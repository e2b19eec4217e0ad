package nexus

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/anchore/go-homedir"
	"github.com/hashicorp/go-multierror"
	"github.com/pelletier/go-toml"

	"github.com/sonatype/nexus-public-sub016/internal/log"
	"github.com/sonatype/nexus-public-sub016/pkg/walker"
)

// ConfigFile is searched for in the XDG config directories when no explicit config path is given.
const ConfigFile = "nexus-walker/walker.toml"

const (
	FibonacciSequence = "fibonacci"
	LinearSequence    = "linear"
	ConstantSequence  = "constant"
)

// Config holds the walk defaults that may be stored in a TOML file.
type Config struct {
	Order              string         `toml:"order"`
	ProcessCollections bool           `toml:"process-collections"`
	Processors         []string       `toml:"processors"`
	Include            []string       `toml:"include"`
	ExcludeBasenames   []string       `toml:"exclude-basenames"`
	Throttle           ThrottleConfig `toml:"throttle"`
}

type ThrottleConfig struct {
	LimiterTPS    int    `toml:"limiter-tps"`
	Slice         string `toml:"slice"`
	Sequence      string `toml:"sequence"`
	SequenceStart int64  `toml:"sequence-start"`
	SequenceStep  int64  `toml:"sequence-step"`
}

func DefaultConfig() Config {
	return Config{
		Order: walker.DepthFirst.String(),
		Throttle: ThrottleConfig{
			LimiterTPS: walker.Unlimited,
			Slice:      walker.DefaultAdjustmentSlice.String(),
			Sequence:   FibonacciSequence,
		},
	}
}

// defaults for keys absent from a config file
var configDefaults = map[string]func(*Config){
	"order":                func(c *Config) { c.Order = DefaultConfig().Order },
	"throttle.limiter-tps": func(c *Config) { c.Throttle.LimiterTPS = DefaultConfig().Throttle.LimiterTPS },
	"throttle.slice":       func(c *Config) { c.Throttle.Slice = DefaultConfig().Throttle.Slice },
	"throttle.sequence":    func(c *Config) { c.Throttle.Sequence = DefaultConfig().Throttle.Sequence },
}

// LoadConfig reads the config file at the given path ("~" is expanded). With an empty path the XDG config
// directories are searched for ConfigFile; finding none yields DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		found, err := xdg.SearchConfigFile(ConfigFile)
		if err != nil {
			log.Debugf("no config file found, using defaults: %v", err)
			cfg := DefaultConfig()
			return &cfg, nil
		}
		path = found
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("unable to expand config path=%q: %w", path, err)
	}

	contents, err := os.ReadFile(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %q", expanded)
		}
		return nil, fmt.Errorf("unable to read config=%q: %w", expanded, err)
	}

	cfg, err := ParseConfig(contents)
	if err != nil {
		return nil, fmt.Errorf("unable to parse config=%q: %w", expanded, err)
	}
	log.Debugf("loaded config=%q", expanded)
	return cfg, nil
}

// ParseConfig decodes TOML content, applying defaults for absent keys.
func ParseConfig(contents []byte) (*Config, error) {
	tree, err := toml.LoadBytes(contents)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := tree.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	for key, setDefault := range configDefaults {
		if !tree.Has(key) {
			setDefault(&cfg)
		}
	}
	return &cfg, nil
}

// Validate reports every problem of the config.
func (c Config) Validate() error {
	var errs error

	if _, err := walker.ParseOrder(c.Order); err != nil {
		errs = multierror.Append(errs, err)
	}

	known := make(map[string]bool)
	for _, tag := range allProcessorTags() {
		known[tag] = true
	}
	for _, name := range c.Processors {
		if !known[name] {
			errs = multierror.Append(errs, fmt.Errorf("unknown processor: %q (available: %s)", name, strings.Join(allProcessorTags(), ", ")))
		}
	}

	if _, err := walker.GlobPredicate(c.Include...); err != nil {
		errs = multierror.Append(errs, err)
	}

	if err := c.Throttle.validate(); err != nil {
		errs = multierror.Append(errs, err)
	}

	return errs
}

func (t ThrottleConfig) validate() error {
	var errs error
	if t.LimiterTPS < walker.Unlimited {
		errs = multierror.Append(errs, fmt.Errorf("invalid throttle limiter-tps: %d", t.LimiterTPS))
	}
	if d, err := time.ParseDuration(t.Slice); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("invalid throttle slice: %w", err))
	} else if d <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("throttle slice must be positive: %q", t.Slice))
	}
	switch t.Sequence {
	case FibonacciSequence, LinearSequence, ConstantSequence:
	default:
		errs = multierror.Append(errs, fmt.Errorf("unknown throttle sequence: %q", t.Sequence))
	}
	if t.SequenceStart < 0 {
		errs = multierror.Append(errs, fmt.Errorf("throttle sequence-start must not be negative: %d", t.SequenceStart))
	}
	if t.SequenceStep < 0 {
		errs = multierror.Append(errs, fmt.Errorf("throttle sequence-step must not be negative: %d", t.SequenceStep))
	}
	return errs
}

func (t ThrottleConfig) sequence() walker.NumberSequence {
	switch t.Sequence {
	case LinearSequence:
		return walker.NewLinearSequence(t.SequenceStart, t.SequenceStep)
	case ConstantSequence:
		return walker.ConstantSequence(t.SequenceStart)
	}
	return walker.NewFibonacciSequence(t.SequenceStart)
}

// Options converts the config into walk options. Selected processors and the throttle controller are created fresh on
// every call.
func (c Config) Options() ([]Option, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	order, _ := walker.ParseOrder(c.Order)
	options := []Option{
		WithOrder(order),
		WithProcessCollections(c.ProcessCollections),
		WithProcessors(SelectProcessors(c.Processors...)...),
	}

	if len(c.Include) > 0 {
		include, _ := walker.GlobPredicate(c.Include...)
		options = append(options, WithFilter(walker.NewPredicatePathFilter(walker.LivePath, include, nil)))
	}

	if len(c.ExcludeBasenames) > 0 {
		keep := walker.Not(walker.BasenamePredicate(c.ExcludeBasenames...))
		options = append(options, WithFilter(walker.NewPredicatePathFilter(walker.LivePath, keep, keep)))
	}

	if c.Throttle.LimiterTPS != walker.Unlimited {
		slice, _ := time.ParseDuration(c.Throttle.Slice)
		controller, err := walker.NewFixedRateThrottleController(c.Throttle.LimiterTPS, c.Throttle.sequence(),
			walker.WithAdjustmentSlice(slice),
			walker.WithStatsCallback(walker.PublishThrottleStats),
		)
		if err != nil {
			return nil, err
		}
		options = append(options, WithThrottle(controller))
	}

	return options, nil
}
