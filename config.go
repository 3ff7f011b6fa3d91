package arachne

import (
	"time"

	"github.com/spf13/pflag"
)

// config holds resolved Runtime configuration.
type config struct {
	minCores          int
	maxCores          int
	stackSize         int
	estimatorPeriod   time.Duration
	estimatorStrategy LoadEstimatorStrategy
	policy            CorePolicy
	arbiter           Arbiter
	randSeed          uint64
}

// Option configures a Runtime at [Init] time. Grounded on
// eventloop/options.go's LoopOption: an interface wrapping a single
// apply closure, composed via a resolver that walks the slice in
// order and skips nils.
type Option interface {
	apply(*config) error
}

type optionFunc func(*config) error

func (f optionFunc) apply(c *config) error { return f(c) }

// WithCoreRange sets the inclusive range of cores the runtime may hold
// at once (spec.md §4.H/§4.I). min must be at least 1.
func WithCoreRange(min, max int) Option {
	return optionFunc(func(c *config) error {
		if min < 1 || max < min {
			return ErrInvalidCore
		}
		c.minCores, c.maxCores = min, max
		return nil
	})
}

// WithStackSize sets the per-thread stack size budget recorded for
// diagnostics (see the note on ThreadContext.stackSize).
func WithStackSize(bytes int) Option {
	return optionFunc(func(c *config) error {
		if bytes <= 0 {
			bytes = defaultStackSize
		}
		c.stackSize = bytes
		return nil
	})
}

// WithLoadEstimator selects the strategy and sampling period the core
// load estimator uses (spec.md §4.I).
func WithLoadEstimator(strategy LoadEstimatorStrategy, period time.Duration) Option {
	return optionFunc(func(c *config) error {
		if period <= 0 {
			period = defaultEstimatorPeriod
		}
		c.estimatorStrategy = strategy
		c.estimatorPeriod = period
		return nil
	})
}

// WithCorePolicy overrides the default SHARED/EXCLUSIVE CorePolicy.
func WithCorePolicy(p CorePolicy) Option {
	return optionFunc(func(c *config) error {
		c.policy = p
		return nil
	})
}

// WithArbiter wires an external core arbiter (spec.md §6). If unset,
// Init uses a fixedArbiter that grants exactly MaxCores and never
// reclaims any.
func WithArbiter(a Arbiter) Option {
	return optionFunc(func(c *config) error {
		c.arbiter = a
		return nil
	})
}

// withRandSeed fixes the two-choice placement RNG's seed, for
// deterministic tests.
func withRandSeed(seed uint64) Option {
	return optionFunc(func(c *config) error {
		c.randSeed = seed
		return nil
	})
}

func resolveConfig(opts []Option) (*config, error) {
	c := &config{
		minCores:          1,
		maxCores:          1,
		stackSize:         defaultStackSize,
		estimatorPeriod:   defaultEstimatorPeriod,
		estimatorStrategy: LoadFactorStrategy,
	}
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o.apply(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// FlagSet registers arachne's tunables onto fs, for embedding into a
// larger command's flag set. Grounded on the pack's pflag usage: unknown
// flags are left to the caller via pflag's own
// ParseErrorsWhitelist{UnknownFlags: true}, so arachne's flags can live
// alongside a host application's without either side needing to know
// the other's flag names in advance.
func FlagSet(fs *pflag.FlagSet) *FlagValues {
	v := &FlagValues{}
	fs.IntVar(&v.MinCores, "arachne-min-cores", 1, "minimum cores arachne holds")
	fs.IntVar(&v.MaxCores, "arachne-max-cores", 1, "maximum cores arachne may request")
	fs.DurationVar(&v.EstimatorPeriod, "arachne-estimator-period", defaultEstimatorPeriod, "core load estimator sampling period")
	fs.StringVar(&v.EstimatorStrategy, "arachne-estimator-strategy", "load_factor", "core load estimator strategy: load_factor or utilization")
	return v
}

// FlagValues holds the destinations FlagSet binds pflag flags to.
type FlagValues struct {
	MinCores          int
	MaxCores          int
	EstimatorPeriod   time.Duration
	EstimatorStrategy string
}

// Options converts parsed flag values into Init options.
func (v *FlagValues) Options() []Option {
	strategy := LoadFactorStrategy
	if v.EstimatorStrategy == "utilization" {
		strategy = UtilizationStrategy
	}
	return []Option{
		WithCoreRange(v.MinCores, v.MaxCores),
		WithLoadEstimator(strategy, v.EstimatorPeriod),
	}
}
