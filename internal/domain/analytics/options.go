package analytics

import "runtime"

// Default originality thresholds.
const (
	DefaultCorrThreshold = 0.95
	DefaultKSThreshold   = 0.03
)

// Option applies a configuration option to an analytics call.
type Option func(*options)

type options struct {
	workers       int
	corrThreshold float64
	ksThreshold   float64
}

func newOptions(opts []Option) options {
	o := options{
		workers:       runtime.NumCPU(),
		corrThreshold: DefaultCorrThreshold,
		ksThreshold:   DefaultKSThreshold,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithWorkers bounds how many models are scored concurrently.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithCorrThreshold sets the Pearson correlation above which a model is
// considered a copy of a submitted one.
func WithCorrThreshold(v float64) Option {
	return func(o *options) {
		o.corrThreshold = v
	}
}

// WithKSThreshold sets the KS statistic at or below which two prediction
// distributions are considered the same.
func WithKSThreshold(v float64) Option {
	return func(o *options) {
		o.ksThreshold = v
	}
}
