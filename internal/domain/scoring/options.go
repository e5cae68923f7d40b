package scoring

// Option applies a configuration option to MetricsPerEra.
type Option func(*options)

type options struct {
	workers int
}

// WithWorkers bounds how many models are scored concurrently.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}
