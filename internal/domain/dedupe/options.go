package dedupe

// Option configures an in-memory Deduper.
type Option func(*inMemory)

// WithMaxKeys sets how many keys are kept. Zero or less keeps every key.
func WithMaxKeys(n int) Option {
	return func(d *inMemory) {
		d.maxKeys = n
	}
}
