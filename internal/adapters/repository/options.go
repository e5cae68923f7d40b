package repository

import "github.com/klauspost/compress/zstd"

// Option applies a configuration option to Save.
type Option func(*options)

type options struct {
	compress bool
	level    zstd.EncoderLevel
}

func newOptions(opts []Option) options {
	o := options{compress: true, level: zstd.SpeedDefault}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithCompression toggles zstd compression of archives.
func WithCompression(enabled bool) Option {
	return func(o *options) {
		o.compress = enabled
	}
}

// WithLevel sets the zstd encoder level.
func WithLevel(level zstd.EncoderLevel) Option {
	return func(o *options) {
		if level > 0 {
			o.level = level
		}
	}
}
