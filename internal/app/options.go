package service

import (
	"github.com/okian/numerox/internal/config"
	"github.com/okian/numerox/internal/domain/model"
	"github.com/okian/numerox/internal/domain/prediction"
	"github.com/okian/numerox/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWorkers bounds how many models are scored concurrently.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithPredictionDir makes Start load every *.ext archive found in dir.
func WithPredictionDir(dir, ext string) Option {
	return func(s *Service) {
		s.predictionDir = dir
		if ext != "" {
			s.predictionExt = ext
		}
	}
}

// WithDataPath makes Start load the labeled dataset at path.
func WithDataPath(path string) Option {
	return func(s *Service) {
		s.dataPath = path
	}
}

// WithDataset sets the labeled dataset directly.
func WithDataset(d *model.Dataset) Option {
	return func(s *Service) {
		s.data = d
	}
}

// WithTable seeds the service with a copy of t.
func WithTable(t *prediction.Table) Option {
	return func(s *Service) {
		if t != nil {
			s.table = t.Clone()
		}
	}
}

// WithSortBy sets the default performance sort key.
func WithSortBy(key string) Option {
	return func(s *Service) {
		if key != "" {
			s.sortBy = key
		}
	}
}

// WithThresholds sets the originality thresholds.
func WithThresholds(corr, ks float64) Option {
	return func(s *Service) {
		s.corrThreshold = corr
		s.ksThreshold = ks
	}
}

// WithCSVDecimals sets the precision of CSV exports.
func WithCSVDecimals(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.csvDecimals = n
		}
	}
}

// WithCompression toggles zstd compression of saved archives.
func WithCompression(enabled bool) Option {
	return func(s *Service) {
		s.compress = enabled
	}
}

// FromConfig maps a loaded configuration onto service options.
func FromConfig(cfg *config.Config) []Option {
	return []Option{
		WithWorkers(cfg.Workers),
		WithPredictionDir(cfg.PredictionDir, cfg.PredictionExt),
		WithDataPath(cfg.DataPath),
		WithSortBy(cfg.SortBy),
		WithThresholds(cfg.CorrThreshold, cfg.KSThreshold),
		WithCSVDecimals(cfg.CSVDecimals),
		WithCompression(cfg.Compress),
	}
}
