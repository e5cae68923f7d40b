// Package config defines the service configuration and how it is loaded.
package config

import (
	"fmt"
	"runtime"
	"slices"

	"github.com/okian/numerox/internal/domain/analytics"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log records.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// PredictionDir holds prediction archives loaded at startup. Empty means
	// start with an empty table.
	PredictionDir string `koanf:"prediction_dir"`

	// PredictionExt is the archive file extension, without the dot.
	PredictionExt string `koanf:"prediction_ext"`

	// DataPath is the labeled CSV dataset predictions are scored against.
	DataPath string `koanf:"data_path"`

	// SortBy is the default performance sort key.
	SortBy string `koanf:"sort_by"`

	// CorrThreshold and KSThreshold drive the originality checks.
	CorrThreshold float64 `koanf:"corr_threshold"`
	KSThreshold   float64 `koanf:"ks_threshold"`

	// CSVDecimals is the number of decimals written by CSV export.
	CSVDecimals int `koanf:"csv_decimals"`

	// Workers bounds how many models are scored at once.
	Workers int `koanf:"workers"`

	// Compress writes archives zstd-compressed.
	Compress bool `koanf:"compress"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		LogFormat:     "text",
		Addr:          ":9080",
		PredictionExt: "pred",
		SortBy:        analytics.SortLogLoss,
		CorrThreshold: analytics.DefaultCorrThreshold,
		KSThreshold:   analytics.DefaultKSThreshold,
		CSVDecimals:   6,
		Workers:       runtime.NumCPU(),
		Compress:      true,
	}
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case !slices.Contains(analytics.SortKeys, c.SortBy):
		return fmt.Errorf("%w: sort_by %q must be one of %v", ErrInvalidConfig, c.SortBy, analytics.SortKeys)
	case c.CorrThreshold < 0 || c.CorrThreshold > 1:
		return fmt.Errorf("%w: corr_threshold %v outside [0,1]", ErrInvalidConfig, c.CorrThreshold)
	case c.KSThreshold < 0 || c.KSThreshold > 1:
		return fmt.Errorf("%w: ks_threshold %v outside [0,1]", ErrInvalidConfig, c.KSThreshold)
	case c.CSVDecimals < 0:
		return fmt.Errorf("%w: csv_decimals must not be negative", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format %q must be text or json", ErrInvalidConfig, c.LogFormat)
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	return nil
}
