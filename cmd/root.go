package main

import (
	"context"
	"fmt"
	"os"

	service "github.com/okian/numerox/internal/app"
	"github.com/okian/numerox/internal/config"
	"github.com/okian/numerox/pkg/logger"
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

// rootOptions holds the flags shared by every subcommand. Flags left unset
// keep the value from config.Load.
type rootOptions struct {
	cfg *config.Config

	dir     string
	ext     string
	data    string
	workers int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "numerox",
		Short: "Merge model predictions and compare their performance",
		Long: "numerox merges per-model predictions into one table keyed by row id\n" +
			"and scores them era by era against a labeled dataset.",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}
	cmd.Version = version

	f := cmd.PersistentFlags()
	f.StringVar(&opts.dir, "dir", "", "directory of prediction archives (default from NUMEROX_PREDICTION_DIR)")
	f.StringVar(&opts.ext, "ext", "", "archive file extension (default from NUMEROX_PREDICTION_EXT)")
	f.StringVar(&opts.data, "data", "", "labeled dataset CSV (default from NUMEROX_DATA_PATH)")
	f.IntVar(&opts.workers, "workers", 0, "models scored concurrently (default from NUMEROX_WORKERS)")

	cmd.AddCommand(
		newServeCmd(opts),
		newPerformanceCmd(opts),
		newSummaryCmd(opts),
		newEraCmd(opts),
		newDominanceCmd(opts),
		newCorrelationCmd(opts),
		newOriginalityCmd(opts),
		newExportCmd(opts),
	)
	return cmd
}

// load reads the configuration, applies flag overrides and sets up logging
// on stderr so stdout stays clean for reports.
func (o *rootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if f.Changed("dir") {
		cfg.PredictionDir = o.dir
	}
	if f.Changed("ext") {
		cfg.PredictionExt = o.ext
	}
	if f.Changed("data") {
		cfg.DataPath = o.data
	}
	if f.Changed("workers") {
		cfg.Workers = o.workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.cfg = cfg

	if err := logger.Init(logger.WithWriter(os.Stderr), logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(cmd.Context(), "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return nil
}

// service builds and starts a service from the loaded configuration.
func (o *rootOptions) service(ctx context.Context, extra ...service.Option) (*service.Service, error) {
	opts := append(service.FromConfig(o.cfg), service.WithLogger(logger.Named("service")))
	svc := service.New(append(opts, extra...)...)
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}
