package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/numerox/internal/adapters/http/api"
	"github.com/okian/numerox/internal/adapters/http/swagger"
	"github.com/okian/numerox/pkg/logger"
	"github.com/spf13/cobra"
)

// HTTP server timeout constants.
const (
	readTimeout       = 30 * time.Second
	writeTimeout      = 5 * time.Minute
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		addr     string
		snapshot string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the prediction table over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				root.cfg.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, root, snapshot)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from NUMEROX_ADDR)")
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "save the table to this archive on shutdown")
	return cmd
}

func serve(ctx context.Context, root *rootOptions, snapshot string) error {
	log := logger.Get()
	cfg := root.cfg

	svc, err := root.service(ctx)
	if err != nil {
		return err
	}
	defer svc.Stop()

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.RequestID(mux),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	if snapshot != "" && len(svc.Models(shutdownCtx)) > 0 {
		if err := svc.Save(shutdownCtx, snapshot); err != nil {
			return err
		}
		log.Info(shutdownCtx, "saved snapshot", logger.String("path", snapshot))
	}
	log.Info(shutdownCtx, "server stopped")
	return nil
}
