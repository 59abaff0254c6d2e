package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/searchine/searchine/internal/engine"
	"github.com/searchine/searchine/internal/server"
	"github.com/searchine/searchine/pkg/metrics"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the search API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var m *metrics.Metrics
			var gatherer prometheus.Gatherer
			if cfg.Metrics.Enabled {
				registry := prometheus.NewRegistry()
				m = metrics.New(registry)
				gatherer = registry
			}

			eng := engine.New(cfg, m)
			searcher, err := eng.OpenSearcher(flagDir)
			if err != nil {
				return err
			}
			defer searcher.Close()

			srv := &http.Server{
				Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
				Handler:      server.New(searcher, m, gatherer).Handler(),
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				slog.Info("search server listening",
					"addr", srv.Addr,
					"documents", searcher.DocCount(),
					"terms", searcher.NumTerms(),
				)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			slog.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
