package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/woxQAQ/esql-lsp/internal/config"
	"github.com/woxQAQ/esql-lsp/internal/lsp"
	"github.com/woxQAQ/esql-lsp/internal/metrics"
	"github.com/woxQAQ/esql-lsp/internal/schema"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the language server over stdio, or TCP when a port is given",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context(), port)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "TCP port for LSP server (0 for stdio)")
	return cmd
}

func (a *app) serve(ctx context.Context, port int) error {
	a.logger.Info("Starting esql-lsp",
		zap.String("version", version),
		zap.String("commit", commit),
		zap.String("date", date),
	)

	m := metrics.New(nil)
	cache := schema.NewCache()
	refresher := schema.NewRefresher(cache, schema.WithMetrics(m), schema.WithLogger(a.logger))
	defer refresher.Stop()

	cfg := a.cfg
	if a.configPath != "" {
		watched, err := config.WatchServerConfig(a.configPath,
			func(next *config.ServerConfig) {
				a.logger.Info("Configuration changed, reconfiguring schema refresh")
				reconfigure(refresher, next)
			},
			func(err error) {
				a.logger.Error("Failed to reload configuration", zap.Error(err))
			},
		)
		if err != nil {
			return fmt.Errorf("watch configuration: %w", err)
		}
		cfg = watched
	}
	reconfigure(refresher, cfg)

	an, err := a.newAnalyzer(ctx, cache, m)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := lsp.NewServer(an, a.logger,
		lsp.WithVersion(version),
		lsp.WithDebug(cfg.LogLevel == "debug"),
		lsp.WithExitHandler(cancel),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		if port > 0 {
			return srv.ServeTCP(gctx, port)
		}
		return srv.ServeStdio(gctx)
	})
	if cfg.MetricsEnabled {
		serveMetrics(gctx, g, a.logger, m, cfg.MetricsPort)
	}

	err = g.Wait()
	a.logger.Info("Server shutdown complete")
	return multierr.Append(err, srv.Close())
}

func reconfigure(r *schema.Refresher, cfg *config.ServerConfig) {
	r.Reconfigure(schema.Source{
		URL:     cfg.Elasticsearch.URL,
		APIKey:  cfg.Elasticsearch.APIKey,
		Timeout: cfg.Elasticsearch.Timeout,
	}, cfg.Elasticsearch.RefreshInterval)
}

// serveMetrics exposes m on /metrics until ctx is done.
func serveMetrics(ctx context.Context, g *errgroup.Group, logger *zap.Logger, m *metrics.Metrics, port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		logger.Info("Serving metrics", zap.String("address", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
}
