package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"momo-engine/internal/engine"
	"momo-engine/internal/handler"
	"momo-engine/internal/metrics"
	"momo-engine/internal/operations"
	"momo-engine/internal/tiercatalog"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the calculation HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	m := metrics.New()

	catalog, err := a.newCatalog(m)
	if err != nil {
		return err
	}
	defer catalog.Close()

	e := engine.New(operations.NewRegistry(catalog), a.logger, m)
	h := handler.New(e, catalog, m, a.logger)

	srv := &fasthttp.Server{
		Handler:      h.Handle,
		Name:         "momo-engine",
		ReadTimeout:  a.cfg.GetReadTimeout(),
		WriteTimeout: a.cfg.GetWriteTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("momo engine starting",
			zap.String("port", a.cfg.Server.Port),
			zap.Bool("tier_catalog", catalog.Enabled()))
		errCh <- srv.ListenAndServe(":" + a.cfg.Server.Port)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		a.logger.Info("shutting down")
		return srv.Shutdown()
	}
}

func (a *app) newCatalog(m *metrics.Metrics) (*tiercatalog.Client, error) {
	return tiercatalog.New(tiercatalog.Config{
		BaseURL:     a.cfg.Catalog.BaseURL,
		Timeout:     a.cfg.GetCatalogTimeout(),
		CacheSize:   a.cfg.Catalog.CacheSize,
		Concurrency: a.cfg.Catalog.Concurrency,
		FailureTTL:  a.cfg.GetCatalogFailureTTL(),
	}, a.cfg.DefaultTiers, a.logger, m)
}
