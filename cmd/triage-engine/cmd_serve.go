package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/triagestack/triage-engine/internal/api"
	"github.com/triagestack/triage-engine/internal/metrics"
	"github.com/triagestack/triage-engine/internal/services"
)

func newServeCommand(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the triage engine as an HTTP service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			logger := newLogger(cfg)
			a := buildAnalyzer(cfg, logger)
			service := services.NewTriageService(logger, a)

			registry := prometheus.NewRegistry()
			if err := metrics.Register(registry); err != nil {
				return err
			}

			server, err := api.NewServer(cfg.Server, service)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			metricsServer := &http.Server{Addr: cfg.Server.MetricsAddress, Handler: metricsMux(registry)}
			go func() {
				logger.Info("metrics listener started", "address", cfg.Server.MetricsAddress)
				if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("metrics listener failed", "error", err)
				}
			}()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("triage engine listening", "address", server.Address())
				errCh <- server.Start()
			}()

			select {
			case <-ctx.Done():
				logger.Info("shutdown signal received")
			case err := <-errCh:
				if err != nil {
					return err
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), server.GracefulTimeout())
			defer cancel()
			server.Shutdown(shutdownCtx)
			_ = metricsServer.Shutdown(shutdownCtx)
			logger.Info("shutdown complete")
			return nil
		},
	}
	return cmd
}

func metricsMux(registry *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return mux
}
