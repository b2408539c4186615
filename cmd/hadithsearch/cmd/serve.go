package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hadithsearch/internal/config"
	"github.com/kailas-cloud/hadithsearch/internal/metrics"
	chiTransport "github.com/kailas-cloud/hadithsearch/internal/transport/chi"
	"github.com/kailas-cloud/hadithsearch/internal/version"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP search API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if port > 0 {
				cfg.HTTP.Port = port
			}
			return runServe(cmd.Context(), &cfg, opts.env, logger)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "HTTP port (overrides http.port)")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, env string, logger *zap.Logger) error {
	logger.Info("Starting hadithsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("index_driver", cfg.Index.Driver),
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.String("reranker_model", cfg.Reranker.Model),
	)

	metrics.Register(prometheus.DefaultRegisterer)

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeApp(a, logger)

	server := chiTransport.NewServer(a.Search, a.Documents, a.Cache, a.Health, version.Version, logger)
	handler := chiTransport.NewRouter(server, chiTransport.RouterOptions{
		APIKeys:     cfg.Auth.APIKeys,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Logger:      logger,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("Server stopped gracefully")
	return nil
}
