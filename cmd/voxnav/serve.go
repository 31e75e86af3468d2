package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"voxnav/internal/intent"
	"voxnav/internal/oracle"
	"voxnav/internal/server"
	"voxnav/internal/transcribe"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the classification service",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		classifier := intent.NewClassifier(buildOracle(),
			intent.WithLogger(logger),
			intent.WithMetrics(intent.NewMetrics(registry)))

		opts := []server.ServerOption{
			server.WithServerLogger(logger),
			server.WithMetricsRegistry(registry),
		}
		if cfg.Transcribe.APIKey != "" {
			opts = append(opts, server.WithTranscriber(transcribe.NewDeepgramClientWithConfig(transcribe.DeepgramConfig{
				APIKey:  cfg.Transcribe.APIKey,
				BaseURL: cfg.Transcribe.BaseURL,
				Model:   cfg.Transcribe.Model,
			})))
		}

		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           server.New(classifier, opts...).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("classification service listening", zap.String("addr", cfg.Addr))
			errCh <- srv.ListenAndServe()
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case sig := <-sigCh:
			logger.Info("shutting down", zap.String("signal", sig.String()))
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		}
	},
}

// buildOracle constructs the oracle client from config. A missing or
// unusable oracle configuration degrades to fallback-only classification
// rather than failing startup.
func buildOracle() oracle.Client {
	if cfg.Oracle.APIKey == "" {
		logger.Warn("no oracle API key configured, using keyword fallback only")
		return nil
	}

	client, err := oracle.NewClient(oracle.Settings{
		Provider: oracle.Provider(cfg.Oracle.Provider),
		APIKey:   cfg.Oracle.APIKey,
		BaseURL:  cfg.Oracle.BaseURL,
		Model:    cfg.Oracle.Model,
		Timeout:  time.Duration(cfg.Oracle.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		logger.Warn("oracle unavailable, using keyword fallback only", zap.Error(err))
		return nil
	}
	return client
}
