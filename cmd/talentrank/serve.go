package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/talentrank/talentrank/infrastructure/llm"
	"github.com/talentrank/talentrank/infrastructure/middleware"
	"github.com/talentrank/talentrank/internal/config"
	"github.com/talentrank/talentrank/internal/scoring"
	"github.com/talentrank/talentrank/internal/server"
	"github.com/talentrank/talentrank/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the scoring HTTP server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	metrics := middleware.NewPrometheusMetrics()

	mws := []llm.Middleware{
		llm.TracingMiddleware(app),
		llm.MetricsMiddleware(metrics),
		llm.TimeoutMiddleware(cfg.Provider.Timeout),
	}
	if cfg.Provider.RateLimit > 0 {
		mws = append(mws, llm.RateLimitMiddleware(rate.Limit(cfg.Provider.RateLimit), cfg.Provider.RateBurst))
	}

	client, err := llm.NewClient(cfg.Provider.Type, llm.ClientConfig{
		APIKey:     cfg.Provider.APIKey,
		Model:      cfg.Provider.Model,
		BaseURL:    cfg.Provider.BaseURL,
		Timeout:    cfg.Provider.Timeout,
		Middleware: mws,
	})
	if err != nil {
		return fmt.Errorf("create %s client: %w", cfg.Provider.Type, err)
	}

	candidateStore := store.NewCandidateStore(cfg.Store.Path, cfg.Store.TTL, logger)
	if err := candidateStore.Init(ctx); err != nil {
		return err
	}

	svc := scoring.NewService(candidateStore, client, metrics, logger, scoring.Options{
		BatchSize:     cfg.Scoring.BatchSize,
		MaxConcurrent: cfg.Scoring.MaxConcurrent,
		WavePause:     cfg.Scoring.WavePause,
		MaxAttempts:   cfg.Scoring.MaxAttempts,
	})

	srv := server.New(server.Config{
		Addr:            cfg.Server.Addr,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, svc, candidateStore, client, cfg.Provider.Type, logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		return srv.Shutdown(context.Background())
	}
}
