// Package server exposes the scoring pipeline over HTTP: a scoring
// endpoint, a health probe, and Prometheus metrics.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/talentrank/talentrank/internal/domain"
	"github.com/talentrank/talentrank/internal/ports"
	"github.com/talentrank/talentrank/internal/scoring"
)

// Scorer is the slice of the scoring service the handlers need.
type Scorer interface {
	Score(ctx context.Context, req scoring.Request) (*domain.ScoringResult, domain.ScoringError)
}

// Config carries the listener settings.
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server is the HTTP front of the scoring service.
type Server struct {
	cfg      Config
	scorer   Scorer
	source   ports.CandidateSource
	llm      ports.LLMClient
	provider string
	logger   *zap.Logger

	httpServer *http.Server
}

func New(cfg Config, scorer Scorer, source ports.CandidateSource, llm ports.LLMClient, provider string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:      cfg,
		scorer:   scorer,
		source:   source,
		llm:      llm,
		provider: provider,
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/score", s.handleScore)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.withRequestLogging(mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler exposes the routed handler, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe blocks serving requests until Shutdown or failure.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", zap.String("addr", s.cfg.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
	}
	return s.httpServer.Shutdown(ctx)
}
