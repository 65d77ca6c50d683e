// Package server exposes the sales decision pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/khanglvm/sales-pipeline/internal/journal"
	"github.com/khanglvm/sales-pipeline/internal/pipeline"
)

// Runner executes one pipeline run.
type Runner interface {
	Run(ctx context.Context, rec pipeline.Record) (pipeline.Record, error)
}

// History reads recent journal entries.
type History interface {
	Recent(limit int) ([]journal.Entry, error)
}

// Config holds the dependencies and settings for a Server.
// History is optional; without it /history answers 503.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	Runner  Runner
	History History
	Logger  *zap.Logger
}

// Server is the pipeline HTTP server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	logger     *zap.Logger
}

// New creates a server with all routes and middleware configured.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &handlers{
		runner:  cfg.Runner,
		history: cfg.History,
		logger:  logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleRoot)
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("POST /run-workflow", h.handleRunWorkflow)
	mux.HandleFunc("GET /history", h.handleHistory)

	// Outermost first: tracing → logging → recovery → mux.
	var handler http.Handler = mux
	handler = recoveryMiddleware(logger, handler)
	handler = loggingMiddleware(logger, handler)
	handler = tracingMiddleware(handler)

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		handler: handler,
		logger:  logger,
	}
}

// Handler returns the root HTTP handler for use in tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start listens and serves until Shutdown is called.
// It returns nil after a graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
