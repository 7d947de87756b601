// Package api provides the HTTP API for task prioritization.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/taskrank/pkg/observability"
)

// Server is the HTTP API server.
type Server struct {
	mux     *http.ServeMux
	server  *http.Server
	logger  *slog.Logger
	metrics observability.Metrics
	health  *observability.HealthRegistry
	handler *TaskHandler
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "127.0.0.1:8000",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		MaxBodyBytes: 1 << 20,
	}
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig, handler *TaskHandler, health *observability.HealthRegistry, logger *slog.Logger, metrics observability.Metrics) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if health == nil {
		health = observability.NewHealthRegistry()
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		metrics: metrics,
		health:  health,
		handler: handler,
	}

	s.registerRoutes()

	var h http.Handler = s.mux
	if cfg.MaxBodyBytes > 0 {
		h = limitBody(h, cfg.MaxBodyBytes)
	}
	h = recoverPanic(h, logger)
	h = requestLogging(h, logger, metrics)

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// registerRoutes sets up the API routes.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	// Prioritization
	s.mux.HandleFunc("POST /api/tasks/analyze/{$}", s.handler.Analyze)
	s.mux.HandleFunc("GET /api/tasks/suggest/{$}", s.handler.Suggest)
	s.mux.HandleFunc("GET /api/strategies/{$}", s.handler.Strategies)
	s.mux.HandleFunc("GET /api/activity/{$}", s.handler.Activity)

	// Stored tasks
	s.mux.HandleFunc("GET /api/tasks/{$}", s.handler.List)
	s.mux.HandleFunc("POST /api/tasks/{$}", s.handler.Create)
	s.mux.HandleFunc("POST /api/tasks/import/{$}", s.handler.Import)
	s.mux.HandleFunc("GET /api/tasks/{id}/{$}", s.handler.Get)
	s.mux.HandleFunc("DELETE /api/tasks/{id}/{$}", s.handler.Delete)
}

// Handler exposes the full handler chain, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// handleHealth reports the registered health checks.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.health.Report(r.Context())
	status := http.StatusOK
	if health.Status == observability.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting API server",
		"addr", s.server.Addr,
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Log error but can't do much at this point
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error":   http.StatusText(status),
		"message": message,
	})
}
