// Package api exposes the query pipeline over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"talentops-bot/internal/common/config"
	"talentops-bot/internal/common/logger"
	"talentops-bot/internal/models"
)

// QueryProcessor runs one query through the pipeline.
type QueryProcessor interface {
	Process(ctx context.Context, query models.Query) models.FormattedResponse
}

// HealthCheck reports whether a named dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Server struct {
	processor QueryProcessor
	app       config.AppConfig
	cfg       config.ServerConfig
	log       logger.Logger
	checks    map[string]HealthCheck
	server    *http.Server
}

func NewServer(processor QueryProcessor, app config.AppConfig, cfg config.ServerConfig, log logger.Logger, checks map[string]HealthCheck) *Server {
	return &Server{
		processor: processor,
		app:       app,
		cfg:       cfg,
		log:       log,
		checks:    checks,
	}
}

// Router assembles the chi router. Split from Start so tests can drive
// it through httptest.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	timeout := time.Duration(s.cfg.RequestTimeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	r.Use(chimiddleware.Timeout(timeout))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.requireAPIKey)
		r.Post("/api/v1/query", s.handleQuery)
		r.Get("/api/v1/status", s.handleStatus)
	})

	return r
}

// Start runs the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.log.Info("Starting HTTP server", map[string]interface{}{
		"addr": addr,
	})
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
