// Package server serves a finished analysis over HTTP.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dd0wney/cluso-graphstats/pkg/health"
	"github.com/dd0wney/cluso-graphstats/pkg/logging"
	"github.com/dd0wney/cluso-graphstats/pkg/metrics"
	"github.com/dd0wney/cluso-graphstats/pkg/report"
)

// Server routes requests to the report held in a ReportStore.
type Server struct {
	store           *ReportStore
	health          *health.Checker
	logger          logging.Logger
	metricsRegistry *metrics.Registry
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the request logger
func WithLogger(logger logging.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics instruments requests and exposes /metrics
func WithMetrics(r *metrics.Registry) Option {
	return func(s *Server) {
		s.metricsRegistry = r
	}
}

// New creates a Server for store. The server is ready once store holds a
// report.
func New(store *ReportStore, opts ...Option) *Server {
	s := &Server{
		store:  store,
		health: health.NewChecker(),
		logger: logging.NewNopLogger(),
	}
	for _, o := range opts {
		o(s)
	}
	s.health.RegisterReadinessCheck("report", health.ReportCheck(store.current))
	s.health.RegisterLivenessCheck("memory", health.MemoryCheck(health.RuntimeMemory))
	return s
}

// Health returns the checker behind the health endpoints so callers can
// register further probes.
func (s *Server) Health() *health.Checker {
	return s.health
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(requestLogger(s.logger))
	if s.metricsRegistry != nil {
		router.Use(s.metricsMiddleware)
	}

	router.Get("/health", s.health.HTTPHandler())
	router.Get("/health/ready", s.health.ReadinessHandler())
	router.Get("/health/live", s.health.LivenessHandler())
	router.Get("/report", s.getReport)
	router.Get("/graphql", s.serveGraphQL)
	router.Post("/graphql", s.serveGraphQL)
	if s.metricsRegistry != nil {
		router.Method(http.MethodGet, "/metrics", s.metricsRegistry.Handler())
	}

	return router
}

// getReport writes the report as JSON, or as text with ?format=text.
func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	rep := s.store.Report()
	if rep == nil {
		http.Error(w, "no report available", http.StatusServiceUnavailable)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		w.Header().Set("Content-Type", "application/json")
		if err := report.WriteJSON(w, rep); err != nil {
			s.logger.Warn("failed to write report", logging.Error(err))
		}
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := report.WriteText(w, rep); err != nil {
			s.logger.Warn("failed to write report", logging.Error(err))
		}
	default:
		http.Error(w, "unsupported format "+format, http.StatusBadRequest)
	}
}

func (s *Server) serveGraphQL(w http.ResponseWriter, r *http.Request) {
	h := s.store.graphQLHandler()
	if h == nil {
		http.Error(w, "no report available", http.StatusServiceUnavailable)
		return
	}
	h.ServeHTTP(w, r)
}
