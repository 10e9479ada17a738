// Package server implements the depscope HTTP API.
//
// The API stores canonical graph documents and exposes the graph engine's
// queries over them. Query results are cached keyed by the stored document's
// content hash, so repeated analysis of the same graph never re-traverses it.
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/depscope/depscope/pkg/cache"
	"github.com/depscope/depscope/pkg/store"
)

// DefaultCacheTTL bounds how long cached query results live. Results are
// immutable per document, so the TTL only limits cache growth.
const DefaultCacheTTL = 24 * time.Hour

// Config assembles the server's collaborators.
type Config struct {
	Store    store.Store
	Cache    cache.Cache   // optional; nil disables result caching
	CacheTTL time.Duration // optional; defaults to DefaultCacheTTL
	Logger   *log.Logger   // optional; defaults to log.Default()
}

// Server serves graph storage and analysis endpoints.
type Server struct {
	store    store.Store
	cache    cache.Cache
	keyer    cache.Keyer
	cacheTTL time.Duration
	logger   *log.Logger
}

// New creates a Server from the config.
func New(cfg Config) *Server {
	c := cfg.Cache
	if c == nil {
		c = cache.NewNullCache()
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		store:    cfg.Store,
		cache:    c,
		keyer:    cache.NewScopedKeyer(nil, "v1:"),
		cacheTTL: ttl,
		logger:   logger,
	}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1/graphs", func(r chi.Router) {
		r.Post("/", s.handlePutGraph)
		r.Get("/", s.handleListGraphs)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetGraph)
			r.Delete("/", s.handleDeleteGraph)
			r.Get("/packages", s.handlePackages)
			r.Get("/cycles", s.handleCycles)
			r.Get("/paths", s.handlePaths)
			r.Get("/count", s.handleCount)
			r.Get("/why", s.handleWhy)
		})
	})

	return r
}

// logRequests logs method, path, status and latency for every request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}
