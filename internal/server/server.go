// Package server exposes the recipe index, resolver, shopping lists and
// report evaluation over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vk/cookcli/internal/aisle"
	"github.com/vk/cookcli/internal/ctxlog"
	"github.com/vk/cookcli/internal/index"
	"github.com/vk/cookcli/internal/quantity"
	"github.com/vk/cookcli/internal/report"
	"github.com/vk/cookcli/internal/resolve"
)

// Index lists the recipes a server knows about.
type Index interface {
	Snapshot(ctx context.Context) (*index.Snapshot, error)
}

// Resolver resolves and searches recipe references.
type Resolver interface {
	Resolve(ctx context.Context, reference string, opts resolve.Options) (*resolve.Resolution, error)
	Search(ctx context.Context, query string, limit int) ([]resolve.Candidate, error)
}

// Evaluator runs report definitions.
type Evaluator interface {
	Run(ctx context.Context, def *report.Definition) (*report.Result, error)
}

// Dependencies are the components the handlers use.
type Dependencies struct {
	Index     Index
	Resolver  Resolver
	Evaluator Evaluator
	Units     *quantity.Table
	Aisles    *aisle.Config
}

// Config holds listener settings.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64
}

// DefaultConfig returns the settings used when none are given.
func DefaultConfig() Config {
	return Config{
		Addr:            ":9080",
		ShutdownTimeout: 10 * time.Second,
		MaxBodyBytes:    1 << 20,
	}
}

// Server is the HTTP API.
type Server struct {
	config     Config
	deps       Dependencies
	router     *chi.Mux
	httpServer *http.Server
	logger     *slog.Logger
}

// New builds the router. The logger in ctx is used for request logs.
func New(ctx context.Context, config Config, deps Dependencies) *Server {
	def := DefaultConfig()
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = def.ShutdownTimeout
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = def.MaxBodyBytes
	}
	if deps.Units == nil {
		deps.Units = quantity.DefaultTable()
	}
	if deps.Aisles == nil {
		deps.Aisles = aisle.Empty()
	}

	s := &Server{
		config: config,
		deps:   deps,
		logger: ctxlog.FromContext(ctx),
	}

	router := chi.NewRouter()
	router.Use(requestLogger(s.logger))
	router.Use(middleware.Recoverer)
	router.Use(metricsMiddleware)

	router.Get("/health", s.handleHealth)
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Get("/recipes", s.handleListRecipes)
		r.Get("/recipes/resolve", s.handleResolve)
		r.Get("/recipes/search", s.handleSearch)
		r.Post("/shopping-list", s.handleShoppingList)
		r.Post("/reports", s.handleReport)
	})

	s.router = router
	s.httpServer = &http.Server{
		Addr:              config.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server.", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		s.logger.Info("Shutdown initiated.")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gives outstanding requests the configured deadline, then closes
// the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Graceful shutdown failed.", "error", err)
		return s.httpServer.Close()
	}
	return nil
}
