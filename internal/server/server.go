// Package server exposes the dashboard's HTTP API: opportunity generation,
// detail reports, proposal runs, history, intelligence, and the context
// library, plus rendered proposal pages and static report artifacts.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"accountintel/internal/config"
	"accountintel/internal/contextlib"
	"accountintel/internal/history"
	"accountintel/internal/intel"
	"accountintel/internal/logger"
	"accountintel/internal/opportunity"
	"accountintel/internal/report"
	"accountintel/internal/scheduler"
	"accountintel/internal/store"
)

// Deps carries the wired components the server serves.
type Deps struct {
	Config        *config.Config
	Feeds         scheduler.FeedSource
	Opportunities *opportunity.Generator
	Reports       *report.Generator
	Scheduler     *scheduler.Scheduler
	History       *history.Store
	Intel         *intel.Log
	Contexts      *contextlib.Library
	Cache         *store.Store
}

// Server is the HTTP server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	deps       Deps
	log        *slog.Logger
}

// New creates an HTTP server over the wired components.
func New(deps Deps) *Server {
	s := &Server{
		router: chi.NewRouter(),
		deps:   deps,
		log:    logger.Get(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", deps.Config.Server.Host, deps.Config.Server.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // Generation runs are synchronous and slow
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)

		r.Get("/opportunities", s.handleOpportunities)

		r.Post("/reports", s.handleGenerateReport)

		r.Route("/runs", func(r chi.Router) {
			r.Get("/schedule", s.handleSchedule)
			r.Post("/weekly", s.handleRunWeekly)
			r.Post("/manual", s.handleRunManual)
		})

		r.Get("/history", s.handleHistory)

		r.Route("/intel", func(r chi.Router) {
			r.Get("/summary", s.handleIntelSummary)
			r.Post("/accumulate", s.handleIntelAccumulate)
		})

		r.Route("/context", func(r chi.Router) {
			r.Get("/", s.handleListContext)
			r.Post("/", s.handleAddContext)
			r.Post("/{filename}/toggle", s.handleToggleContext)
			r.Delete("/{filename}", s.handleDeleteContext)
		})

		r.Route("/cache", func(r chi.Router) {
			r.Get("/stats", s.handleCacheStats)
			r.Post("/clear", s.handleCacheClear)
		})
	})

	// Rendered proposal artifacts and the raw static tree (report HTML).
	s.router.Get("/proposals/{filename}", s.handleProposalPage)
	s.router.Handle("/static/*", http.StripPrefix("/static/",
		http.FileServer(http.Dir(s.deps.Config.App.StaticDir))))
}

// Start runs the server until it is shut down.
func (s *Server) Start() error {
	s.log.Info("starting HTTP server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed to start: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// Router exposes the chi router for tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}
