// Copyright the finance-papers authors, 2025. All rights reserved.

// Package dashboard serves author rankings over HTTP: an HTML overview
// plus JSON endpoints backed by the same database files the CLI writes.
package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/anbrog/finance-papers/internal/store"
	"github.com/anbrog/finance-papers/pkg/types"
)

// FetchFunc triggers a fetch run for one journal/year. Wired by the CLI so
// the dashboard can refresh databases on demand.
type FetchFunc func(ctx context.Context, journal string, year int) (store.SaveSummary, error)

// Server is the dashboard HTTP server. Reads go straight to the SQLite
// files; concurrent CLI writes are safe under SQLite's file locking.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	dataDir    string
	fetch      FetchFunc
	logger     zerolog.Logger
}

// NewServer builds a dashboard server for the databases under
// cfg.DataDir. fetch may be nil, which disables the update endpoint.
func NewServer(cfg types.DashboardConfig, fetch FetchFunc, logger zerolog.Logger) *Server {
	s := &Server{
		dataDir: cfg.DataDir,
		fetch:   fetch,
		logger:  logger.With().Str("component", "dashboard").Logger(),
	}

	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  90 * time.Second,
	}
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Get("/api/rankings", s.handleRankings)
	r.Get("/api/working-papers", s.handleWorkingPapers)
	r.Post("/api/update/{journal}/{year}", s.handleUpdate)

	return r
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("dashboard listening")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// requestLogger emits one structured line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
