// Package server exposes the archive and the filter service over a
// local HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chatsieve/chatsieve/internal/chatlog"
	"github.com/chatsieve/chatsieve/internal/filter"
)

// Config holds the server settings.
type Config struct {
	Addr string
	// ShutdownTimeout bounds graceful shutdown. Zero means 10s.
	ShutdownTimeout time.Duration
}

// Server wires the API onto a chi router.
type Server struct {
	cfg    Config
	store  *chatlog.Store
	svc    filter.Service
	router chi.Router
}

// New builds a server around an open store and a filter service.
func New(cfg Config, store *chatlog.Store, svc filter.Service) *Server {
	s := &Server{cfg: cfg, store: store, svc: svc}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/chats", s.handleChats)
		r.Get("/chats/{chatID}/sessions", s.handleSessions)
		r.Get("/chats/{chatID}/members", s.handleMembers)
		r.Get("/chats/{chatID}/timerange", s.handleTimeRange)
		r.Post("/filter", s.handleFilter)
		r.Post("/filter/sessions", s.handleFilterSessions)
	})

	s.router = r
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the server until the context is canceled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve %s: %w", s.cfg.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
