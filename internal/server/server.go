// Package server exposes the roast pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Config holds HTTP server settings.
type Config struct {
	Addr           string
	AllowedOrigins []string
}

// Server is the HTTP front end.
type Server struct {
	cfg    Config
	router chi.Router
	logger *slog.Logger
}

// New builds the router and wires handlers to roaster.
func New(cfg Config, roaster Roaster, logger *slog.Logger) *Server {
	s := &Server{cfg: cfg, router: chi.NewRouter(), logger: logger}

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(requestLogger(logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	h := &roastHandler{roaster: roaster, logger: logger}
	s.router.Get("/healthz", handleHealth)
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/analyze", h.handleRoast)
		r.Get("/roast", h.handleRoast)
	})
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
