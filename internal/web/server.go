// Package web exposes the counting service HTTP API.
package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/emiliopalmerini/rightcount/internal/ports"
)

type Server struct {
	router chi.Router
	port   int
	secret string
	repo   ports.DayCountRepository
}

// NewServer builds the service. secret guards writes; an empty secret
// disables the check (local development only).
func NewServer(port int, secret string, repo ports.DayCountRepository) *Server {
	s := &Server{
		router: chi.NewRouter(),
		port:   port,
		secret: secret,
		repo:   repo,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Post("/api/set", s.handleSet)
	s.router.Get("/api/today", s.handleToday)
	s.router.Get("/api/history", s.handleHistory)
	s.router.Get("/api/by-source", s.handleBySource)
	// Older uploaders used the workstation wording.
	s.router.Get("/api/by-workstation", s.handleBySource)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	fmt.Printf("Starting server at http://localhost:%d\n", s.port)

	// Handle graceful shutdown
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Server shutdown error: %v\n", err)
		}
	}()

	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil // Graceful shutdown
	}
	return err
}
