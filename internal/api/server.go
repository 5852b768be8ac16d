package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/rs/cors"
)

// Server wraps the HTTP server for the topic endpoints
type Server struct {
	httpServer *http.Server
}

// NewServer creates a server listening on addr with CORS enabled for all origins
func NewServer(addr string, h *Handler) *Server {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           c.Handler(h.Routes()),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start blocks serving requests until Stop is called
func (s *Server) Start() error {
	log.Printf("Server is running on http://%s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
