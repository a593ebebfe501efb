package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/recipe-share/backend/config"
)

// Server represents the HTTP server
type Server struct {
	http *http.Server
	log  *zap.Logger
}

// New creates a new server instance serving handler on the configured address
func New(cfg *config.Config, handler http.Handler, log *zap.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       60 * time.Second,
			WriteTimeout:      120 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		log: log.Named("server"),
	}
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.http.Addr
}

// Start serves until Shutdown is called. It returns nil after a graceful shutdown.
func (s *Server) Start() error {
	s.log.Info("starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}
