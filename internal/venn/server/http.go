package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/msto63/venn/internal/venn/handler"
	"github.com/msto63/venn/internal/venn/service"
	"github.com/msto63/venn/pkg/core/health"
	"github.com/msto63/venn/pkg/core/logging"
)

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultHTTPConfig returns default HTTP server configuration
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Host:         "0.0.0.0",
		Port:         8310,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// HTTPServer serves the REST and websocket API
type HTTPServer struct {
	httpServer *http.Server
	logger     *logging.Logger
	config     HTTPConfig
}

// NewHTTP creates the HTTP server for svc
func NewHTTP(cfg HTTPConfig, svc *service.Service, registry *health.Registry) *HTTPServer {
	h := handler.NewHandler(svc, registry)

	return &HTTPServer{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:           h.Routes(),
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
		},
		logger: logging.New("venn-http-server"),
		config: cfg,
	}
}

// Serve serves on an existing listener. It returns nil after Shutdown.
func (s *HTTPServer) Serve(listener net.Listener) error {
	s.logger.Info("Starting venn HTTP server", "address", listener.Addr().String())
	if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Start listens on the configured address and blocks
func (s *HTTPServer) Start() error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(listener)
}

// Shutdown stops accepting connections and waits for active requests
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.logger.Info("Stopping venn HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the root handler
func (s *HTTPServer) Handler() http.Handler {
	return s.httpServer.Handler
}
