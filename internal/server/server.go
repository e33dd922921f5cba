// Package server exposes numtext and datetime over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/az-ai-labs/ru-numtext/numtext"
)

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// RateLimit is the sustained request rate per second; 0 disables limiting
	RateLimit float64
	// RateBurst is the token bucket size
	RateBurst int
	// MaxBodyBytes caps request bodies (default: 1 MiB)
	MaxBodyBytes int64
	// ShutdownTimeout bounds graceful shutdown (default: 10s)
	ShutdownTimeout time.Duration
	// Converter performs conversions (default: numtext.New())
	Converter *numtext.Converter
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// Server is the runum HTTP server.
type Server struct {
	httpServer      *http.Server
	engine          *gin.Engine
	converter       atomic.Pointer[numtext.Converter]
	logger          *slog.Logger
	shutdownTimeout time.Duration

	mu      sync.RWMutex
	running bool
}

// New creates a Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Converter == nil {
		cfg.Converter = numtext.New(numtext.WithLogger(cfg.Logger))
	}
	if cfg.RateLimit < 0 || cfg.RateBurst < 0 || cfg.MaxBodyBytes < 0 {
		return nil, errors.New("server: negative limits in config")
	}

	s := &Server{
		logger:          cfg.Logger,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
	s.converter.Store(cfg.Converter)

	engine := gin.New()
	engine.Use(requestID())
	engine.Use(accessLog(s.logger))
	engine.Use(recovery(s.logger))
	if cfg.RateLimit > 0 {
		engine.Use(rateLimit(cfg.RateLimit, cfg.RateBurst))
	}
	engine.Use(gzip.Gzip(gzip.DefaultCompression))
	engine.Use(bodyLimit(cfg.MaxBodyBytes))
	s.registerRoutes(engine)
	s.engine = engine

	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s, nil
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// SetConverter swaps the converter used by subsequent requests.
func (s *Server) SetConverter(c *numtext.Converter) {
	if c != nil {
		s.converter.Store(c)
	}
}

// Start serves HTTP until ctx is cancelled or the listener fails, then
// shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()
	defer s.setNotRunning()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return fmt.Errorf("server: shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}
