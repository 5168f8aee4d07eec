// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the gateway over HTTP. It owns the inbound
// boundary: routing, CORS, per-client rate limiting, request logging, and the
// mapping from gateway outcomes to status codes.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/mediagrab/internal/gateway"
	"github.com/pdiddy/mediagrab/pkg/types"
)

// Defaults applied by New when the configuration leaves a field unset.
const (
	DefaultAddr            = ":8080"
	DefaultRateLimit       = 10
	DefaultRateWindow      = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Extractor is the part of *gateway.Gateway the server needs.
type Extractor interface {
	Extract(ctx context.Context, body []byte) gateway.Outcome
}

// Server serves the extraction API.
type Server struct {
	ex      Extractor
	cfg     types.ServerConfig
	log     *slog.Logger
	engine  *gin.Engine
	limiter *ipLimiter
}

// New builds a Server around ex. A nil logger discards log output.
func New(ex Extractor, cfg types.ServerConfig, logger *slog.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.RateWindow <= 0 {
		cfg.RateWindow = DefaultRateWindow
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	s := &Server{ex: ex, cfg: cfg, log: logger}
	if cfg.RateLimit > 0 {
		s.limiter = newIPLimiter(cfg.RateLimit, cfg.RateWindow)
	}
	s.engine = s.routes()
	return s
}

// NewLogger returns the JSON logger the server writes to.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func (s *Server) routes() *gin.Engine {
	e := gin.New()
	// Rate limiting keys on the peer address, not on forwarded headers.
	_ = e.SetTrustedProxies(nil)
	e.Use(gin.Recovery())
	e.Use(requestID())
	e.Use(s.requestLogger())
	if h := s.cors(); h != nil {
		e.Use(h)
	}

	e.GET("/health", s.handleHealth)

	api := e.Group("/api")
	api.GET("/health", s.handleHealth)
	if s.limiter != nil {
		api.POST("/extract", s.rateLimit(), s.handleExtract)
	} else {
		api.POST("/extract", s.handleExtract)
	}
	return e
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully,
// letting in-flight extractions finish within the shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("server listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	s.log.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
