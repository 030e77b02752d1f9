// Package server assembles the HTTP service: echo instance, middleware,
// the v1 API and health checks.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/wagewise/wagewise/internal/profile"
	"github.com/wagewise/wagewise/server/middleware"
	"github.com/wagewise/wagewise/server/pipeline"
	"github.com/wagewise/wagewise/server/router/apiv1"
	"github.com/wagewise/wagewise/server/stats"
	"github.com/wagewise/wagewise/store"
)

// Server is the HTTP front of the question pipeline.
type Server struct {
	e         *echo.Echo
	profile   *profile.Profile
	store     *store.Store
	pipeline  *pipeline.Pipeline
	collector *stats.Collector
}

// NewServer wires the echo instance, middleware and routes.
func NewServer(ctx context.Context, p *profile.Profile, s *store.Store, pipe *pipeline.Pipeline) (*Server, error) {
	if p == nil || s == nil || pipe == nil {
		return nil, errors.New("profile, store and pipeline are required")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(requestLogger())
	e.Use(middleware.NewRateLimiter(p.RateLimitRPS, p.RateLimitBurst).EchoMiddleware())

	collector := stats.NewCollector(s)
	collector.Start(ctx)

	server := &Server{
		e:         e,
		profile:   p,
		store:     s,
		pipeline:  pipe,
		collector: collector,
	}

	e.GET("/healthz", server.handleHealthz)
	apiv1.NewAPIV1Service(p, pipe, collector).RegisterRoutes(e)

	return server, nil
}

// Echo exposes the underlying echo instance. Test helper.
func (s *Server) Echo() *echo.Echo {
	return s.e
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start(_ context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.profile.Addr, s.profile.Port)
	slog.Info("server listening", "addr", addr, "mode", s.profile.Mode)
	if err := s.e.Start(addr); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "server start failed")
	}
	return nil
}

// Shutdown drains in-flight requests and stops background collection.
func (s *Server) Shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	s.collector.Stop()
	if err := s.e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shut down server", "error", err)
	}
	if err := s.store.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}
	slog.Info("server stopped")
}

func (s *Server) handleHealthz(c echo.Context) error {
	if _, err := s.store.CountWageFacts(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok", "version": s.profile.Version})
}

// requestLogger logs one line per request through slog.
func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			slog.Info("http request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds())
			return err
		}
	}
}
