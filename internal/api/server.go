// Package api builds the HTTP server serving the stats read endpoints.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/config"
	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/handler"
	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/logger"
)

// Server timeouts.
const (
	defaultReadTimeout  = 10 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 60 * time.Second

	shutdownTimeout = 10 * time.Second
)

// Server wraps the HTTP server and its router.
type Server struct {
	httpServer *http.Server
	log        logger.Logger
}

// NewServer builds the router and the HTTP server.
func NewServer(
	cfg *config.Config,
	statsHandler *handler.StatsHandler,
	healthHandler *handler.HealthHandler,
	log logger.Logger,
) *Server {
	if !cfg.Service.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(log))

	SetupRoutes(router, statsHandler, healthHandler)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Service.Port),
			Handler:      router,
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
			IdleTimeout:  defaultIdleTimeout,
		},
		log: log,
	}
}

// Run starts the server and blocks until SIGINT/SIGTERM, then shuts down
// gracefully.
func (s *Server) Run() error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen and serve: %w", err)
	case sig := <-quit:
		s.log.Info("Shutting down", logger.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

// requestLogger logs method, path, status, and duration for every request.
func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Info("HTTP request",
			logger.String("method", c.Request.Method),
			logger.String("path", path),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("duration", time.Since(start)),
			logger.String("client_ip", c.ClientIP()),
		)
	}
}
