// Package server exposes the normalization service over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/chainview/chainview/engine/infra/monitoring"
	"github.com/chainview/chainview/engine/service"
	"github.com/chainview/chainview/pkg/config"
	"github.com/chainview/chainview/pkg/logger"
	"github.com/gin-gonic/gin"
)

const (
	httpIdleTimeout       = 60 * time.Second
	serverShutdownTimeout = 5 * time.Second
)

type Server struct {
	config     *config.Config
	service    *service.Service
	monitoring *monitoring.Service
	router     *gin.Engine
}

// NewServer builds the router. mon may be nil.
func NewServer(ctx context.Context, cfg *config.Config, svc *service.Service, mon *monitoring.Service) *Server {
	if cfg == nil {
		cfg = config.FromContext(ctx)
	}
	s := &Server{config: cfg, service: svc, monitoring: mon}
	s.router = s.buildRouter(ctx)
	return s
}

func (s *Server) buildRouter(ctx context.Context) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware(logger.FromContext(ctx)))
	r.Use(LoggerMiddleware())
	if s.monitoring != nil {
		r.Use(s.monitoring.GinMiddleware(ctx))
	}
	s.registerRoutes(r)
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Address returns host:port from the server config.
func (s *Server) Address() string {
	return net.JoinHostPort(s.config.Server.Host, strconv.Itoa(s.config.Server.Port))
}

func (s *Server) newHTTPServer() *http.Server {
	timeout := s.config.Server.Timeout
	return &http.Server{
		Addr:              s.Address(),
		Handler:           s.router,
		ReadHeaderTimeout: timeout,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
		IdleTimeout:       httpIdleTimeout,
	}
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	srv := s.newHTTPServer()
	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", fmt.Sprintf("http://%s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Debug("Received shutdown signal, initiating graceful shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), serverShutdownTimeout)
	defer cancel()
	var errs []error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown failed: %w", err))
	}
	if s.monitoring != nil {
		if err := s.monitoring.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("monitoring shutdown failed: %w", err))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	log.Info("Server shutdown completed successfully")
	return nil
}
