package monitoring

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/chainview/chainview/engine/infra/monitoring/middleware"
	"github.com/chainview/chainview/pkg/logger"
	"github.com/gin-gonic/gin"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const meterName = "chainview"

// Service encapsulates all monitoring and observability logic
type Service struct {
	meter             metric.Meter
	exporter          *prometheus.Exporter
	provider          *sdkmetric.MeterProvider
	registry          *prom.Registry
	system            metric.Registration
	normalize         *NormalizeMetrics
	config            *Config
	initialized       bool
	initializationErr error
}

// newDisabledService creates a service instance with no-op implementations
func newDisabledService(cfg *Config, initErr error) *Service {
	return &Service{
		config:            cfg,
		meter:             noop.NewMeterProvider().Meter(meterName),
		initialized:       false,
		initializationErr: initErr,
	}
}

// NewMonitoringService creates a new monitoring service with Prometheus exporter
func NewMonitoringService(ctx context.Context, cfg *Config) (*Service, error) {
	log := logger.FromContext(ctx)
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.Enabled {
		log.Debug("Monitoring disabled, using no-op meter")
		return newDisabledService(cfg, nil), nil
	}
	registry := prom.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Prometheus exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := provider.Meter(meterName)
	normalize, err := NewNormalizeMetrics(meter)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create normalize metrics: %w", err), provider.Shutdown(ctx))
	}
	system, err := initSystemMetrics(ctx, meter)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create system metrics: %w", err), provider.Shutdown(ctx))
	}
	log.Info("Monitoring service initialized", "path", cfg.Path)
	return &Service{
		meter:       meter,
		exporter:    exporter,
		provider:    provider,
		registry:    registry,
		system:      system,
		normalize:   normalize,
		config:      cfg,
		initialized: true,
	}, nil
}

// NewMonitoringServiceWithFallback creates a monitoring service with graceful
// degradation. On initialization failure it logs the error and returns a
// service with no-op implementations.
func NewMonitoringServiceWithFallback(ctx context.Context, cfg *Config) *Service {
	service, err := NewMonitoringService(ctx, cfg)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to initialize monitoring, using no-op implementation", "error", err)
		if cfg == nil {
			cfg = DefaultConfig()
		}
		return newDisabledService(cfg, err)
	}
	return service
}

// Meter returns the OpenTelemetry meter for custom instrumentation
func (s *Service) Meter() metric.Meter {
	return s.meter
}

// Normalize returns the normalization instruments, nil when disabled.
func (s *Service) Normalize() *NormalizeMetrics {
	if s == nil {
		return nil
	}
	return s.normalize
}

// Path returns the route the exporter should be mounted on.
func (s *Service) Path() string {
	return s.config.Path
}

// GinMiddleware returns Gin middleware for HTTP metrics.
func (s *Service) GinMiddleware(ctx context.Context) gin.HandlerFunc {
	if !s.initialized {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return middleware.HTTPMetrics(ctx, s.meter)
}

// ExporterHandler returns an HTTP handler for the metrics endpoint
func (s *Service) ExporterHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.initialized {
			w.WriteHeader(http.StatusServiceUnavailable)
			if _, err := w.Write([]byte("Monitoring service not initialized")); err != nil {
				logger.FromContext(r.Context()).Error("Failed to write response", "error", err)
			}
			return
		}
		promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}

// Shutdown gracefully shuts down the monitoring service
func (s *Service) Shutdown(ctx context.Context) error {
	var errs []error
	if s.system != nil {
		errs = append(errs, s.system.Unregister())
	}
	if s.provider != nil {
		errs = append(errs, s.provider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// IsInitialized returns whether the monitoring service was successfully initialized
func (s *Service) IsInitialized() bool {
	return s.initialized
}

// InitializationError returns any error that occurred during initialization
func (s *Service) InitializationError() error {
	return s.initializationErr
}
