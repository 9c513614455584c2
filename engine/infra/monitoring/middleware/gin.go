package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/chainview/chainview/engine/infra/monitoring/metrics"
	"github.com/chainview/chainview/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type httpInstruments struct {
	requestsTotal    metric.Int64Counter
	requestDuration  metric.Float64Histogram
	requestsInFlight metric.Int64UpDownCounter
}

func newHTTPInstruments(ctx context.Context, meter metric.Meter) *httpInstruments {
	log := logger.FromContext(ctx)
	var err error
	inst := &httpInstruments{}
	inst.requestsTotal, err = meter.Int64Counter(
		metrics.MetricNameWithSubsystem("http", "requests_total"),
		metric.WithDescription("Total HTTP requests"),
	)
	if err != nil {
		log.Error("Failed to create http requests total counter", "error", err)
		return nil
	}
	inst.requestDuration, err = meter.Float64Histogram(
		metrics.MetricNameWithSubsystem("http", "request_duration_seconds"),
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(metrics.HTTPDurationBuckets...),
	)
	if err != nil {
		log.Error("Failed to create http request duration histogram", "error", err)
		return nil
	}
	inst.requestsInFlight, err = meter.Int64UpDownCounter(
		metrics.MetricNameWithSubsystem("http", "requests_in_flight"),
		metric.WithDescription("Currently active HTTP requests"),
	)
	if err != nil {
		log.Error("Failed to create http requests in flight counter", "error", err)
		return nil
	}
	return inst
}

// HTTPMetrics returns a Gin middleware that collects HTTP metrics.
// A nil meter yields a pass-through middleware.
func HTTPMetrics(ctx context.Context, meter metric.Meter) gin.HandlerFunc {
	if meter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	inst := newHTTPInstruments(ctx, meter)
	if inst == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		reqCtx := c.Request.Context()
		inst.requestsInFlight.Add(reqCtx, 1)
		defer inst.requestsInFlight.Add(reqCtx, -1)
		c.Next()
		inst.record(c, start)
	}
}

func (i *httpInstruments) record(c *gin.Context, start time.Time) {
	path := c.FullPath()
	if path == "" {
		path = "unmatched"
	}
	attrs := metric.WithAttributes(
		attribute.String("method", c.Request.Method),
		attribute.String("path", path),
		attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
	)
	i.requestsTotal.Add(c.Request.Context(), 1, attrs)
	i.requestDuration.Record(c.Request.Context(), time.Since(start).Seconds(), attrs)
}
