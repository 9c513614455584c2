package monitoring

import (
	"context"
	"time"

	"github.com/chainview/chainview/engine/infra/monitoring/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome labels for normalized documents.
const (
	OutcomeOK            = "ok"
	OutcomeCached        = "cached"
	OutcomeInvalid       = "invalid"
	OutcomeDepthExceeded = "depth_exceeded"
	OutcomeCanceled      = "canceled"
)

// NormalizeMetrics records per-document and per-batch normalization metrics.
// A nil *NormalizeMetrics is valid and records nothing.
type NormalizeMetrics struct {
	documents metric.Int64Counter
	duration  metric.Float64Histogram
	batchSize metric.Float64Histogram
}

// NewNormalizeMetrics creates the normalization instruments on meter.
func NewNormalizeMetrics(meter metric.Meter) (*NormalizeMetrics, error) {
	documents, err := meter.Int64Counter(
		metrics.MetricNameWithSubsystem("normalize", "documents_total"),
		metric.WithDescription("Documents processed by the normalizer"),
	)
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram(
		metrics.MetricNameWithSubsystem("normalize", "duration_seconds"),
		metric.WithDescription("Time spent decoding and normalizing one document"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(metrics.NormalizeDurationBuckets...),
	)
	if err != nil {
		return nil, err
	}
	batchSize, err := meter.Float64Histogram(
		metrics.MetricNameWithSubsystem("normalize", "batch_items"),
		metric.WithDescription("Number of documents per batch request"),
		metric.WithExplicitBucketBoundaries(metrics.BatchSizeBuckets...),
	)
	if err != nil {
		return nil, err
	}
	return &NormalizeMetrics{documents: documents, duration: duration, batchSize: batchSize}, nil
}

// RecordDocument records one processed document.
func (m *NormalizeMetrics) RecordDocument(ctx context.Context, kind, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	)
	m.documents.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordBatch records the size of one batch request.
func (m *NormalizeMetrics) RecordBatch(ctx context.Context, items int) {
	if m == nil {
		return
	}
	m.batchSize.Record(ctx, float64(items))
}
