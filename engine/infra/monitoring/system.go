package monitoring

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/chainview/chainview/engine/infra/monitoring/metrics"
	"github.com/chainview/chainview/pkg/logger"
	"github.com/chainview/chainview/pkg/version"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// initSystemMetrics registers the build info gauge and the uptime callback.
func initSystemMetrics(ctx context.Context, meter metric.Meter) (metric.Registration, error) {
	log := logger.FromContext(ctx)
	buildInfo, err := meter.Float64Gauge(
		metrics.MetricName("build_info"),
		metric.WithDescription("Build information (value=1)"),
	)
	if err != nil {
		return nil, err
	}
	uptime, err := meter.Float64ObservableGauge(
		metrics.MetricName("uptime_seconds"),
		metric.WithDescription("Service uptime in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	reg, err := meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveFloat64(uptime, time.Since(start).Seconds())
		return nil
	}, uptime)
	if err != nil {
		return nil, err
	}
	info := buildInfoLabels()
	buildInfo.Record(ctx, 1, metric.WithAttributes(
		attribute.String("version", info.Version),
		attribute.String("commit_hash", info.CommitHash),
		attribute.String("go_version", info.GoVersion),
	))
	log.Debug("System metrics initialized", "version", info.Version, "commit", info.CommitHash)
	return reg, nil
}

// buildInfoLabels falls back to the module build info when the ldflags
// variables were not injected.
func buildInfoLabels() version.Info {
	info := version.Get()
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	if info.CommitHash == "unknown" {
		for _, setting := range bi.Settings {
			if setting.Key == "vcs.revision" {
				info.CommitHash = setting.Value
				break
			}
		}
	}
	return info
}
