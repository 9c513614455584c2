package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricName(t *testing.T) {
	t.Run("Should add the prefix once", func(t *testing.T) {
		assert.Equal(t, "chainview_requests_total", MetricName("requests_total"))
		assert.Equal(t, "chainview_requests_total", MetricName("chainview_requests_total"))
		assert.Equal(t, "chainview_", MetricName(""))
	})
	t.Run("Should join subsystem and name", func(t *testing.T) {
		assert.Equal(t, "chainview_http_requests_total", MetricNameWithSubsystem("http", "requests_total"))
		assert.Equal(t, "chainview_uptime_seconds", MetricNameWithSubsystem("", "uptime_seconds"))
	})
}
