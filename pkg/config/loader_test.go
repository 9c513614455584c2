package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	data       map[string]any
	sourceType SourceType
}

func (m *mockSource) Load() (map[string]any, error) { return m.data, nil }
func (m *mockSource) Type() SourceType              { return m.sourceType }

func TestLoader_Load(t *testing.T) {
	t.Run("Should load defaults when no sources are given", func(t *testing.T) {
		svc := NewService()
		cfg, err := svc.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
		assert.Equal(t, SourceDefault, svc.GetSource("server.port"))
	})

	t.Run("Should apply YAML over defaults", func(t *testing.T) {
		svc := NewService()
		cfg, err := svc.Load(context.Background(), &mockSource{
			sourceType: SourceYAML,
			data: map[string]any{
				"server":     map[string]any{"port": 9090, "timeout": "5s"},
				"normalizer": map[string]any{"max_depth": 64},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, 5*time.Second, cfg.Server.Timeout)
		assert.Equal(t, 64, cfg.Normalizer.MaxDepth)
		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, SourceYAML, svc.GetSource("server.port"))
	})

	t.Run("Should let environment override YAML", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "7070")
		t.Setenv("NORMALIZER_STRICT_DEPTH", "true")
		svc := NewService()
		cfg, err := svc.Load(context.Background(), &mockSource{
			sourceType: SourceYAML,
			data:       map[string]any{"server": map[string]any{"port": 9090}},
		})
		require.NoError(t, err)
		assert.Equal(t, 7070, cfg.Server.Port)
		assert.True(t, cfg.Normalizer.StrictDepth)
		assert.Equal(t, SourceEnv, svc.GetSource("server.port"))
	})

	t.Run("Should let CLI override environment", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "7070")
		svc := NewService()
		cfg, err := svc.Load(
			context.Background(),
			NewCLIProvider(map[string]any{"port": 6060, "log-level": "debug"}),
		)
		require.NoError(t, err)
		assert.Equal(t, 6060, cfg.Server.Port)
		assert.Equal(t, "debug", cfg.Runtime.LogLevel)
		assert.Equal(t, SourceCLI, svc.GetSource("server.port"))
	})

	t.Run("Should reject invalid values", func(t *testing.T) {
		svc := NewService()
		_, err := svc.Load(context.Background(), &mockSource{
			sourceType: SourceYAML,
			data:       map[string]any{"runtime": map[string]any{"log_level": "loud"}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
	})

	t.Run("Should reject concurrency above max items", func(t *testing.T) {
		svc := NewService()
		_, err := svc.Load(context.Background(), &mockSource{
			sourceType: SourceYAML,
			data:       map[string]any{"batch": map[string]any{"max_items": 2, "concurrency": 4}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch.concurrency")
	})
}

func TestValidateMetricsPath(t *testing.T) {
	cases := map[string]bool{
		"/metrics":      true,
		"/internal/obs": true,
		"metrics":       false,
		"/api/metrics":  false,
		"/metrics?x=1":  false,
		"":              false,
	}
	for path, ok := range cases {
		t.Run("Should validate "+path, func(t *testing.T) {
			cfg := Default()
			cfg.Monitoring.Path = path
			err := NewService().Validate(cfg)
			if ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestYAMLProvider(t *testing.T) {
	t.Run("Should read nested values and drop nulls", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "chainview.yaml")
		content := "server:\n  host: 127.0.0.1\n  port: null\nbatch:\n  max_items: 10\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		svc := NewService()
		cfg, err := svc.Load(context.Background(), NewYAMLProvider(path))
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1", cfg.Server.Host)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, 10, cfg.Batch.MaxItems)
	})

	t.Run("Should treat a missing file as empty", func(t *testing.T) {
		data, err := NewYAMLProvider(filepath.Join(t.TempDir(), "none.yaml")).Load()
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("Should fail on malformed YAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))
		_, err := NewYAMLProvider(path).Load()
		assert.Error(t, err)
	})
}

func TestEnvMappings(t *testing.T) {
	t.Run("Should map env tags to dotted paths", func(t *testing.T) {
		m := GenerateEnvToConfigMap()
		assert.Equal(t, "server.port", m["SERVER_PORT"])
		assert.Equal(t, "normalizer.max_depth", m["NORMALIZER_MAX_DEPTH"])
		assert.Equal(t, "monitoring.path", m["MONITORING_PATH"])
		assert.Equal(t, "BATCH_CONCURRENCY", GetEnvVarForConfigPath("batch.concurrency"))
		assert.Empty(t, GetEnvVarForConfigPath("nope"))
	})
}

func TestFromContext(t *testing.T) {
	t.Run("Should return stored config", func(t *testing.T) {
		cfg := Default()
		cfg.Server.Port = 1234
		ctx := ContextWithConfig(context.Background(), cfg)
		assert.Same(t, cfg, FromContext(ctx))
	})
	t.Run("Should fall back to defaults", func(t *testing.T) {
		assert.Equal(t, Default(), FromContext(context.Background()))
	})
}
