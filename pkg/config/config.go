package config

import (
	"context"
	"time"
)

// Config is the complete process configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"     validate:"required"`
	Normalizer NormalizerConfig `koanf:"normalizer" validate:"required"`
	Batch      BatchConfig      `koanf:"batch"      validate:"required"`
	Cache      CacheConfig      `koanf:"cache"`
	Runtime    RuntimeConfig    `koanf:"runtime"    validate:"required"`
	Monitoring MonitoringConfig `koanf:"monitoring"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host         string        `koanf:"host"           validate:"required"        env:"SERVER_HOST"`
	Port         int           `koanf:"port"           validate:"min=1,max=65535" env:"SERVER_PORT"`
	Timeout      time.Duration `koanf:"timeout"                                   env:"SERVER_TIMEOUT"`
	MaxBodyBytes int64         `koanf:"max_body_bytes" validate:"min=1"           env:"SERVER_MAX_BODY_BYTES"`
}

// NormalizerConfig controls the recursion guard of the normalizer.
type NormalizerConfig struct {
	MaxDepth    int  `koanf:"max_depth"    validate:"min=1" env:"NORMALIZER_MAX_DEPTH"`
	StrictDepth bool `koanf:"strict_depth"                  env:"NORMALIZER_STRICT_DEPTH"`
}

// BatchConfig bounds batch normalization requests.
type BatchConfig struct {
	MaxItems    int `koanf:"max_items"   validate:"min=1"         env:"BATCH_MAX_ITEMS"`
	Concurrency int `koanf:"concurrency" validate:"min=1,max=256" env:"BATCH_CONCURRENCY"`
}

// CacheConfig sizes the LRU cache of normalized documents. Zero disables it.
type CacheConfig struct {
	Size int `koanf:"size" validate:"min=0" env:"CACHE_SIZE"`
}

// RuntimeConfig contains runtime behavior configuration.
type RuntimeConfig struct {
	Environment string `koanf:"environment" validate:"oneof=development staging production" env:"RUNTIME_ENVIRONMENT"`
	LogLevel    string `koanf:"log_level"   validate:"oneof=debug info warn error disabled" env:"RUNTIME_LOG_LEVEL"`
	LogJSON     bool   `koanf:"log_json"                                                    env:"RUNTIME_LOG_JSON"`
	LogSource   bool   `koanf:"log_source"                                                  env:"RUNTIME_LOG_SOURCE"`
}

// MonitoringConfig toggles the Prometheus endpoint.
type MonitoringConfig struct {
	Enabled bool   `koanf:"enabled" env:"MONITORING_ENABLED"`
	Path    string `koanf:"path"    env:"MONITORING_PATH"    validate:"metrics_path"`
}

// Service loads and validates configuration.
type Service interface {
	Load(ctx context.Context, sources ...Source) (*Config, error)
	Validate(config *Config) error
	GetSource(key string) SourceType
}

// Source provides one layer of configuration values.
type Source interface {
	Load() (map[string]any, error)
	Type() SourceType
}

// SourceType identifies a configuration layer.
type SourceType string

const (
	SourceCLI     SourceType = "cli"
	SourceYAML    SourceType = "yaml"
	SourceEnv     SourceType = "env"
	SourceDefault SourceType = "default"
)

// Metadata records where each key's value came from.
type Metadata struct {
	Sources  map[string]SourceType `json:"sources"`
	LoadedAt time.Time             `json:"loaded_at"`
}

// Load loads defaults and environment overrides.
func Load() (*Config, error) {
	return NewService().Load(context.Background())
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			Timeout:      30 * time.Second,
			MaxBodyBytes: 8 << 20,
		},
		Normalizer: NormalizerConfig{
			MaxDepth:    512,
			StrictDepth: false,
		},
		Batch: BatchConfig{
			MaxItems:    256,
			Concurrency: 8,
		},
		Cache: CacheConfig{
			Size: 1024,
		},
		Runtime: RuntimeConfig{
			Environment: "development",
			LogLevel:    "info",
		},
		Monitoring: MonitoringConfig{
			Enabled: false,
			Path:    "/metrics",
		},
	}
}
