package config

import "context"

type contextKey string

// ConfigCtxKey is the context key under which the loaded Config is stored.
const ConfigCtxKey contextKey = "config"

// ContextWithConfig returns a child context carrying cfg.
func ContextWithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ConfigCtxKey, cfg)
}

// FromContext returns the Config stored in ctx, or the defaults.
func FromContext(ctx context.Context) *Config {
	if ctx != nil {
		if cfg, ok := ctx.Value(ConfigCtxKey).(*Config); ok && cfg != nil {
			return cfg
		}
	}
	return Default()
}
