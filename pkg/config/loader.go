package config

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const envDelim = "."

type loader struct {
	koanf     *koanf.Koanf
	validator *validator.Validate
	metadata  Metadata
	mu        sync.RWMutex
}

// NewService creates a new configuration service with validation.
func NewService() Service {
	v := validator.New()
	if err := RegisterCustomValidators(v); err != nil {
		panic(fmt.Sprintf("failed to register config validators: %v", err))
	}
	return &loader{
		koanf:     koanf.New(envDelim),
		validator: v,
		metadata: Metadata{
			Sources: make(map[string]SourceType),
		},
	}
}

// Load merges defaults, then YAML sources, then the environment, then CLI
// sources. Later layers win.
func (l *loader) Load(_ context.Context, sources ...Source) (*Config, error) {
	l.reset()
	if err := l.loadDefaults(); err != nil {
		return nil, err
	}
	var cli []Source
	for _, source := range sources {
		if source == nil {
			continue
		}
		if source.Type() == SourceCLI {
			cli = append(cli, source)
			continue
		}
		if err := l.loadSource(source); err != nil {
			return nil, err
		}
	}
	if err := l.loadEnvironment(); err != nil {
		return nil, err
	}
	for _, source := range cli {
		if err := l.loadSource(source); err != nil {
			return nil, err
		}
	}
	l.mu.Lock()
	l.metadata.LoadedAt = time.Now()
	l.mu.Unlock()
	return l.unmarshalAndValidate()
}

// Validate runs struct validation and cross-field checks.
func (l *loader) Validate(config *Config) error {
	if config == nil {
		return fmt.Errorf("config is nil")
	}
	if err := l.validator.Struct(config); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return validateCustom(config)
}

// GetSource reports which layer supplied the value at key.
func (l *loader) GetSource(key string) SourceType {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if source, ok := l.metadata.Sources[key]; ok {
		return source
	}
	return SourceDefault
}

func (l *loader) reset() {
	l.koanf = koanf.New(envDelim)
	l.mu.Lock()
	l.metadata = Metadata{Sources: make(map[string]SourceType)}
	l.mu.Unlock()
}

func (l *loader) loadDefaults() error {
	if err := l.koanf.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return fmt.Errorf("failed to load defaults: %w", err)
	}
	return nil
}

func (l *loader) loadEnvironment() error {
	mappings := GenerateEnvToConfigMap()
	provider := env.Provider(envDelim, env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			path, ok := mappings[key]
			if !ok {
				return "", nil
			}
			return path, value
		},
	})
	data, err := provider.Read()
	if err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	return l.apply(flatten("", data), SourceEnv)
}

func (l *loader) loadSource(source Source) error {
	data, err := source.Load()
	if err != nil {
		return fmt.Errorf("failed to load %s source: %w", source.Type(), err)
	}
	return l.apply(flatten("", data), source.Type())
}

func (l *loader) apply(values map[string]any, sourceType SourceType) error {
	for key, value := range values {
		if err := l.koanf.Set(key, value); err != nil {
			return fmt.Errorf("failed to set %s from %s: %w", key, sourceType, err)
		}
		l.trackSource(key, sourceType)
	}
	return nil
}

func (l *loader) trackSource(key string, sourceType SourceType) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.metadata.Sources[key] = sourceType
}

func (l *loader) unmarshalAndValidate() (*Config, error) {
	var config Config
	err := l.koanf.UnmarshalWithConf("", &config, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Metadata:         nil,
			Result:           &config,
			WeaklyTypedInput: true,
			TagName:          "koanf",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := l.Validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func validateCustom(config *Config) error {
	if config.Batch.Concurrency > config.Batch.MaxItems {
		return fmt.Errorf(
			"batch.concurrency (%d) must not exceed batch.max_items (%d)",
			config.Batch.Concurrency,
			config.Batch.MaxItems,
		)
	}
	if config.Server.Timeout < 0 {
		return fmt.Errorf("server.timeout must not be negative")
	}
	return nil
}

// flatten turns nested maps into dotted keys so every leaf can be tracked.
func flatten(prefix string, data map[string]any) map[string]any {
	out := make(map[string]any)
	for key, value := range data {
		path := key
		if prefix != "" {
			path = prefix + envDelim + key
		}
		switch nested := value.(type) {
		case map[string]any:
			for k, v := range flatten(path, nested) {
				out[k] = v
			}
		default:
			out[strings.ToLower(path)] = value
		}
	}
	return out
}
