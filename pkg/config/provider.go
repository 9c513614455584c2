package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

type yamlProvider struct {
	path string
}

// NewYAMLProvider creates a source that reads a YAML file. A missing file
// yields no values.
func NewYAMLProvider(path string) Source {
	return &yamlProvider{path: path}
}

func (p *yamlProvider) Load() (map[string]any, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", p.path, err)
	}
	var out map[string]any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", p.path, err)
	}
	return removeNilValues(out), nil
}

func (p *yamlProvider) Type() SourceType {
	return SourceYAML
}

// removeNilValues drops keys explicitly set to null so they do not mask
// lower layers.
func removeNilValues(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch typed := v.(type) {
		case nil:
			continue
		case map[string]any:
			out[k] = removeNilValues(typed)
		default:
			out[k] = v
		}
	}
	return out
}

type cliProvider struct {
	flags map[string]any
}

// cliFlagPaths maps command line flag names to configuration paths.
var cliFlagPaths = map[string]string{
	"host":         "server.host",
	"port":         "server.port",
	"timeout":      "server.timeout",
	"max-body":     "server.max_body_bytes",
	"max-depth":    "normalizer.max_depth",
	"strict-depth": "normalizer.strict_depth",
	"max-items":    "batch.max_items",
	"concurrency":  "batch.concurrency",
	"cache-size":   "cache.size",
	"log-level":    "runtime.log_level",
	"log-json":     "runtime.log_json",
	"log-source":   "runtime.log_source",
	"metrics":      "monitoring.enabled",
}

// NewCLIProvider creates a source from flags that were explicitly set.
// Unknown flag names are ignored.
func NewCLIProvider(flags map[string]any) Source {
	return &cliProvider{flags: flags}
}

func (p *cliProvider) Load() (map[string]any, error) {
	out := make(map[string]any, len(p.flags))
	for name, value := range p.flags {
		path, ok := cliFlagPaths[name]
		if !ok {
			continue
		}
		out[path] = value
	}
	return out, nil
}

func (p *cliProvider) Type() SourceType {
	return SourceCLI
}

// CLIFlagNames lists the flags NewCLIProvider understands.
func CLIFlagNames() []string {
	names := make([]string, 0, len(cliFlagPaths))
	for name := range cliFlagPaths {
		names = append(names, name)
	}
	return names
}
