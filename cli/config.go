package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"slices"

	"github.com/chainview/chainview/pkg/config"
	"github.com/chainview/chainview/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// SetupGlobalConfig loads configuration from the optional YAML file, the
// environment and explicitly set flags, then installs the config and a
// logger on the command context.
func SetupGlobalConfig(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := LoadEnvironmentFile(cmd); err != nil {
		return err
	}
	var sources []config.Source
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config file: %w", err)
	}
	if configFile != "" {
		sources = append(sources, config.NewYAMLProvider(configFile))
	}
	if cliFlags := ExtractCLIFlags(cmd); len(cliFlags) > 0 {
		sources = append(sources, config.NewCLIProvider(cliFlags))
	}
	cfg, err := config.NewService().Load(ctx, sources...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log := logger.SetupLogger(
		logger.ParseLevel(cfg.Runtime.LogLevel),
		cfg.Runtime.LogJSON,
		cfg.Runtime.LogSource,
	)
	ctx = logger.ContextWithLogger(ctx, log)
	ctx = config.ContextWithConfig(ctx, cfg)
	cmd.SetContext(ctx)
	log.Debug("Configuration loaded", "config_file", configFile, "environment", cfg.Runtime.Environment)
	return nil
}

// LoadEnvironmentFile loads the --env-file dotenv file into the process
// environment. Variables that are already set keep their values.
func LoadEnvironmentFile(cmd *cobra.Command) error {
	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return fmt.Errorf("failed to get env-file flag: %w", err)
	}
	if envFile == "" {
		return nil
	}
	if err := godotenv.Load(envFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}
	return nil
}

// ExtractCLIFlags returns the explicitly set flags that map to configuration keys.
func ExtractCLIFlags(cmd *cobra.Command) map[string]any {
	known := config.CLIFlagNames()
	out := make(map[string]any)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if slices.Contains(known, f.Name) {
			out[f.Name] = f.Value.String()
		}
	})
	return out
}
