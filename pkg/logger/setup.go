package logger

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// SetupLogger builds a logger from CLI settings and installs it as the
// process default.
func SetupLogger(level LogLevel, logJSON, logSource bool) Logger {
	l := NewLogger(&Config{
		Level:      level,
		JSON:       logJSON,
		AddSource:  logSource,
		Output:     os.Stderr,
		TimeFormat: "15:04:05",
	})
	setDefaultLogger(l)
	return l
}

func GetLoggerConfig(cmd *cobra.Command) (LogLevel, bool, bool, error) {
	logLevel, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return NoLevel, false, false, fmt.Errorf("failed to get log-level flag: %w", err)
	}

	logJSON, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		return NoLevel, false, false, fmt.Errorf("failed to get log-json flag: %w", err)
	}

	logSource, err := cmd.Flags().GetBool("log-source")
	if err != nil {
		return NoLevel, false, false, fmt.Errorf("failed to get log-source flag: %w", err)
	}

	return ParseLevel(logLevel), logJSON, logSource, nil
}
