package logger

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Run("Should return logger from context when present", func(t *testing.T) {
		expectedLogger := NewLogger(TestConfig())
		ctx := ContextWithLogger(t.Context(), expectedLogger)

		actualLogger := FromContext(ctx)

		require.NotNil(t, actualLogger)
		assert.Equal(t, expectedLogger, actualLogger)
	})

	t.Run("Should return default logger when no logger in context", func(t *testing.T) {
		logger := FromContext(t.Context())

		require.NotNil(t, logger)
		logger.Info("test message from default logger")
	})

	t.Run("Should return default logger when wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(t.Context(), LoggerCtxKey, "not a logger")

		logger := FromContext(ctx)

		require.NotNil(t, logger)
		logger.Info("test message from fallback logger")
	})

	t.Run("Should return default logger when nil logger in context", func(t *testing.T) {
		ctx := context.WithValue(t.Context(), LoggerCtxKey, (Logger)(nil))

		logger := FromContext(ctx)

		require.NotNil(t, logger)
	})
}

func TestLogLevel_ToCharmlogLevel(t *testing.T) {
	t.Run("Should convert all log levels to charm log levels correctly", func(t *testing.T) {
		testCases := []struct {
			level    LogLevel
			expected int
		}{
			{DebugLevel, -4},
			{InfoLevel, 0},
			{WarnLevel, 4},
			{ErrorLevel, 8},
			{DisabledLevel, 1000},
			{LogLevel("unknown"), 0},
		}

		for _, tc := range testCases {
			actual := tc.level.ToCharmlogLevel()
			assert.Equal(t, tc.expected, int(actual), "LogLevel %s", tc.level)
		}
	})
}

func TestParseLevel(t *testing.T) {
	t.Run("Should accept known levels case-insensitively", func(t *testing.T) {
		assert.Equal(t, DebugLevel, ParseLevel("DEBUG"))
		assert.Equal(t, WarnLevel, ParseLevel(" warn "))
		assert.Equal(t, DisabledLevel, ParseLevel("disabled"))
	})

	t.Run("Should fall back to info", func(t *testing.T) {
		assert.Equal(t, InfoLevel, ParseLevel("verbose"))
		assert.Equal(t, InfoLevel, ParseLevel(""))
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("Should create logger with provided config", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&Config{Level: InfoLevel, Output: &buf, TimeFormat: "15:04:05"})
		logger.Info("test message")

		assert.Contains(t, buf.String(), "test message")
	})

	t.Run("Should create logger with JSON formatting when enabled", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&Config{Level: InfoLevel, Output: &buf, JSON: true, TimeFormat: "15:04:05"})
		logger.Info("test message", "kind", "record")

		output := buf.String()
		assert.Contains(t, output, "test message")
		assert.Contains(t, output, "kind")
		assert.Contains(t, output, "record")
		assert.True(t, strings.HasPrefix(strings.TrimSpace(output), "{"))
	})

	t.Run("Should use the test config when nil config is provided under go test", func(t *testing.T) {
		logger := NewLogger(nil)
		require.NotNil(t, logger)
		logger.Info("discarded")
	})
}

func TestLogger_With(t *testing.T) {
	t.Run("Should create logger with additional context fields", func(t *testing.T) {
		var buf bytes.Buffer
		base := NewLogger(&Config{Level: InfoLevel, Output: &buf, TimeFormat: "15:04:05"})

		base.With("component", "normalizer", "operation", "batch").Info("operation completed")

		output := buf.String()
		assert.Contains(t, output, "component")
		assert.Contains(t, output, "normalizer")
		assert.Contains(t, output, "batch")
		assert.Contains(t, output, "operation completed")
	})
}

func TestConfigDefaults(t *testing.T) {
	t.Run("Should provide correct default configuration", func(t *testing.T) {
		config := DefaultConfig()

		assert.Equal(t, InfoLevel, config.Level)
		assert.Equal(t, os.Stderr, config.Output)
		assert.False(t, config.JSON)
		assert.Equal(t, "15:04:05", config.TimeFormat)
	})

	t.Run("Should provide correct test configuration", func(t *testing.T) {
		config := TestConfig()

		assert.Equal(t, DisabledLevel, config.Level)
		assert.Equal(t, io.Discard, config.Output)
	})
}

func TestIsTestEnvironment(t *testing.T) {
	t.Run("Should detect test environment correctly", func(t *testing.T) {
		assert.True(t, IsTestEnvironment())
	})
}

func TestLoggerLevels(t *testing.T) {
	t.Run("Should respect log level filtering", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&Config{Level: WarnLevel, Output: &buf, TimeFormat: "15:04:05"})

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warn message")
		logger.Error("error message")

		output := buf.String()
		assert.NotContains(t, output, "debug message")
		assert.NotContains(t, output, "info message")
		assert.Contains(t, output, "warn message")
		assert.Contains(t, output, "error message")
	})

	t.Run("Should disable all logging when DisabledLevel is used", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&Config{Level: DisabledLevel, Output: &buf, TimeFormat: "15:04:05"})
		logger.Debug("debug message")
		logger.Error("error message")

		assert.Empty(t, buf.String())
	})
}

func TestGetLoggerConfig(t *testing.T) {
	t.Run("Should read logger flags from the command", func(t *testing.T) {
		cmd := &cobra.Command{Use: "test"}
		cmd.Flags().String("log-level", "info", "")
		cmd.Flags().Bool("log-json", false, "")
		cmd.Flags().Bool("log-source", false, "")
		require.NoError(t, cmd.Flags().Set("log-level", "debug"))
		require.NoError(t, cmd.Flags().Set("log-json", "true"))

		level, logJSON, logSource, err := GetLoggerConfig(cmd)
		require.NoError(t, err)
		assert.Equal(t, DebugLevel, level)
		assert.True(t, logJSON)
		assert.False(t, logSource)
	})

	t.Run("Should fail when flags are missing", func(t *testing.T) {
		_, _, _, err := GetLoggerConfig(&cobra.Command{Use: "bare"})
		assert.Error(t, err)
	})
}
