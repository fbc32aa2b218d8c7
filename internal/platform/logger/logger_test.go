// Package logger_test contains tests for the logger package
package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/phrazzld/scry-relay/internal/config"
	"github.com/phrazzld/scry-relay/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWithWriter_Levels(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	tests := []struct {
		level       string
		wantDebug   bool
		wantInfo    bool
		wantWarning bool
	}{
		{level: "debug", wantDebug: true, wantInfo: true, wantWarning: true},
		{level: "INFO", wantInfo: true, wantWarning: true},
		{level: "warn", wantWarning: true},
		{level: "error"},
		{level: "bogus", wantInfo: true, wantWarning: true},
	}

	for _, tc := range tests {
		t.Run(tc.level, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: tc.level}, &buf)
			require.NoError(t, err)
			require.NotNil(t, l)

			l.Debug("debug message")
			l.Info("info message")
			l.Warn("warn message")

			out := buf.String()
			assert.Equal(t, tc.wantDebug, strings.Contains(out, "debug message"))
			assert.Equal(t, tc.wantInfo, strings.Contains(out, "info message"))
			assert.Equal(t, tc.wantWarning, strings.Contains(out, "warn message"))
		})
	}
}

func TestSetupWithWriter_JSONAndDefault(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	_, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: "info"}, &buf)
	require.NoError(t, err)

	slog.Info("through default", "component", "test")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "output should be a JSON object: %s", buf.String())
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "through default", entry["msg"])
	assert.Equal(t, "test", entry["component"])
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	require.NotNil(t, logger.ParseLevel("warning"))
	assert.Equal(t, slog.LevelWarn, *logger.ParseLevel("warning"))
	assert.Nil(t, logger.ParseLevel(""))
}
