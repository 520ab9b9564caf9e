package util

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLogLevel("warning"))
	assert.Equal(t, LevelError, ParseLogLevel("error"))
	assert.Equal(t, LevelInfo, ParseLogLevel("bogus"))
	assert.Equal(t, "WARN", LevelWarn.String())
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(LoggerConfig{Level: "warn"})
	require.NoError(t, err)
	logger.AddOutput(NewConsoleOutput(&buf, FormatText))

	logger.Info("hidden")
	logger.Warnf("shown %d", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] shown 1")
}

func TestLogger_TextFieldsSorted(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(LoggerConfig{Level: "debug"})
	require.NoError(t, err)
	logger.AddOutput(NewConsoleOutput(&buf, FormatText))

	logger.With(F("source", "a.json")).Debug("loaded", F("entities", 3))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(buf.String()), "loaded entities=3 source=a.json"))
}

func TestLogger_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.log")
	logger, err := NewLogger(LoggerConfig{Level: "info", Format: "json", File: path})
	require.NoError(t, err)

	logger.Info("reloaded", F("source", "rome.json"))
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry LogEntry
	require.NoError(t, sonic.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "reloaded", entry.Message)
	assert.Equal(t, "rome.json", entry.Fields["source"])
	assert.WithinDuration(t, time.Now(), entry.Timestamp, time.Minute)
}

func TestLogger_NoOutputs(t *testing.T) {
	logger, err := NewLogger(LoggerConfig{})
	require.NoError(t, err)
	assert.NotPanics(t, func() { logger.Error("dropped") })
}

func TestNewLogger_BadFile(t *testing.T) {
	_, err := NewLogger(LoggerConfig{File: filepath.Join(t.TempDir(), "missing", "x.log")})
	assert.Error(t, err)
}

func TestGlobalLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(LoggerConfig{Level: "debug"})
	require.NoError(t, err)
	logger.AddOutput(NewConsoleOutput(&buf, FormatText))

	SetLogger(logger)
	defer SetLogger(nil)

	LogDebugf("frame %d", 7)
	LogError("boom")
	assert.Contains(t, buf.String(), "frame 7")
	assert.Contains(t, buf.String(), "[ERROR] boom")
}
