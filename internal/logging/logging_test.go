package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{" info ", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.input), "ParseLevel(%q)", tt.input)
	}
}

func TestSetupJSON(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	Setup(slog.LevelInfo, "JSON", &buf)
	slog.Debug("hidden")
	slog.Warn("brand classifier model not found", "model", "models/x.json")

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m), "output: %s", buf.String())
	assert.Equal(t, "brand classifier model not found", m["msg"])
	assert.Equal(t, "models/x.json", m["model"])
	assert.Equal(t, "WARN", m["level"])
}

func TestSetupText(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := Setup(slog.LevelDebug, "text", &buf)
	logger.Debug("loaded", "labels", 8)

	assert.Contains(t, buf.String(), "msg=loaded")
	assert.Contains(t, buf.String(), "labels=8")
}
