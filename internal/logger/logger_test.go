package logger

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
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo, FormatJSON)

	log.Debug("hidden")
	log.Info("assignment created", "task_id", "t-1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "assignment created", entry["msg"])
	assert.Equal(t, "t-1", entry["task_id"])
	assert.Contains(t, entry, slog.SourceKey)
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelDebug, "TEXT")

	log.Debug("sweep finished", "rows_healed", 2)

	assert.Contains(t, buf.String(), "msg=\"sweep finished\"")
	assert.Contains(t, buf.String(), "rows_healed=2")
}

func TestNew_UnknownFormatFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, slog.LevelInfo, "xml").Info("hello")

	assert.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}
