package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/toolshed/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := logging.ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := logging.ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewWithFormat_JSONRenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.NewWithFormat(slog.LevelInfo, "json", &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Warn("tool failed", "error", errors.New("boom"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "tool failed", rec["msg"])
	assert.Equal(t, "boom", rec["err"])
	assert.NotContains(t, rec, "error")
}

func TestNewWithFormat_Text(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.NewWithFormat(slog.LevelDebug, "text", &buf)
	require.NoError(t, err)

	logger.Debug("hello", "error", "x")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "err=x")

	_, err = logging.NewWithFormat(slog.LevelDebug, "xml", &buf)
	assert.Error(t, err)
}
