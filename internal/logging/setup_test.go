package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupHandlerText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level   string
		debugOn bool
		infoOn  bool
		warnOn  bool
		errorOn bool
	}{
		{level: "trace", debugOn: true, infoOn: true, warnOn: true, errorOn: true},
		{level: "debug", debugOn: true, infoOn: true, warnOn: true, errorOn: true},
		{level: "info", infoOn: true, warnOn: true, errorOn: true},
		{level: "INFO", infoOn: true, warnOn: true, errorOn: true},
		{level: "warning", warnOn: true, errorOn: true},
		{level: "error", errorOn: true},
		{level: "bogus", infoOn: true, warnOn: true, errorOn: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			t.Parallel()
			h := SetupHandlerText(tt.level, &bytes.Buffer{})
			ctx := t.Context()
			assert.Equal(t, tt.debugOn, h.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tt.infoOn, h.Enabled(ctx, slog.LevelInfo))
			assert.Equal(t, tt.warnOn, h.Enabled(ctx, slog.LevelWarn))
			assert.Equal(t, tt.errorOn, h.Enabled(ctx, slog.LevelError))
		})
	}
}

func TestSetupHandlerText_Output(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(SetupHandlerText("info", &buf))
	logger.Info("Machine halted", "state", "H", "steps", 107)
	logger.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "Machine halted")
	assert.Contains(t, out, "state=H")
	assert.Contains(t, out, "steps=107")
	assert.NotContains(t, out, "hidden")
}

func TestSetupHandlerJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(SetupHandlerJSON("debug", &buf))
	logger.Debug("Step applied", "state", "a")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Step applied", entry["msg"])
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "a", entry["state"])
	assert.NotContains(t, entry, "source")

	buf.Reset()
	slog.New(SetupHandlerJSON("trace", &buf)).Info("with source")
	assert.Contains(t, buf.String(), `"source"`)
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("rejects unknown format", func(t *testing.T) {
		t.Parallel()
		_, _, err := New(Options{Format: "xml"})
		require.ErrorIs(t, err, ErrUnknownFormat)
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		t.Parallel()
		_, _, err := New(Options{Level: "loud"})
		require.ErrorIs(t, err, ErrUnknownLevel)
	})

	t.Run("rejects unsupported output", func(t *testing.T) {
		t.Parallel()
		_, _, err := New(Options{Outputs: []string{"redis://localhost:6379"}})
		require.Error(t, err)
	})

	t.Run("defaults to stderr text", func(t *testing.T) {
		t.Parallel()
		h, closeFn, err := New(Options{})
		require.NoError(t, err)
		require.NotNil(t, h)
		assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
		assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
		assert.NoError(t, closeFn())
	})

	t.Run("fans out to several files", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		first := filepath.Join(dir, "a.log")
		second := "file://" + filepath.Join(dir, "nested", "b.log")

		h, closeFn, err := New(Options{
			Level:   "info",
			Format:  FormatJSON,
			Outputs: []string{first, second},
		})
		require.NoError(t, err)

		slog.New(h).Info("Run finished", "steps", 3)
		require.NoError(t, closeFn())

		for _, path := range []string{first, filepath.Join(dir, "nested", "b.log")} {
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.True(t, strings.Contains(string(data), `"msg":"Run finished"`), path)
		}
	})
}

func TestOpenOutput(t *testing.T) {
	t.Parallel()

	w, err := OpenOutput("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, w)

	w, err = OpenOutput(OutputStdout)
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, w)

	w, err = OpenOutput(OutputStderr)
	require.NoError(t, err)
	assert.Equal(t, os.Stderr, w)

	_, err = OpenOutput("file://")
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "deep", "er", "tms.log")
	w, err = OpenOutput(path)
	require.NoError(t, err)
	f, ok := w.(*os.File)
	require.True(t, ok)
	require.NoError(t, f.Close())
	assert.FileExists(t, path)
}

func TestValidLevel(t *testing.T) {
	t.Parallel()

	for _, level := range []string{"trace", "debug", "info", "warn", "warning", "error", "DEBUG"} {
		assert.True(t, ValidLevel(level), level)
	}
	for _, level := range []string{"", "verbose", "fatal"} {
		assert.False(t, ValidLevel(level), level)
	}
}
