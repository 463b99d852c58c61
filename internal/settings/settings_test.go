package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	s := Default()
	assert.Equal(t, DefaultLogLevel, s.Logging.Level)
	assert.Equal(t, DefaultLogFormat, s.Logging.Format)
	assert.Equal(t, []string{"stderr"}, s.Logging.Outputs)
	assert.Equal(t, DefaultWidth, s.Display.Width)
	assert.Equal(t, DefaultLegendStep, s.Display.LegendStep)
	assert.True(t, s.Display.Verbose)
	assert.True(t, s.Display.Color)
	assert.Equal(t, 0, s.Run.MaxSteps)
	assert.Equal(t, DefaultPrompt, s.Shell.Prompt)
	assert.Equal(t, "/home/tester/.tms_history", s.Shell.HistoryFile)
	require.NoError(t, s.Validate())
}

func TestParse(t *testing.T) {
	t.Setenv("TMS_TEST_LOG_DIR", "/var/log/tms")

	data := []byte(`
[logging]
level = "debug"
format = "json"
outputs = ["stdout", "${TMS_TEST_LOG_DIR}/tms.log"]

[display]
width = 40
verbose = false

[run]
max_steps = 5000

[shell]
prompt = "${TMS_TEST_PROMPT:turing> }"
history_file = ""
`)

	s, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "debug", s.Logging.Level)
	assert.Equal(t, "json", s.Logging.Format)
	assert.Equal(t, []string{"stdout", "/var/log/tms/tms.log"}, s.Logging.Outputs)
	assert.Equal(t, 40, s.Display.Width)
	assert.Equal(t, DefaultLegendStep, s.Display.LegendStep, "unset keys keep their default")
	assert.False(t, s.Display.Verbose)
	assert.True(t, s.Display.Color)
	assert.Equal(t, 5000, s.Run.MaxSteps)
	assert.Equal(t, "turing> ", s.Shell.Prompt)
	assert.Empty(t, s.Shell.HistoryFile)

	opts := s.LoggingOptions()
	assert.Equal(t, "debug", opts.Level)
	assert.Equal(t, s.Logging.Outputs, opts.Outputs)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
		wantMsg string
	}{
		{
			name:    "empty",
			data:    "  \n\t",
			wantErr: ErrNoSourceData,
		},
		{
			name:    "malformed",
			data:    "[logging\nlevel = 1",
			wantErr: ErrParseToml,
		},
		{
			name:    "unknown key",
			data:    "[display]\nheight = 3\n",
			wantErr: ErrParseToml,
			wantMsg: "height",
		},
		{
			name:    "wrong type",
			data:    "[run]\nmax_steps = \"many\"\n",
			wantErr: ErrParseToml,
		},
		{
			name:    "missing variable",
			data:    "[shell]\nprompt = \"${TMS_TEST_SURELY_UNSET_VARIABLE}\"\n",
			wantErr: ErrInterpolation,
			wantMsg: "TMS_TEST_SURELY_UNSET_VARIABLE",
		},
		{
			name:    "invalid level",
			data:    "[logging]\nlevel = \"loud\"\n",
			wantErr: ErrInvalidValue,
			wantMsg: "logging.level",
		},
		{
			name:    "every invalid value is reported",
			data:    "[display]\nwidth = 0\nlegend_step = -1\n[run]\nmax_steps = -3\n",
			wantErr: ErrInvalidValue,
			wantMsg: "run.max_steps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			require.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	s := Default()
	s.Logging.Format = "yaml"
	s.Logging.Outputs = []string{"stderr", " "}
	s.Display.Width = -1

	err := s.Validate()
	require.ErrorIs(t, err, ErrInvalidValue)
	assert.Contains(t, err.Error(), "logging.format")
	assert.Contains(t, err.Error(), "logging.outputs[1]")
	assert.Contains(t, err.Error(), "display.width")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(dir, "tms.toml")
		require.NoError(t, os.WriteFile(path, []byte("[run]\nmax_steps = 10\n"), 0o644))

		s, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 10, s.Run.MaxSteps)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "absent.toml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("error carries the path", func(t *testing.T) {
		path := filepath.Join(dir, "bad.toml")
		require.NoError(t, os.WriteFile(path, []byte("[run]\nmax_steps = -1\n"), 0o644))

		_, err := Load(path)
		require.ErrorIs(t, err, ErrInvalidValue)
		assert.Contains(t, err.Error(), path)
	})
}

func TestString_RoundTrips(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	s := Default()
	s.Run.MaxSteps = 42

	parsed, err := Parse([]byte(s.String()))
	require.NoError(t, err)
	assert.Equal(t, s, parsed)
}
