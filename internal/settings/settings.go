// Package settings loads the TOML file that configures the tool itself:
// logging, display, run limits and the interactive shell.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/atlanticdynamic/tms/internal/logging"
	"github.com/pelletier/go-toml/v2"
)

// Defaults.
const (
	DefaultLogLevel    = "info"
	DefaultLogFormat   = logging.FormatText
	DefaultWidth       = 80
	DefaultLegendStep  = 10
	DefaultPrompt      = "tms> "
	DefaultHistoryFile = "${HOME:}/.tms_history"
)

// Settings is the root of the settings file.
type Settings struct {
	Logging Logging `toml:"logging"`
	Display Display `toml:"display"`
	Run     Run     `toml:"run"`
	Shell   Shell   `toml:"shell"`
}

// Logging selects the log handler. See logging.Options.
type Logging struct {
	Level   string   `toml:"level"   env_interpolation:"yes"`
	Format  string   `toml:"format"  env_interpolation:"yes"`
	Outputs []string `toml:"outputs" env_interpolation:"yes"`
}

// Display controls how machines are printed.
type Display struct {
	// Width is the number of tape cells in the tape view.
	Width int `toml:"width"`

	// LegendStep is the distance between position labels in the tape view.
	LegendStep int `toml:"legend_step"`

	// Verbose prints the machine after every shell step.
	Verbose bool `toml:"verbose"`

	Color bool `toml:"color"`
}

// Run limits machine execution. MaxSteps 0 means unlimited.
type Run struct {
	MaxSteps int `toml:"max_steps"`
}

// Shell configures the interactive shell. An empty HistoryFile disables
// history.
type Shell struct {
	Prompt      string `toml:"prompt"       env_interpolation:"yes"`
	HistoryFile string `toml:"history_file" env_interpolation:"yes"`
}

// Default returns the settings used when no file is given, with environment
// variables already expanded.
func Default() *Settings {
	s := defaults()
	if err := InterpolateStruct(s); err != nil {
		// every default carries a fallback value
		panic(err)
	}
	return s
}

func defaults() *Settings {
	return &Settings{
		Logging: Logging{
			Level:   DefaultLogLevel,
			Format:  DefaultLogFormat,
			Outputs: []string{logging.OutputStderr},
		},
		Display: Display{
			Width:      DefaultWidth,
			LegendStep: DefaultLegendStep,
			Verbose:    true,
			Color:      true,
		},
		Shell: Shell{
			Prompt:      DefaultPrompt,
			HistoryFile: DefaultHistoryFile,
		},
	}
}

// Load reads and parses the settings file at path.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes data over the defaults, expands environment variables and
// validates the result. Unknown keys are rejected.
func Parse(data []byte) (*Settings, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrNoSourceData
	}

	s := defaults()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(s); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: %s", ErrParseToml, strings.TrimSpace(strict.String()))
		}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return nil, fmt.Errorf("%w: line %d, column %d: %w", ErrParseToml, row, col, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrParseToml, err)
	}

	if err := InterpolateStruct(s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInterpolation, err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks every value and reports all problems at once.
func (s *Settings) Validate() error {
	var errs []error

	if !logging.ValidLevel(s.Logging.Level) {
		errs = append(errs, invalid("logging.level", "unknown level %q", s.Logging.Level))
	}
	switch strings.ToLower(s.Logging.Format) {
	case logging.FormatText, logging.FormatJSON:
	default:
		errs = append(errs, invalid("logging.format", "must be %q or %q, got %q",
			logging.FormatText, logging.FormatJSON, s.Logging.Format))
	}
	for i, out := range s.Logging.Outputs {
		if strings.TrimSpace(out) == "" {
			errs = append(errs, invalid(fmt.Sprintf("logging.outputs[%d]", i), "empty output"))
		}
	}

	if s.Display.Width < 1 {
		errs = append(errs, invalid("display.width", "must be positive, got %d", s.Display.Width))
	}
	if s.Display.LegendStep < 1 {
		errs = append(errs, invalid("display.legend_step", "must be positive, got %d", s.Display.LegendStep))
	}

	if s.Run.MaxSteps < 0 {
		errs = append(errs, invalid("run.max_steps", "must not be negative, got %d", s.Run.MaxSteps))
	}

	return errors.Join(errs...)
}

// LoggingOptions converts the logging section for logging.New.
func (s *Settings) LoggingOptions() logging.Options {
	return logging.Options{
		Level:   s.Logging.Level,
		Format:  s.Logging.Format,
		Outputs: s.Logging.Outputs,
	}
}

// String renders the settings back as TOML.
func (s *Settings) String() string {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Sprintf("<settings: %v>", err)
	}
	return string(data)
}
