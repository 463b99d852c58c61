// Package logging builds the slog handlers used by the CLI and the shell.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	slogmulti "github.com/samber/slog-multi"
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

var (
	ErrUnknownFormat = errors.New("unknown log format")
	ErrUnknownLevel  = errors.New("unknown log level")
)

// Options selects the level, format and destinations of the log output.
type Options struct {
	// Level is one of trace, debug, info, warn, error.
	Level string

	// Format is FormatText or FormatJSON.
	Format string

	// Outputs lists stdout, stderr, or file paths. Empty means stderr.
	Outputs []string
}

// ValidLevel reports whether level is a level name accepted by the setup
// functions.
func ValidLevel(level string) bool {
	switch strings.ToLower(level) {
	case "trace", "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// New returns a handler writing to every output of opts, fanning out when
// there is more than one. The returned close function releases the files
// it opened.
func New(opts Options) (slog.Handler, func() error, error) {
	if opts.Level != "" && !ValidLevel(opts.Level) {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownLevel, opts.Level)
	}

	var build func(string, io.Writer) slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", FormatText:
		build = SetupHandlerText
	case FormatJSON:
		build = SetupHandlerJSON
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}

	outputs := opts.Outputs
	if len(outputs) == 0 {
		outputs = []string{OutputStderr}
	}

	var closers []io.Closer
	closeAll := func() error {
		var errs []error
		for _, c := range closers {
			errs = append(errs, c.Close())
		}
		return errors.Join(errs...)
	}

	handlers := make([]slog.Handler, 0, len(outputs))
	for _, output := range outputs {
		w, err := OpenOutput(output)
		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}
		if c, ok := w.(io.Closer); ok && w != os.Stdout && w != os.Stderr {
			closers = append(closers, c)
		}
		handlers = append(handlers, build(opts.Level, w))
	}

	if len(handlers) == 1 {
		return handlers[0], closeAll, nil
	}
	return slogmulti.Fanout(handlers...), closeAll, nil
}

// SetupHandlerText configures a charmbracelet/log text handler with the
// provided writer and log level.
func SetupHandlerText(logLevel string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stderr
	}

	reportCaller := false
	reportTimestamp := false
	lvl := log.InfoLevel
	switch strings.ToLower(logLevel) {
	case "trace":
		reportCaller = true
		reportTimestamp = true
		lvl = log.DebugLevel
	case "debug":
		reportTimestamp = true
		lvl = log.DebugLevel
	case "warn", "warning":
		lvl = log.WarnLevel
	case "error":
		lvl = log.ErrorLevel
	}

	return log.NewWithOptions(writer, log.Options{
		ReportTimestamp: reportTimestamp,
		ReportCaller:    reportCaller,
		Level:           lvl,
		Prefix:          "tms",
	})
}

// SetupHandlerJSON configures a JSON slog handler with the provided writer
// and log level.
func SetupHandlerJSON(logLevel string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stderr
	}

	level := slog.LevelInfo
	addSource := false
	switch strings.ToLower(logLevel) {
	case "trace":
		addSource = true
		level = slog.LevelDebug
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
	})
}

// SetupLogger installs a text handler at logLevel on stderr as the default
// logger.
func SetupLogger(logLevel string) {
	slog.SetDefault(slog.New(SetupHandlerText(logLevel, nil)))
}
