// Package shell is the interactive console: it reads command lines, runs
// them against the current machine and prints the results.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/atlanticdynamic/tms/internal/fancy"
	"github.com/atlanticdynamic/tms/internal/machine"
	"github.com/atlanticdynamic/tms/internal/session"
	"github.com/atlanticdynamic/tms/internal/settings"
	"github.com/chzyer/readline"
)

// ErrQuit is returned by Execute for the quit command.
var ErrQuit = errors.New("quit")

// ErrUnsupportedCommand is returned for a line naming no known command.
var ErrUnsupportedCommand = errors.New("unsupported command")

const banner = "TMS: Turing machine simulator. Type \"help\" for the list of commands."

// LineReader reads one edited line at a time. It returns io.EOF at the end
// of input and readline.ErrInterrupt on Ctrl-C.
type LineReader interface {
	Readline() (string, error)
	Close() error
}

// Option configures a Shell.
type Option func(*Shell)

// WithOutput sets where command output goes. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(s *Shell) {
		if w != nil {
			s.out = w
		}
	}
}

// WithHandler sets the log handler for sessions and program reads.
func WithHandler(h slog.Handler) Option {
	return func(s *Shell) {
		if h != nil {
			s.handler = h
		}
	}
}

// WithSettings sets display and run settings.
func WithSettings(cfg *settings.Settings) Option {
	return func(s *Shell) {
		if cfg != nil {
			s.settings = cfg
		}
	}
}

// Shell holds the machine being worked on. It is not safe for concurrent
// use.
type Shell struct {
	settings *settings.Settings
	out      io.Writer
	handler  slog.Handler
	logger   *slog.Logger

	session *session.Session
	path    string
	verbose bool
}

// New creates a shell working on m.
func New(m *machine.Machine, opts ...Option) (*Shell, error) {
	s := &Shell{
		settings: settings.Default(),
		out:      os.Stdout,
		handler:  slog.Default().Handler(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = slog.New(s.handler).WithGroup("shell")
	s.verbose = s.settings.Display.Verbose

	sess, err := session.New(m, session.SourceShell, "", s.handler)
	if err != nil {
		return nil, err
	}
	s.session = sess
	return s, nil
}

// Machine returns the current machine.
func (s *Shell) Machine() *machine.Machine {
	return s.session.Machine()
}

// Session returns the current session.
func (s *Shell) Session() *session.Session {
	return s.session
}

// Path returns the file the current machine was loaded from, if any.
func (s *Shell) Path() string {
	return s.path
}

// Verbose reports whether the machine is printed after every step and run.
func (s *Shell) Verbose() bool {
	return s.verbose
}

// NewLineReader returns a readline-backed LineReader using the shell
// prompt, history file and completion.
func (s *Shell) NewLineReader() (LineReader, error) {
	return readline.NewEx(&readline.Config{
		Prompt:          s.settings.Shell.Prompt,
		HistoryFile:     s.settings.Shell.HistoryFile,
		AutoComplete:    s.Completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
}

// Run reads and executes lines until the input ends, the user quits or
// presses Ctrl-C at the prompt. Command errors are printed, not returned.
func (s *Shell) Run(ctx context.Context, lr LineReader) error {
	defer func() { _ = lr.Close() }()

	s.println(banner)

	for {
		line, err := lr.Readline()
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, readline.ErrInterrupt):
			return nil
		case err != nil:
			return err
		}

		err = s.Execute(ctx, line)
		switch {
		case errors.Is(err, ErrQuit):
			return nil
		case err != nil:
			s.println(fancy.ErrorText(err.Error()))
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Execute runs one command line. Ctrl-C while it runs cancels the command,
// not the shell.
func (s *Shell) Execute(ctx context.Context, line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	s.logger.Debug("Executing command", "line", line)
	return s.commandTree().Run(ctx, append([]string{"tms"}, args...))
}

func (s *Shell) println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Shell) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}
