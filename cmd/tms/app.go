package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/atlanticdynamic/tms/internal/fancy"
	"github.com/atlanticdynamic/tms/internal/logging"
	"github.com/atlanticdynamic/tms/internal/machine"
	"github.com/atlanticdynamic/tms/internal/reader"
	"github.com/atlanticdynamic/tms/internal/session"
	"github.com/atlanticdynamic/tms/internal/settings"
	"github.com/atlanticdynamic/tms/internal/shell"
	"github.com/urfave/cli/v3"
)

// Exit codes.
const (
	exitFailure   = 1
	exitUsage     = 2
	exitStepLimit = 3
	exitCanceled  = 130
)

// app carries what the Before hook prepares for the actions.
type app struct {
	settings *settings.Settings
	handler  slog.Handler
	closeLog func() error

	// newLineReader is replaced in tests
	newLineReader func(*shell.Shell) (shell.LineReader, error)
}

func newApp(stdout, stderr io.Writer) *cli.Command {
	a := &app{
		newLineReader: func(sh *shell.Shell) (shell.LineReader, error) {
			return sh.NewLineReader()
		},
	}
	return a.command(stdout, stderr)
}

func (a *app) command(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:           "tms",
		Version:        Version,
		Usage:          "Turing machine simulator",
		ArgsUsage:      "[PROGRAM]",
		Writer:         stdout,
		ErrWriter:      stderr,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "settings",
				Aliases: []string{"s"},
				Usage:   "path to a TOML settings file",
				Sources: cli.EnvVars("TMS_SETTINGS"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (trace, debug, info, warn, error), overrides the settings file",
				Sources: cli.EnvVars("TMS_LOG_LEVEL"),
			},
			&cli.IntFlag{
				Name:  "max-steps",
				Usage: "stop a run after this many steps, 0 for no limit; overrides the settings file",
			},
			&cli.BoolFlag{
				Name:  "view",
				Usage: "print the final tape as a tape view instead of its raw content",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "disable colored output",
			},
		},
		Before: a.before,
		After:  a.after,
		Action: a.rootAction,
		Commands: []*cli.Command{
			a.checkCmd(),
			versionCmd,
		},
	}
}

// before loads the settings, applies flag overrides and installs the logger.
func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg := settings.Default()
	if path := cmd.String("settings"); path != "" {
		loaded, err := settings.Load(path)
		if err != nil {
			return ctx, cli.Exit(err.Error(), exitUsage)
		}
		cfg = loaded
	}

	if cmd.IsSet("log-level") {
		cfg.Logging.Level = cmd.String("log-level")
	}
	if cmd.IsSet("max-steps") {
		cfg.Run.MaxSteps = int(cmd.Int("max-steps"))
	}
	if cmd.Bool("no-color") {
		cfg.Display.Color = false
	}
	if err := cfg.Validate(); err != nil {
		return ctx, cli.Exit(err.Error(), exitUsage)
	}

	if !cfg.Display.Color {
		fancy.DisableColor()
	}

	handler, closeLog, err := logging.New(cfg.LoggingOptions())
	if err != nil {
		return ctx, cli.Exit(err.Error(), exitUsage)
	}
	slog.SetDefault(slog.New(handler))

	a.settings = cfg
	a.handler = handler
	a.closeLog = closeLog
	return ctx, nil
}

func (a *app) after(context.Context, *cli.Command) error {
	if a.closeLog == nil {
		return nil
	}
	return a.closeLog()
}

func (a *app) rootAction(ctx context.Context, cmd *cli.Command) error {
	switch cmd.Args().Len() {
	case 0:
		return a.runShell(ctx, cmd)
	case 1:
		return a.runFile(ctx, cmd, cmd.Args().First())
	default:
		return cli.Exit(fmt.Sprintf("expected at most one program file, got %d arguments", cmd.Args().Len()), exitUsage)
	}
}

func (a *app) runShell(ctx context.Context, cmd *cli.Command) error {
	sh, err := shell.New(machine.New(machine.Config{}),
		shell.WithOutput(cmd.Root().Writer),
		shell.WithHandler(a.handler),
		shell.WithSettings(a.settings),
	)
	if err != nil {
		return err
	}

	lr, err := a.newLineReader(sh)
	if err != nil {
		return fmt.Errorf("failed to start line editor: %w", err)
	}
	return sh.Run(ctx, lr)
}

// runFile reads the program at path, runs it to halt with break states
// cleared, and prints the resulting tape.
func (a *app) runFile(ctx context.Context, cmd *cli.Command, path string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(a.handler)

	r := reader.New(path, reader.WithLogger(logger))
	r.Read()
	if !r.Success() {
		_, _ = fmt.Fprint(cmd.Root().ErrWriter, fancy.Diagnostics(r.Diagnostics()))
		return cli.Exit("", exitFailure)
	}

	m := r.BuildMachine()
	m.ClearBreakStates()

	sess, err := session.FromFile(path, m, a.handler)
	if err != nil {
		return err
	}

	// a program may start in an end state; it is already done
	err = sess.Run(ctx, a.settings.Run.MaxSteps)
	switch {
	case err == nil, errors.Is(err, session.ErrHalted):
	case errors.Is(err, session.ErrStepLimit):
		a.printTape(cmd, m)
		return cli.Exit(err.Error(), exitStepLimit)
	case errors.Is(err, session.ErrCanceled):
		return cli.Exit(err.Error(), exitCanceled)
	default:
		return cli.Exit(err.Error(), exitFailure)
	}

	a.printTape(cmd, m)
	return nil
}

func (a *app) printTape(cmd *cli.Command, m *machine.Machine) {
	w := cmd.Root().Writer
	if cmd.Bool("view") {
		d := a.settings.Display
		_, _ = fmt.Fprint(w, fancy.MachineView(m, d.Width, d.LegendStep))
		return
	}
	_, _ = fmt.Fprintln(w, m.Tape().String())
}
