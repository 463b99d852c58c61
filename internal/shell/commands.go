package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/atlanticdynamic/tms/internal/fancy"
	"github.com/atlanticdynamic/tms/internal/logging"
	"github.com/atlanticdynamic/tms/internal/reader"
	"github.com/atlanticdynamic/tms/internal/session"
	"github.com/urfave/cli/v3"
)

// commandTree builds the commands for one line. A fresh tree per line keeps
// flag values from leaking between lines.
func (s *Shell) commandTree() *cli.Command {
	return &cli.Command{
		Name:           "tms",
		Usage:          "Turing machine simulator shell",
		Writer:         s.out,
		ErrWriter:      s.out,
		HideVersion:    true,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return fmt.Errorf("%w: %s", ErrUnsupportedCommand, cmd.Args().First())
		},
		Commands: []*cli.Command{
			{
				Name:  "info",
				Usage: "print the tape, step number and current state",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "tree",
						Aliases: []string{"t"},
						Usage:   "show rules, states and symbol counts as a tree",
					},
				},
				Action: s.infoAction,
			},
			{
				Name:      "load",
				Usage:     "load a machine from a program file",
				ArgsUsage: "FILE",
				Action:    s.loadAction,
			},
			{
				Name:   "reload",
				Usage:  "load the current program file again",
				Action: s.reloadAction,
			},
			{
				Name:      "step",
				Usage:     "apply N steps (default 1), ignoring break states",
				ArgsUsage: "[N]",
				Action:    s.stepAction,
			},
			{
				Name:   "run",
				Usage:  "run until the machine halts or reaches a break state",
				Action: s.runAction,
			},
			{
				Name:      "break",
				Usage:     "add break states, or list them",
				ArgsUsage: "[STATE...]",
				Action:    s.breakAction,
			},
			{
				Name:      "unbreak",
				Usage:     "remove break states, or all of them",
				ArgsUsage: "[STATE...]",
				Action:    s.unbreakAction,
			},
			{
				Name:      "verbose",
				Usage:     "print the machine after every step and run",
				ArgsUsage: "on|off",
				Action:    s.verboseAction,
			},
			{
				Name:   "log",
				Usage:  "replay the log of the current session",
				Action: s.logAction,
			},
			{
				Name:    "quit",
				Aliases: []string{"exit"},
				Usage:   "leave the shell",
				Action: func(context.Context, *cli.Command) error {
					return ErrQuit
				},
			},
		},
	}
}

func (s *Shell) infoAction(_ context.Context, cmd *cli.Command) error {
	if cmd.Bool("tree") {
		title := s.path
		if title == "" {
			title = "machine"
		}
		s.println(fancy.MachineTree(title, s.Machine()))
		return nil
	}
	s.printMachine()
	return nil
}

func (s *Shell) loadAction(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("load takes exactly one file, got %d", cmd.Args().Len())
	}
	return s.load(cmd.Args().First())
}

func (s *Shell) reloadAction(context.Context, *cli.Command) error {
	if s.path == "" {
		return errors.New("no program loaded")
	}
	return s.load(s.path)
}

// load replaces the machine with the one described by path. On syntax errors
// the diagnostics are printed and the current machine is kept.
func (s *Shell) load(path string) error {
	r := reader.New(path, reader.WithLogger(s.logger))
	r.Read()
	if !r.Success() {
		s.printf("%s", fancy.Diagnostics(r.Diagnostics()))
		return fmt.Errorf("%s: %d error(s), machine unchanged", path, len(r.Diagnostics()))
	}

	sess, err := session.FromFile(path, r.BuildMachine(), s.handler)
	if err != nil {
		return err
	}
	s.session = sess
	s.path = path

	s.printf("Loaded %s\n", fancy.PathText(path))
	if s.verbose {
		s.printMachine()
	}
	return nil
}

func (s *Shell) stepAction(ctx context.Context, cmd *cli.Command) error {
	n := 1
	if cmd.Args().Len() > 1 {
		return errors.New("step takes at most one argument")
	}
	if arg := cmd.Args().First(); arg != "" {
		v, err := strconv.Atoi(arg)
		if err != nil || v < 1 {
			return fmt.Errorf("step count must be a positive integer, got %q", arg)
		}
		n = v
	}

	err := s.session.Step(ctx, n)
	s.report(false)
	return err
}

func (s *Shell) runAction(ctx context.Context, _ *cli.Command) error {
	err := s.session.Run(ctx, s.settings.Run.MaxSteps)
	s.report(true)
	return err
}

// report prints the machine when verbose, then why the session stopped.
func (s *Shell) report(afterRun bool) {
	if s.verbose {
		s.printMachine()
	}
	switch s.session.GetState() {
	case session.StateHalted:
		s.printf("Halted in state %s after %d steps\n",
			fancy.StateText(s.Machine().State()), s.Machine().Steps())
	case session.StatePaused:
		if m := s.Machine(); afterRun && m.IsInterrupted() {
			s.printf("Break state %s reached\n", fancy.StateText(m.State()))
		}
	}
}

func (s *Shell) breakAction(_ context.Context, cmd *cli.Command) error {
	m := s.Machine()
	if cmd.Args().Len() == 0 {
		s.printBreakStates()
		return nil
	}
	m.AddBreakStates(cmd.Args().Slice()...)
	s.printBreakStates()
	return nil
}

func (s *Shell) unbreakAction(_ context.Context, cmd *cli.Command) error {
	m := s.Machine()
	if cmd.Args().Len() == 0 {
		m.ClearBreakStates()
	} else {
		m.RemoveBreakStates(cmd.Args().Slice()...)
	}
	s.printBreakStates()
	return nil
}

func (s *Shell) printBreakStates() {
	states := s.Machine().BreakStates()
	if len(states) == 0 {
		s.println("No break states")
		return
	}
	s.printf("Break states: %s\n", fancy.StateText(strings.Join(states, " ")))
}

func (s *Shell) verboseAction(_ context.Context, cmd *cli.Command) error {
	switch strings.ToLower(cmd.Args().First()) {
	case "on":
		s.verbose = true
	case "off":
		s.verbose = false
	case "":
	default:
		return fmt.Errorf("verbose takes on or off, got %q", cmd.Args().First())
	}

	state := "off"
	if s.verbose {
		state = "on"
	}
	s.printf("Verbose %s\n", state)
	return nil
}

func (s *Shell) logAction(context.Context, *cli.Command) error {
	return s.session.PlaybackLogs(logging.SetupHandlerText("debug", s.out))
}

func (s *Shell) printMachine() {
	d := s.settings.Display
	s.printf("%s", fancy.MachineView(s.Machine(), d.Width, d.LegendStep))
}
