package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atlanticdynamic/tms/internal/fancy"
	"github.com/atlanticdynamic/tms/internal/reader"
	"github.com/urfave/cli/v3"
)

func (a *app) checkCmd() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Aliases:   []string{"lint"},
		Usage:     "Read program files and report every syntax error without running them",
		ArgsUsage: "PROGRAM...",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "tree",
				Aliases: []string{"t"},
				Usage:   "Show a tree of each valid machine",
			},
		},
		Action: a.checkAction,
	}
}

func (a *app) checkAction(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() < 1 {
		return cli.Exit("at least one program file is required", exitUsage)
	}

	out := cmd.Root().Writer
	logger := slog.New(a.handler)

	failed := 0
	for _, path := range cmd.Args().Slice() {
		r := reader.New(path, reader.WithLogger(logger))
		r.Read()

		if !r.Success() {
			failed++
			_, _ = fmt.Fprint(cmd.Root().ErrWriter, fancy.Diagnostics(r.Diagnostics()))
			continue
		}

		m := r.BuildMachine()
		if cmd.Bool("tree") {
			_, _ = fmt.Fprintln(out, fancy.MachineTree(path, m))
			continue
		}
		_, _ = fmt.Fprintf(out, "%s %s: %s rules, %s states\n",
			fancy.ValidText("ok"),
			fancy.PathText(path),
			fancy.CountText(fmt.Sprint(len(m.Rules()))),
			fancy.CountText(fmt.Sprint(len(m.AllStates()))))
	}

	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d program(s) have errors", failed, cmd.Args().Len()), exitFailure)
	}
	return nil
}
