// Command tms simulates single-tape Turing machines. With a program file it
// runs the machine to halt and prints the tape; without one it starts an
// interactive shell.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	cmd := newApp(os.Stdout, os.Stderr)
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode prints err unless it is a silent cli.Exit, and returns the
// process exit code for it.
func exitCode(err error) int {
	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		if msg := coder.Error(); msg != "" {
			fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
		}
		return coder.ExitCode()
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}
