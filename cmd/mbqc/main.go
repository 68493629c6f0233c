// Command mbqc lowers measurement-based quantum computing patterns to
// gate-level targets.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/mbqc/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Subcommands silence cobra's error printing and return ExitError;
		// anything else (flag parsing, unknown command) cobra already printed.
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
