// Package main is the entry point for the dialctl CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/quantresi/dialctl/cmd/dialctl/commands"
	dialerrors "github.com/quantresi/dialctl/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		var exitErr *dialerrors.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Suggestion != "" {
				fmt.Fprintln(os.Stderr, exitErr.Suggestion)
			}
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
