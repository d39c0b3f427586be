// Package main is the entry point for the ptask CLI.
package main

import (
	"os"

	"github.com/thoreinstein/ptask/cmd/ptask/commands"
	"github.com/thoreinstein/ptask/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		commands.PrintError(os.Stderr, err)
		os.Exit(errors.ExitCode(err))
	}
}
