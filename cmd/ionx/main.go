// Package main is the entry point for the ionx CLI.
package main

import (
	"os"

	"github.com/thoreinstein/ionx/cmd/ionx/commands"
	"github.com/thoreinstein/ionx/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(errors.ExitCode(err))
	}
}
