// Package main is the entry point for the duplifolder CLI.
package main

import (
	"os"

	"github.com/thoreinstein/duplifolder/cmd/duplifolder/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(commands.ExitCode(err))
	}
}
