// Package main is the entry point for the backlog CLI application.
package main

import (
	"fmt"
	"os"

	"github.com/danielolaszy/backlog/cmd"
	"github.com/danielolaszy/backlog/internal/logging"
)

var version = "dev"

func main() {
	logging.Debug("starting backlog cli", "version", version)

	if err := cmd.Execute(); err != nil {
		logging.Error("command execution failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
