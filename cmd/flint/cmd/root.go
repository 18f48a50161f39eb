package cmd

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/flintlab/flint/internal/version"
)

// NewApp creates the CLI application
func NewApp() *cli.Command {
	return &cli.Command{
		Name:    "flint",
		Usage:   "A cppcheck front-end for the terminal and the editor",
		Version: version.Version(),
		Description: `flint runs cppcheck on C and C++ sources and turns its output into
diagnostics, either on the command line or through a language server.

Examples:
  flint check main.c
  flint check --format sarif --output report.sarif src/*.cpp
  flint lsp`,
		Commands: []*cli.Command{
			checkCommand(),
			lspCommand(),
			versionCommand(),
		},
	}
}

// Execute runs the CLI application
func Execute() error {
	return NewApp().Run(context.Background(), os.Args)
}
