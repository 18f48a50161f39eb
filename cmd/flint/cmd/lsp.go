package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"github.com/urfave/cli/v3"

	"github.com/flintlab/flint/internal/lspserver"
	"github.com/flintlab/flint/internal/version"
)

func lspCommand() *cli.Command {
	return &cli.Command{
		Name:  "lsp",
		Usage: "Start the Language Server Protocol server",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "stdio",
				Usage: "Use stdin/stdout for communication (required)",
				Value: true,
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default: auto-discover per workspace)",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Write server logs to a file instead of stderr",
			},
			&cli.IntFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log verbosity (0-2)",
				Value:   1,
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if !cmd.Bool("stdio") {
				fmt.Fprintln(os.Stderr, "Error: only --stdio transport is supported")
				return cli.Exit("", ExitConfigError)
			}

			// stdout carries the protocol; logs must go elsewhere.
			var logPath *string
			if p := cmd.String("log-file"); p != "" {
				logPath = &p
			}
			commonlog.Configure(int(cmd.Int("verbose")), logPath)

			cfg, err := loadConfig(cmd, ".")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
				return cli.Exit("", ExitConfigError)
			}

			return lspserver.New(cfg, version.RawVersion()).RunStdio()
		},
	}
}
