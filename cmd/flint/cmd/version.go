package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/flintlab/flint/internal/cppcheck"
	"github.com/flintlab/flint/internal/version"
)

// versionInfo extends the build details with the probed tool version.
type versionInfo struct {
	version.Info
	Cppcheck string `json:"cppcheck,omitempty"`
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output version information as JSON",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			// A missing tool is still worth reporting here, not fatal.
			toolVersion, _ := cppcheck.NewRunner().Probe(ctx)

			if cmd.Bool("json") {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(versionInfo{Info: version.GetInfo(), Cppcheck: toolVersion})
			}

			fmt.Printf("flint version %s\n", version.Version())
			if toolVersion != "" {
				fmt.Println(toolVersion)
			} else {
				fmt.Println("cppcheck: not found")
			}
			return nil
		},
	}
}
