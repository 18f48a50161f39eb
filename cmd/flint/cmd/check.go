package cmd

import (
	stdcontext "context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/flintlab/flint/internal/config"
	"github.com/flintlab/flint/internal/cppcheck"
	"github.com/flintlab/flint/internal/diagnostics"
	"github.com/flintlab/flint/internal/findings"
	"github.com/flintlab/flint/internal/reporter"
)

// Exit codes
const (
	ExitSuccess     = 0 // No findings (or below fail-level threshold)
	ExitFindings    = 1 // Findings at or above fail-level
	ExitConfigError = 2 // Config error, or cppcheck missing/crashed/unreadable
	ExitNoFiles     = 3 // No input files given
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Run cppcheck on C/C++ source file(s)",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default: auto-discover)",
			},
			&cli.StringFlag{
				Name:    "tool",
				Usage:   "cppcheck executable path",
				Sources: cli.EnvVars("FLINT_TOOL_PATH"),
			},
			&cli.StringFlag{
				Name:    "tool-args",
				Usage:   "Extra arguments passed to cppcheck (space-separated)",
				Sources: cli.EnvVars("FLINT_TOOL_ARGS"),
			},
			&cli.StringFlag{
				Name:    "mode",
				Usage:   "Invocation mode: auto, xml, text",
				Sources: cli.EnvVars("FLINT_MODE"),
			},
			&cli.StringFlag{
				Name:    "min-severity",
				Usage:   "Minimum severity to report: error, warning, info",
				Sources: cli.EnvVars("FLINT_MIN_SEVERITY"),
			},
			&cli.StringFlag{
				Name:    "std",
				Usage:   "Language standard passed to cppcheck (e.g. c11, c++17)",
				Sources: cli.EnvVars("FLINT_STANDARD"),
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, sarif, github-actions",
				Sources: cli.EnvVars("FLINT_OUTPUT_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output path: stdout, stderr, or file path",
				Sources: cli.EnvVars("FLINT_OUTPUT_PATH"),
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Usage:   "Disable colored output",
				Sources: cli.EnvVars("NO_COLOR"),
			},
			&cli.StringFlag{
				Name:    "fail-level",
				Usage:   "Minimum severity to cause non-zero exit: error, warning, info, none",
				Sources: cli.EnvVars("FLINT_OUTPUT_FAIL_LEVEL"),
			},
		},
		Action: runCheck,
	}
}

// runCheck is the action handler for the check command.
func runCheck(ctx stdcontext.Context, cmd *cli.Command) error {
	files := cmd.Args().Slice()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input files")
		return cli.Exit("", ExitNoFiles)
	}

	cfg, err := loadConfig(cmd, files[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	if !cfg.Enabled {
		fmt.Fprintln(os.Stderr, "flint is disabled by configuration")
		return nil
	}

	runner := cppcheck.NewRunner(cppcheck.WithPath(cfg.Tool.Path))

	toolVersion, err := runner.Probe(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	strategy := cppcheck.StrategyFor(cfg.ModeValue())
	_, structured := strategy.(cppcheck.XMLStrategy)
	builder := diagnostics.Builder{
		MinSeverity: cfg.MinSeverityLevel(),
		Standard:    cfg.StandardOrEmpty(),
		Structured:  structured,
	}

	// The workspace root anchors relative --project= paths; the config
	// file location is the best stand-in outside an editor session.
	workspaceRoot := ""
	if cfg.ConfigFile != "" {
		workspaceRoot = filepath.Dir(cfg.ConfigFile)
	}
	inv := cfg.Invocation(workspaceRoot)

	var allDiags []diagnostics.Diagnostic
	for _, file := range files {
		diags, err := checkFile(ctx, runner, strategy, builder, inv, file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to check %s: %v\n", file, err)
			return cli.Exit("", ExitConfigError)
		}
		allDiags = append(allDiags, diags...)
	}

	if err := writeReport(cmd, cfg, allDiags, len(files), toolVersion); err != nil {
		return err
	}

	failLevel := cfg.Output.FailLevel
	if cmd.IsSet("fail-level") {
		failLevel = cmd.String("fail-level")
	}
	exitCode := determineExitCode(allDiags, failLevel)
	if exitCode != ExitSuccess {
		return cli.Exit("", exitCode)
	}
	return nil
}

// checkFile runs cppcheck on one file and maps the findings onto its
// current on-disk content.
func checkFile(
	ctx stdcontext.Context, runner *cppcheck.Runner, strategy cppcheck.Strategy,
	builder diagnostics.Builder, inv cppcheck.Invocation, file string,
) ([]diagnostics.Diagnostic, error) {
	source, err := os.ReadFile(file) //nolint:gosec // Paths come from the command line.
	if err != nil {
		return nil, err
	}

	res, err := runner.Run(ctx, filepath.Dir(file), strategy.Args(inv, file)...)
	if err != nil {
		return nil, err
	}

	fs, err := strategy.Parse(res)
	if err != nil {
		return nil, err
	}

	return builder.Build(diagnostics.NewTextDocument(string(source)), fs), nil
}

// loadConfig loads configuration for a target path, applying CLI flag
// overrides.
func loadConfig(cmd *cli.Command, targetPath string) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if configPath := cmd.String("config"); configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load(targetPath)
	}
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("tool") {
		cfg.Tool.Path = cmd.String("tool")
	}
	if cmd.IsSet("tool-args") {
		cfg.Tool.Args = cmd.String("tool-args")
	}
	if cmd.IsSet("mode") {
		cfg.Mode = cmd.String("mode")
	}
	if cmd.IsSet("min-severity") {
		cfg.MinSeverity = cmd.String("min-severity")
	}
	if cmd.IsSet("std") {
		cfg.Standard = cmd.String("std")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// writeReport formats and writes the diagnostics report.
func writeReport(
	cmd *cli.Command, cfg *config.Config, diags []diagnostics.Diagnostic,
	filesChecked int, toolVersion string,
) error {
	format := cfg.Output.Format
	if cmd.IsSet("format") {
		format = cmd.String("format")
	}
	formatType, err := reporter.ParseFormat(format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	outputPath := cfg.Output.Path
	if cmd.IsSet("output") {
		outputPath = cmd.String("output")
	}
	writer, closeWriter, err := reporter.GetWriter(outputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}
	defer func() {
		if err := closeWriter(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close output: %v\n", err)
		}
	}()

	opts := reporter.Options{
		Format:      formatType,
		Writer:      writer,
		ToolVersion: toolVersion,
	}
	if cmd.IsSet("no-color") && cmd.Bool("no-color") {
		noColor := false
		opts.Color = &noColor
	}

	rep, err := reporter.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create reporter: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	if err := rep.Report(diags, reporter.ReportMetadata{
		FilesChecked: filesChecked,
		ToolVersion:  toolVersion,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to write output: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}
	return nil
}

// determineExitCode returns the exit code implied by the diagnostics
// and the fail-level threshold.
func determineExitCode(diags []diagnostics.Diagnostic, failLevel string) int {
	// "none" means never fail due to findings.
	if failLevel == "none" {
		return ExitSuccess
	}

	threshold, err := findings.ParseSeverity(failLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid fail-level %q\n", failLevel)
		return ExitConfigError
	}

	for _, d := range diags {
		if d.Severity.IsAtLeast(threshold) {
			return ExitFindings
		}
	}
	return ExitSuccess
}
