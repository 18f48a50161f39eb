// Package reporter provides output formatters for analysis results.
//
// The package supports multiple output formats:
//   - text: Human-readable terminal output with colors
//   - json: Machine-readable JSON output
//   - sarif: Static Analysis Results Interchange Format for CI/CD integration
//   - github-actions: Native GitHub Actions workflow annotations
package reporter

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/flintlab/flint/internal/diagnostics"
)

// ReportMetadata contains contextual information about the run.
type ReportMetadata struct {
	// FilesChecked is the number of files that were analyzed.
	FilesChecked int
	// ToolVersion is the probed cppcheck version string.
	ToolVersion string
}

// Reporter formats and outputs diagnostics.
type Reporter interface {
	// Report writes diagnostics to the configured output.
	Report(diags []diagnostics.Diagnostic, metadata ReportMetadata) error
}

// SortDiagnostics sorts diagnostics by file, line, column, and code for
// stable output.
func SortDiagnostics(diags []diagnostics.Diagnostic) []diagnostics.Diagnostic {
	sorted := make([]diagnostics.Diagnostic, len(diags))
	copy(sorted, diags)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].File != sorted[j].File {
			return sorted[i].File < sorted[j].File
		}
		if sorted[i].Range.Start.Line != sorted[j].Range.Start.Line {
			return sorted[i].Range.Start.Line < sorted[j].Range.Start.Line
		}
		if sorted[i].Range.Start.Character != sorted[j].Range.Start.Character {
			return sorted[i].Range.Start.Character < sorted[j].Range.Start.Character
		}
		return sorted[i].Code < sorted[j].Code
	})
	return sorted
}

// Format represents an output format type.
type Format string

const (
	// FormatText is human-readable terminal output.
	FormatText Format = "text"
	// FormatJSON is machine-readable JSON output.
	FormatJSON Format = "json"
	// FormatSARIF is Static Analysis Results Interchange Format.
	FormatSARIF Format = "sarif"
	// FormatGitHubActions is GitHub Actions workflow command output.
	FormatGitHubActions Format = "github-actions"
)

// ParseFormat parses a format string into a Format type.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "sarif":
		return FormatSARIF, nil
	case "github-actions", "github":
		return FormatGitHubActions, nil
	default:
		return "", fmt.Errorf("unknown format: %q (valid: text, json, sarif, github-actions)", s)
	}
}

// Options configures reporter creation.
type Options struct {
	// Format specifies the output format.
	Format Format

	// Writer is the output destination.
	Writer io.Writer

	// Color enables/disables colored output (text format only).
	// nil means auto-detect.
	Color *bool

	// ToolVersion is included in SARIF output.
	ToolVersion string
}

// New creates a reporter for the format specified in options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	switch opts.Format {
	case FormatText, "":
		return NewTextReporter(opts.Writer, opts.Color), nil
	case FormatJSON:
		return NewJSONReporter(opts.Writer), nil
	case FormatSARIF:
		return NewSARIFReporter(opts.Writer, opts.ToolVersion), nil
	case FormatGitHubActions:
		return NewGitHubActionsReporter(opts.Writer), nil
	default:
		return nil, fmt.Errorf("unknown format: %q", opts.Format)
	}
}

// GetWriter returns an io.Writer for the given output path. Supports
// "stdout", "stderr", or file paths.
func GetWriter(path string) (io.Writer, func() error, error) {
	switch path {
	case "stdout", "":
		return os.Stdout, func() error { return nil }, nil
	case "stderr":
		return os.Stderr, func() error { return nil }, nil
	default:
		f, err := os.Create(path) //nolint:gosec // Path is explicit user configuration.
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create output file: %w", err)
		}
		return f, f.Close, nil
	}
}
