package reporter

import (
	"encoding/json"
	"io"
	"path/filepath"

	"github.com/flintlab/flint/internal/diagnostics"
	"github.com/flintlab/flint/internal/findings"
)

// JSONOutput is the top-level structure for JSON output.
type JSONOutput struct {
	// Files contains results grouped by file.
	Files []FileResult `json:"files"`
	// Summary contains aggregate statistics.
	Summary Summary `json:"summary"`
	// FilesChecked is the number of files analyzed.
	FilesChecked int `json:"files_checked"`
	// ToolVersion is the probed cppcheck version, when known.
	ToolVersion string `json:"tool_version,omitempty"`
}

// FileResult contains the diagnostics for a single file.
type FileResult struct {
	File        string                   `json:"file"`
	Diagnostics []diagnostics.Diagnostic `json:"diagnostics"`
}

// Summary contains aggregate statistics.
type Summary struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
	Files    int `json:"files"`
}

// JSONReporter formats diagnostics as JSON output.
type JSONReporter struct {
	writer io.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

// Report implements Reporter.
func (r *JSONReporter) Report(diags []diagnostics.Diagnostic, metadata ReportMetadata) error {
	// Group by file in deterministic order, paths normalized to
	// forward slashes for cross-platform consistency.
	byFile := make(map[string][]diagnostics.Diagnostic)
	filesOrder := make([]string, 0)

	for _, d := range SortDiagnostics(diags) {
		d.File = filepath.ToSlash(d.File)
		if _, exists := byFile[d.File]; !exists {
			filesOrder = append(filesOrder, d.File)
		}
		byFile[d.File] = append(byFile[d.File], d)
	}

	output := JSONOutput{
		Files:        make([]FileResult, 0, len(filesOrder)),
		Summary:      calculateSummary(diags, len(filesOrder)),
		FilesChecked: metadata.FilesChecked,
		ToolVersion:  metadata.ToolVersion,
	}
	for _, file := range filesOrder {
		output.Files = append(output.Files, FileResult{
			File:        file,
			Diagnostics: byFile[file],
		})
	}

	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func calculateSummary(diags []diagnostics.Diagnostic, fileCount int) Summary {
	summary := Summary{
		Total: len(diags),
		Files: fileCount,
	}
	for _, d := range diags {
		switch d.Severity {
		case findings.SeverityError:
			summary.Errors++
		case findings.SeverityWarning:
			summary.Warnings++
		case findings.SeverityInfo:
			summary.Info++
		}
	}
	return summary
}
