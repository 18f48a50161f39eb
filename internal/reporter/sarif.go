package reporter

import (
	"io"
	"path/filepath"
	"sort"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/flintlab/flint/internal/diagnostics"
	"github.com/flintlab/flint/internal/findings"
)

// SARIF tool information.
const (
	sarifToolName = "cppcheck"
	sarifToolURI  = "https://cppcheck.sourceforge.io/"
)

// SARIFReporter formats diagnostics as SARIF (Static Analysis Results
// Interchange Format), consumed by CI/CD systems including GitHub Code
// Scanning.
//
// See: https://docs.oasis-open.org/sarif/sarif/v2.1.0/
type SARIFReporter struct {
	writer      io.Writer
	toolVersion string
}

// NewSARIFReporter creates a new SARIF reporter.
func NewSARIFReporter(w io.Writer, toolVersion string) *SARIFReporter {
	return &SARIFReporter{writer: w, toolVersion: toolVersion}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(diags []diagnostics.Diagnostic, _ ReportMetadata) error {
	report := sarif.NewReport()

	run := sarif.NewRunWithInformationURI(sarifToolName, sarifToolURI)
	if r.toolVersion != "" {
		run.Tool.Driver.WithVersion(r.toolVersion)
	}

	// Collect unique codes and files.
	ruleSet := make(map[string]struct{})
	fileSet := make(map[string]struct{})
	for _, d := range diags {
		if d.Code != "" {
			ruleSet[d.Code] = struct{}{}
		}
		fileSet[filepath.ToSlash(d.File)] = struct{}{}
	}

	ruleCodes := make([]string, 0, len(ruleSet))
	for code := range ruleSet {
		ruleCodes = append(ruleCodes, code)
	}
	sort.Strings(ruleCodes)
	for _, code := range ruleCodes {
		run.AddRule(code)
	}

	files := make([]string, 0, len(fileSet))
	for file := range fileSet {
		files = append(files, file)
	}
	sort.Strings(files)
	for _, file := range files {
		run.AddDistinctArtifact(file)
	}

	for _, d := range SortDiagnostics(diags) {
		filePath := filepath.ToSlash(d.File)

		code := d.Code
		if code == "" {
			code = sarifToolName
		}

		// SARIF regions are 1-based.
		region := sarif.NewRegion().
			WithStartLine(d.Range.Start.Line + 1).
			WithStartColumn(d.Range.Start.Character + 1).
			WithEndLine(d.Range.End.Line + 1).
			WithEndColumn(d.Range.End.Character + 1)

		physicalLocation := sarif.NewPhysicalLocation().
			WithArtifactLocation(sarif.NewSimpleArtifactLocation(filePath)).
			WithRegion(region)

		result := sarif.NewRuleResult(code).
			WithMessage(sarif.NewTextMessage(d.Message)).
			WithLevel(severityToSARIFLevel(d.Severity)).
			WithLocations([]*sarif.Location{
				sarif.NewLocationWithPhysicalLocation(physicalLocation),
			})

		for _, rel := range d.Related {
			relLocation := sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewSimpleArtifactLocation(filepath.ToSlash(rel.File))).
				WithRegion(sarif.NewRegion().
					WithStartLine(rel.Range.Start.Line + 1).
					WithStartColumn(rel.Range.Start.Character + 1))
			result.RelatedLocations = append(result.RelatedLocations,
				sarif.NewLocationWithPhysicalLocation(relLocation).
					WithMessage(sarif.NewTextMessage(rel.Message)))
		}

		run.AddResult(result)
	}

	report.AddRun(run)
	return report.PrettyWrite(r.writer)
}

// SARIF severity levels.
const (
	sarifLevelError   = "error"
	sarifLevelWarning = "warning"
	sarifLevelNote    = "note"
)

// severityToSARIFLevel maps findings severities to SARIF levels
// ("error", "warning", "note", "none").
func severityToSARIFLevel(s findings.Severity) string {
	switch s {
	case findings.SeverityError:
		return sarifLevelError
	case findings.SeverityWarning:
		return sarifLevelWarning
	case findings.SeverityInfo:
		return sarifLevelNote
	default:
		return sarifLevelWarning
	}
}
