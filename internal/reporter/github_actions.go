package reporter

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/flintlab/flint/internal/diagnostics"
	"github.com/flintlab/flint/internal/findings"
)

// GitHubActionsReporter formats diagnostics as GitHub Actions workflow
// commands, which appear as annotations in the Actions UI.
//
// Format: ::{level} file={file},line={line},col={col}::{message}
//
// See: https://docs.github.com/actions/using-workflows/workflow-commands-for-github-actions#setting-an-error-message
type GitHubActionsReporter struct {
	writer io.Writer
}

// NewGitHubActionsReporter creates a new GitHub Actions reporter.
func NewGitHubActionsReporter(w io.Writer) *GitHubActionsReporter {
	return &GitHubActionsReporter{writer: w}
}

// Report implements Reporter.
func (r *GitHubActionsReporter) Report(diags []diagnostics.Diagnostic, _ ReportMetadata) error {
	for _, d := range SortDiagnostics(diags) {
		level := severityToGitHubLevel(d.Severity)

		parts := []string{
			"file=" + escapeGitHubProperty(filepath.ToSlash(d.File)),
			fmt.Sprintf("line=%d", d.Range.Start.Line+1),
			fmt.Sprintf("col=%d", d.Range.Start.Character+1),
		}
		if title := d.Code; title != "" {
			parts = append(parts, "title="+escapeGitHubProperty(title))
		}

		if _, err := fmt.Fprintf(r.writer, "::%s %s::%s\n",
			level,
			strings.Join(parts, ","),
			escapeGitHubMessage(d.Message)); err != nil {
			return err
		}
	}
	return nil
}

func severityToGitHubLevel(s findings.Severity) string {
	switch s {
	case findings.SeverityError:
		return "error"
	case findings.SeverityWarning:
		return "warning"
	default:
		return "notice"
	}
}

// escapeGitHubProperty escapes property values in workflow commands.
func escapeGitHubProperty(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	s = strings.ReplaceAll(s, ":", "%3A")
	s = strings.ReplaceAll(s, ",", "%2C")
	return s
}

// escapeGitHubMessage escapes message text in workflow commands.
func escapeGitHubMessage(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}
