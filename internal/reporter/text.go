package reporter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/flintlab/flint/internal/diagnostics"
	"github.com/flintlab/flint/internal/findings"
)

// Styles for different parts of the output
var (
	fileLocStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")) // Light gray

	codeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")) // Gray

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // Dark gray

	severityStyles = map[findings.Severity]lipgloss.Style{
		findings.SeverityError: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red
		findings.SeverityWarning: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")), // Orange
		findings.SeverityInfo: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")), // Blue
	}
)

// TextReporter formats diagnostics as styled terminal output.
type TextReporter struct {
	writer io.Writer
	color  bool
}

// NewTextReporter creates a text reporter. color nil means auto-detect
// (termenv profile plus a TTY check, respecting NO_COLOR).
func NewTextReporter(w io.Writer, color *bool) *TextReporter {
	enabled := termenv.EnvColorProfile() != termenv.Ascii
	if f, ok := w.(*os.File); ok {
		enabled = enabled && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
	}
	if color != nil {
		enabled = *color
	}
	return &TextReporter{writer: w, color: enabled}
}

// Report implements Reporter.
func (r *TextReporter) Report(diags []diagnostics.Diagnostic, metadata ReportMetadata) error {
	for _, d := range SortDiagnostics(diags) {
		if err := r.printDiagnostic(d); err != nil {
			return err
		}
	}
	return r.printSummary(diags, metadata)
}

// printDiagnostic writes one finding in the familiar
// file:line:col: severity: message shape, with trace notes indented.
func (r *TextReporter) printDiagnostic(d diagnostics.Diagnostic) error {
	loc := fmt.Sprintf("%s:%d:%d:", d.File, d.Range.Start.Line+1, d.Range.Start.Character+1)
	sev := d.Severity.String()
	code := ""
	if d.Code != "" {
		code = " [" + d.Code + "]"
	}

	if r.color {
		loc = fileLocStyle.Render(loc)
		sev = severityStyles[d.Severity].Render(sev)
		if code != "" {
			code = " " + codeStyle.Render("["+d.Code+"]")
		}
	}

	if _, err := fmt.Fprintf(r.writer, "%s %s: %s%s\n", loc, sev, d.Message, code); err != nil {
		return err
	}

	for _, rel := range d.Related {
		note := fmt.Sprintf("  %s:%d: note: %s", rel.File, rel.Range.Start.Line+1, rel.Message)
		if r.color {
			note = noteStyle.Render(note)
		}
		if _, err := fmt.Fprintln(r.writer, note); err != nil {
			return err
		}
	}
	return nil
}

func (r *TextReporter) printSummary(diags []diagnostics.Diagnostic, metadata ReportMetadata) error {
	if len(diags) == 0 {
		_, err := fmt.Fprintf(r.writer, "%d file(s) checked: no issues found\n", metadata.FilesChecked)
		return err
	}

	var errors, warnings, infos int
	for _, d := range diags {
		switch d.Severity {
		case findings.SeverityError:
			errors++
		case findings.SeverityWarning:
			warnings++
		case findings.SeverityInfo:
			infos++
		}
	}

	parts := make([]string, 0, 3)
	if errors > 0 {
		parts = append(parts, fmt.Sprintf("%d error(s)", errors))
	}
	if warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d warning(s)", warnings))
	}
	if infos > 0 {
		parts = append(parts, fmt.Sprintf("%d info", infos))
	}

	_, err := fmt.Fprintf(r.writer, "\n%d file(s) checked: %s\n",
		metadata.FilesChecked, strings.Join(parts, ", "))
	return err
}
