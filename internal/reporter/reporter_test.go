package reporter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/flintlab/flint/internal/diagnostics"
	"github.com/flintlab/flint/internal/findings"
)

func sampleDiagnostics() []diagnostics.Diagnostic {
	return []diagnostics.Diagnostic{
		{
			File: "src/main.c",
			Range: diagnostics.Range{
				Start: diagnostics.Position{Line: 4, Character: 0},
				End:   diagnostics.Position{Line: 4, Character: 18},
			},
			Severity: findings.SeverityError,
			Message:  "cppcheck: Null pointer dereference: p",
			Source:   diagnostics.SourceTag,
			Code:     "nullPointer",
			Related: []diagnostics.Related{
				{
					File: "src/main.c",
					Range: diagnostics.Range{
						Start: diagnostics.Position{Line: 2, Character: 0},
						End:   diagnostics.Position{Line: 2, Character: 1},
					},
					Message: "Assignment 'p=NULL', assigned value is 0",
				},
			},
		},
		{
			File: "src/util.c",
			Range: diagnostics.Range{
				Start: diagnostics.Position{Line: 9, Character: 7},
				End:   diagnostics.Position{Line: 9, Character: 8},
			},
			Severity: findings.SeverityWarning,
			Message:  "Variable 'x' is assigned a value that is never used.",
			Source:   diagnostics.SourceTag,
			Code:     "c11",
		},
	}
}

func TestSortDiagnostics(t *testing.T) {
	diags := []diagnostics.Diagnostic{
		{File: "b.c", Range: diagnostics.Range{Start: diagnostics.Position{Line: 1}}},
		{File: "a.c", Range: diagnostics.Range{Start: diagnostics.Position{Line: 9}}},
		{File: "a.c", Range: diagnostics.Range{Start: diagnostics.Position{Line: 2, Character: 5}}},
		{File: "a.c", Range: diagnostics.Range{Start: diagnostics.Position{Line: 2, Character: 1}}},
	}

	sorted := SortDiagnostics(diags)

	want := []struct {
		file string
		line int
		char int
	}{
		{"a.c", 2, 1},
		{"a.c", 2, 5},
		{"a.c", 9, 0},
		{"b.c", 1, 0},
	}
	for i, w := range want {
		got := sorted[i]
		if got.File != w.file || got.Range.Start.Line != w.line || got.Range.Start.Character != w.char {
			t.Errorf("sorted[%d] = %s:%d:%d, want %s:%d:%d",
				i, got.File, got.Range.Start.Line, got.Range.Start.Character, w.file, w.line, w.char)
		}
	}

	// Input must not be mutated.
	if diags[0].File != "b.c" {
		t.Error("SortDiagnostics mutated its input")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"text", FormatText, false},
		{"", FormatText, false},
		{"json", FormatJSON, false},
		{"sarif", FormatSARIF, false},
		{"github-actions", FormatGitHubActions, false},
		{"github", FormatGitHubActions, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTextReporter(t *testing.T) {
	var buf bytes.Buffer
	noColor := false
	r := NewTextReporter(&buf, &noColor)

	if err := r.Report(sampleDiagnostics(), ReportMetadata{FilesChecked: 2}); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	output := buf.String()

	// Positions are printed 1-based.
	if !strings.Contains(output, "src/main.c:5:1: error: cppcheck: Null pointer dereference: p [nullPointer]") {
		t.Errorf("missing primary diagnostic line in output:\n%s", output)
	}
	if !strings.Contains(output, "src/main.c:3: note: Assignment 'p=NULL', assigned value is 0") {
		t.Errorf("missing related note in output:\n%s", output)
	}
	if !strings.Contains(output, "src/util.c:10:8: warning:") {
		t.Errorf("missing second diagnostic in output:\n%s", output)
	}
	if !strings.Contains(output, "2 file(s) checked: 1 error(s), 1 warning(s)") {
		t.Errorf("missing summary line in output:\n%s", output)
	}
}

func TestTextReporterNoIssues(t *testing.T) {
	var buf bytes.Buffer
	noColor := false
	r := NewTextReporter(&buf, &noColor)

	if err := r.Report(nil, ReportMetadata{FilesChecked: 3}); err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if got := buf.String(); got != "3 file(s) checked: no issues found\n" {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestJSONReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONReporter(&buf)

	if err := r.Report(sampleDiagnostics(), ReportMetadata{FilesChecked: 2, ToolVersion: "2.13.0"}); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	var out JSONOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if out.Summary.Total != 2 || out.Summary.Errors != 1 || out.Summary.Warnings != 1 {
		t.Errorf("unexpected summary: %+v", out.Summary)
	}
	if out.FilesChecked != 2 {
		t.Errorf("FilesChecked = %d, want 2", out.FilesChecked)
	}
	if out.ToolVersion != "2.13.0" {
		t.Errorf("ToolVersion = %q, want 2.13.0", out.ToolVersion)
	}
	if len(out.Files) != 2 {
		t.Fatalf("expected 2 file groups, got %d", len(out.Files))
	}
	if out.Files[0].File != "src/main.c" {
		t.Errorf("first file group = %q, want src/main.c", out.Files[0].File)
	}
	if len(out.Files[0].Diagnostics) != 1 {
		t.Errorf("expected 1 diagnostic for src/main.c, got %d", len(out.Files[0].Diagnostics))
	}
}

func TestSARIFReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewSARIFReporter(&buf, "2.13.0")

	if err := r.Report(sampleDiagnostics(), ReportMetadata{}); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if doc["version"] != "2.1.0" {
		t.Errorf("SARIF version = %v, want 2.1.0", doc["version"])
	}

	output := buf.String()
	for _, want := range []string{
		`"cppcheck"`,
		`"2.13.0"`,
		`"nullPointer"`,
		"src/main.c",
		"https://cppcheck.sourceforge.io/",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("SARIF output missing %s:\n%s", want, output)
		}
	}
	// Related locations carry the trace notes.
	if !strings.Contains(output, "relatedLocations") {
		t.Errorf("SARIF output missing related locations:\n%s", output)
	}
}

func TestGitHubActionsReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewGitHubActionsReporter(&buf)

	if err := r.Report(sampleDiagnostics(), ReportMetadata{}); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 annotation lines, got %d: %q", len(lines), buf.String())
	}

	if !strings.HasPrefix(lines[0], "::error ") {
		t.Errorf("expected error annotation first, got: %s", lines[0])
	}
	for _, want := range []string{"file=src/main.c", "line=5", "col=1", "title=nullPointer"} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("expected %s in: %s", want, lines[0])
		}
	}
	if !strings.HasPrefix(lines[1], "::warning ") {
		t.Errorf("expected warning annotation second, got: %s", lines[1])
	}
}

func TestGitHubActionsEscaping(t *testing.T) {
	var buf bytes.Buffer
	r := NewGitHubActionsReporter(&buf)

	diags := []diagnostics.Diagnostic{{
		File:     "dir/file.c",
		Severity: findings.SeverityInfo,
		Message:  "line one\nline two, 100% sure",
	}}
	if err := r.Report(diags, ReportMetadata{}); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	output := buf.String()
	if !strings.HasPrefix(output, "::notice ") {
		t.Errorf("expected notice level, got: %s", output)
	}
	if !strings.Contains(output, "line one%0Aline two, 100%25 sure") {
		t.Errorf("message not escaped: %s", output)
	}
	if strings.Count(output, "\n") != 1 {
		t.Errorf("escaped newline leaked into output: %q", output)
	}
}

func TestNewReporterFactory(t *testing.T) {
	var buf bytes.Buffer
	for _, format := range []Format{FormatText, FormatJSON, FormatSARIF, FormatGitHubActions} {
		r, err := New(Options{Format: format, Writer: &buf})
		if err != nil {
			t.Errorf("New(%q) error = %v", format, err)
		}
		if r == nil {
			t.Errorf("New(%q) returned nil reporter", format)
		}
	}
	if _, err := New(Options{Format: "bogus", Writer: &buf}); err == nil {
		t.Error("New with unknown format should fail")
	}
}
