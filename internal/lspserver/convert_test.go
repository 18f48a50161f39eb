package lspserver

import (
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/flintlab/flint/internal/diagnostics"
	"github.com/flintlab/flint/internal/findings"
)

func TestUriToPath(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"file:///tmp/a.c", "/tmp/a.c"},
		{"file:///home/dev/my%20project/main.cpp", "/home/dev/my project/main.cpp"},
		{"untitled:Untitled-1", ""},
		{"https://example.com/a.c", ""},
	}
	for _, tt := range tests {
		if got := UriToPath(tt.uri); got != tt.want {
			t.Errorf("UriToPath(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}

func TestPathToURIRoundTrip(t *testing.T) {
	path := "/tmp/sub dir/a.c"
	if got := UriToPath(PathToURI(path)); got != path {
		t.Errorf("round trip = %q, want %q", got, path)
	}
}

func TestToProtocolDiagnostics(t *testing.T) {
	diags := []diagnostics.Diagnostic{
		{
			File: "/tmp/a.c",
			Range: diagnostics.Range{
				Start: diagnostics.Position{Line: 4, Character: 0},
				End:   diagnostics.Position{Line: 4, Character: 10},
			},
			Severity: findings.SeverityError,
			Message:  "cppcheck: Null pointer dereference: p",
			Source:   diagnostics.SourceTag,
			Code:     "nullPointer",
			Related: []diagnostics.Related{
				{
					File: "/tmp/a.c",
					Range: diagnostics.Range{
						Start: diagnostics.Position{Line: 2, Character: 0},
						End:   diagnostics.Position{Line: 2, Character: 1},
					},
					Message: "Assignment 'p=NULL', assigned value is 0",
				},
			},
		},
	}

	out := toProtocolDiagnostics(diags)
	if len(out) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(out))
	}

	d := out[0]
	if d.Range.Start.Line != 4 || d.Range.End.Character != 10 {
		t.Errorf("unexpected range: %+v", d.Range)
	}
	if d.Severity == nil || *d.Severity != protocol.DiagnosticSeverityError {
		t.Errorf("unexpected severity: %v", d.Severity)
	}
	if d.Source == nil || *d.Source != "cppcheck" {
		t.Errorf("unexpected source: %v", d.Source)
	}
	if d.Code == nil || d.Code.Value != "nullPointer" {
		t.Errorf("unexpected code: %v", d.Code)
	}
	if len(d.RelatedInformation) != 1 {
		t.Fatalf("got %d related, want 1", len(d.RelatedInformation))
	}
	rel := d.RelatedInformation[0]
	if rel.Message != "Assignment 'p=NULL', assigned value is 0" {
		t.Errorf("unexpected related message: %q", rel.Message)
	}
	if string(rel.Location.URI) != "file:///tmp/a.c" {
		t.Errorf("unexpected related URI: %q", rel.Location.URI)
	}
}

func TestToProtocolSeverityMapping(t *testing.T) {
	tests := []struct {
		in   findings.Severity
		want protocol.DiagnosticSeverity
	}{
		{findings.SeverityError, protocol.DiagnosticSeverityError},
		{findings.SeverityWarning, protocol.DiagnosticSeverityWarning},
		{findings.SeverityInfo, protocol.DiagnosticSeverityInformation},
	}
	for _, tt := range tests {
		if got := toProtocolSeverity(tt.in); got != tt.want {
			t.Errorf("toProtocolSeverity(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestToProtocolDiagnosticsEmptyNotNil(t *testing.T) {
	// Publishing nil would not clear diagnostics in some clients; the
	// wire payload must be an empty array.
	if got := toProtocolDiagnostics(nil); got == nil {
		t.Error("toProtocolDiagnostics(nil) must return an empty slice, not nil")
	}
}
