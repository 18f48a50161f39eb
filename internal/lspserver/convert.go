package lspserver

import (
	"net/url"
	"path/filepath"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/flintlab/flint/internal/diagnostics"
	"github.com/flintlab/flint/internal/findings"
)

// UriToPath converts a file:// URI to a filesystem path. Returns ""
// for non-file URIs.
func UriToPath(uri string) string {
	if !strings.HasPrefix(uri, "file://") {
		return ""
	}
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	path, err := url.PathUnescape(u.Path)
	if err != nil {
		return ""
	}
	return filepath.FromSlash(path)
}

// PathToURI converts an absolute filesystem path to a file:// URI.
func PathToURI(absPath string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}
	return u.String()
}

func toProtocolPosition(p diagnostics.Position) protocol.Position {
	return protocol.Position{Line: uint32(p.Line), Character: uint32(p.Character)}
}

func toProtocolRange(r diagnostics.Range) protocol.Range {
	return protocol.Range{Start: toProtocolPosition(r.Start), End: toProtocolPosition(r.End)}
}

func toProtocolSeverity(s findings.Severity) protocol.DiagnosticSeverity {
	switch s {
	case findings.SeverityError:
		return protocol.DiagnosticSeverityError
	case findings.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityInformation
	}
}

// toProtocolDiagnostics converts the built diagnostics for one document
// into their wire representation. The result is never nil: publishing
// an empty slice clears previously published diagnostics.
func toProtocolDiagnostics(diags []diagnostics.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		severity := toProtocolSeverity(d.Severity)
		source := d.Source

		pd := protocol.Diagnostic{
			Range:    toProtocolRange(d.Range),
			Severity: &severity,
			Source:   &source,
			Message:  d.Message,
		}
		if d.Code != "" {
			code := protocol.IntegerOrString{Value: d.Code}
			pd.Code = &code
		}
		for _, rel := range d.Related {
			pd.RelatedInformation = append(pd.RelatedInformation, protocol.DiagnosticRelatedInformation{
				Location: protocol.Location{
					URI:   protocol.DocumentUri(PathToURI(rel.File)),
					Range: toProtocolRange(rel.Range),
				},
				Message: rel.Message,
			})
		}
		out = append(out, pd)
	}
	return out
}
