package diagnostics

import (
	"log/slog"

	"github.com/flintlab/flint/internal/findings"
)

// Builder maps findings onto a document, dropping out-of-range lines,
// clamping columns, and filtering by severity threshold. The
// minimum-severity filter applies in both output modes.
type Builder struct {
	// MinSeverity is the configured threshold; findings strictly below
	// it are discarded.
	MinSeverity findings.Severity

	// Standard is the active language standard, used as the diagnostic
	// code in text mode. Empty when no standard is configured.
	Standard string

	// Structured marks findings from XML output: full-line ranges,
	// message prefixed with the source tag, related information from
	// the location trace. Text-mode findings get column handling and
	// no related information.
	Structured bool

	// Logger receives drop decisions at debug level. Nil is silent.
	Logger *slog.Logger
}

// Build projects findings into diagnostics, in encounter order. The
// returned slice is the complete set for one run; callers replace any
// prior set atomically rather than merging.
func (b Builder) Build(doc Document, fs []findings.Finding) []Diagnostic {
	diags := make([]Diagnostic, 0, len(fs))
	for _, f := range fs {
		if d, ok := b.build(doc, f); ok {
			diags = append(diags, d)
		}
	}
	return diags
}

func (b Builder) build(doc Document, f findings.Finding) (Diagnostic, bool) {
	line := f.Location.Line - 1
	if line < 0 || line >= doc.LineCount() {
		// Stale or cross-file reference; drop the finding, keep the run.
		b.logDrop(f, "line out of range")
		return Diagnostic{}, false
	}

	if !f.Severity.IsAtLeast(b.MinSeverity) {
		return Diagnostic{}, false
	}

	d := Diagnostic{
		File:     f.Location.File,
		Severity: f.Severity,
		Message:  f.Message,
		Source:   SourceTag,
	}

	lineText := doc.Line(line)
	if b.Structured {
		d.Range = fullLineRange(line, lineText)
		d.Message = SourceTag + ": " + f.Message
		d.Code = f.ID
		d.Related = b.relatedInfo(doc, f)
	} else {
		d.Range = columnRange(line, lineText, f.Location.Column)
		d.Code = b.Standard
	}
	return d, true
}

// relatedInfo collects trace locations carrying a note, primary
// included, in original order. Locations outside the document's line
// count are discarded like primary locations are.
func (b Builder) relatedInfo(doc Document, f findings.Finding) []Related {
	var related []Related
	for _, loc := range f.Trace {
		if loc.Note == "" {
			continue
		}
		line := loc.Line - 1
		if line < 0 || line >= doc.LineCount() {
			continue
		}
		related = append(related, Related{
			File:    loc.File,
			Range:   fullLineRange(line, doc.Line(line)),
			Message: loc.Note,
		})
	}
	return related
}

// fullLineRange spans the whole line text; structured locations carry
// no column.
func fullLineRange(line int, lineText string) Range {
	return Range{
		Start: Position{Line: line, Character: 0},
		End:   Position{Line: line, Character: len(lineText)},
	}
}

// columnRange clamps a text-mode column into the line and highlights at
// least one character.
func columnRange(line int, lineText string, column int) Range {
	col := column
	if last := len(lineText) - 1; col > last {
		col = last
	}
	if col < 0 {
		col = 0
	}
	end := min(len(lineText), col+1)
	if end <= col {
		end = col + 1
	}
	return Range{
		Start: Position{Line: line, Character: col},
		End:   Position{Line: line, Character: end},
	}
}

func (b Builder) logDrop(f findings.Finding, reason string) {
	if b.Logger == nil {
		return
	}
	b.Logger.Debug("dropped finding",
		"reason", reason,
		"file", f.Location.File,
		"line", f.Location.Line,
		"id", f.ID)
}
