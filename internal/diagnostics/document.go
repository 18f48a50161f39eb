package diagnostics

import "strings"

// Document is the read-only view of a document the builder binds
// diagnostics against: a line count and per-line text.
type Document interface {
	// LineCount returns the number of lines in the document.
	LineCount() int
	// Line returns the text of the 0-based line index, without the
	// trailing newline. Out-of-range indexes return "".
	Line(i int) string
}

// TextDocument is a string-backed Document. It is the snapshot a run is
// built against; editing the source text after the snapshot does not
// affect an in-flight run.
type TextDocument struct {
	lines []string
}

// NewTextDocument splits text into lines. Both LF and CRLF endings are
// handled; an empty text still has one (empty) line, matching editor
// line counting.
func NewTextDocument(text string) *TextDocument {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return &TextDocument{lines: strings.Split(text, "\n")}
}

// LineCount implements Document.
func (d *TextDocument) LineCount() int {
	return len(d.lines)
}

// Line implements Document.
func (d *TextDocument) Line(i int) string {
	if i < 0 || i >= len(d.lines) {
		return ""
	}
	return d.lines[i]
}
