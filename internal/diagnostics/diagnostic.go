// Package diagnostics projects normalized cppcheck findings onto a
// document, producing location-bound diagnostics ready for an editor or
// a CLI reporter.
package diagnostics

import "github.com/flintlab/flint/internal/findings"

// SourceTag identifies the tool behind every diagnostic.
const SourceTag = "cppcheck"

// Position is a 0-based line/character point, LSP-style.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a 0-based, end-exclusive span within a document.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Related pairs a secondary location with its explanation note. Used for
// cppcheck's multi-step traces (e.g. data-flow chains ending in the
// reported defect).
type Related struct {
	File    string `json:"file"`
	Range   Range  `json:"range"`
	Message string `json:"message"`
}

// Diagnostic is one issue bound to a document range. Diagnostics live
// for a single analysis run: the next run's set fully replaces them.
type Diagnostic struct {
	// File is the path the finding was reported against.
	File string `json:"file"`

	// Range is the highlighted span, 0-based.
	Range Range `json:"range"`

	// Severity is the classified severity level.
	Severity findings.Severity `json:"severity"`

	// Message is the human-readable description.
	Message string `json:"message"`

	// Source names the producing tool (always SourceTag).
	Source string `json:"source"`

	// Code is the cppcheck message identifier in structured mode, or
	// the active language standard in text mode ("" when unset).
	Code string `json:"code,omitempty"`

	// Related holds secondary locations with notes, in original trace
	// order. Only structured-mode output carries them.
	Related []Related `json:"related,omitempty"`
}
