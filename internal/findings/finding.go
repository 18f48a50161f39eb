package findings

// NoColumn marks a location whose source format carries no column
// information (cppcheck XML locations report only file and line).
const NoColumn = -1

// Location is a single point in a source file as reported by cppcheck.
type Location struct {
	// File is the path to the source file, as reported by the tool.
	File string `json:"file"`
	// Line is the 1-based line number.
	Line int `json:"line"`
	// Column is the 0-based column number, or NoColumn when the
	// output format carries no column (XML mode).
	Column int `json:"column"`
	// Note is an optional explanation attached to this location,
	// used by cppcheck for multi-step traces (the "info" attribute).
	Note string `json:"note,omitempty"`
}

// HasColumn reports whether the location carries column information.
func (l Location) HasColumn() bool {
	return l.Column != NoColumn
}

// Finding is one normalized issue reported by cppcheck, before it is
// bound to a document and projected into a diagnostic. Findings are
// transient: they exist only between parsing one run's output and
// building that run's diagnostics.
type Finding struct {
	// ID is the cppcheck message identifier (e.g. "nullPointer").
	// Empty in text mode, which does not report identifiers.
	ID string `json:"id,omitempty"`

	// Severity is the classified severity level.
	Severity Severity `json:"severity"`

	// Message is the human-readable description of the issue.
	Message string `json:"message"`

	// Location is the primary reporting location. For XML output this
	// is the last location cppcheck lists (the root cause); for text
	// output it is the single location on the matched line.
	Location Location `json:"location"`

	// Trace holds every location cppcheck attached to the finding, in
	// original order, primary included. Entries with a non-empty Note
	// become related-information on the diagnostic. Empty in text mode.
	Trace []Location `json:"trace,omitempty"`
}

// New creates a finding with the minimum required fields.
func New(id string, severity Severity, message string, loc Location) Finding {
	return Finding{
		ID:       id,
		Severity: severity,
		Message:  message,
		Location: loc,
	}
}

// WithTrace attaches the full location trace to the finding.
func (f Finding) WithTrace(trace []Location) Finding {
	f.Trace = trace
	return f
}
