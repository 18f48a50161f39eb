package cppcheck

import (
	"errors"
	"fmt"
	"strings"
)

// ErrToolNotFound indicates the configured cppcheck executable could not
// be located on the search path or failed the version probe.
var ErrToolNotFound = errors.New("cppcheck executable not found")

// RunError wraps failures from invoking the cppcheck process: spawn
// failures and hard exits (exit code > 1). Exit codes 0 and 1 are
// normal outcomes (1 only means cppcheck found issues) and never
// produce a RunError.
//
// Output carries a tail of the combined process output so the failure can
// be shown to the user without retaining unbounded stream data.
type RunError struct {
	Op       string
	Err      error
	ExitCode *int
	Output   string
}

func (e *RunError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Err != nil {
		b.WriteString(e.Err.Error())
	} else {
		b.WriteString("unknown error")
	}
	if e.ExitCode != nil {
		fmt.Fprintf(&b, " (exit=%d)", *e.ExitCode)
	}
	if s := strings.TrimSpace(e.Output); s != "" {
		b.WriteString("; output (tail): ")
		b.WriteString(s)
	}
	return b.String()
}

func (e *RunError) Unwrap() error { return e.Err }
