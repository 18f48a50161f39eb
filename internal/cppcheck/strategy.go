package cppcheck

import (
	"fmt"
	"strings"

	"github.com/flintlab/flint/internal/findings"
)

// Mode selects the output strategy for analysis invocations.
type Mode string

const (
	// ModeAuto prefers XML output.
	ModeAuto Mode = "auto"
	// ModeXML invokes cppcheck with --xml and parses the structured
	// document from stderr.
	ModeXML Mode = "xml"
	// ModeText invokes cppcheck with a line template and parses the
	// combined text streams.
	ModeText Mode = "text"
)

// ParseMode parses a mode string from configuration.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return ModeAuto, nil
	case "xml":
		return ModeXML, nil
	case "text":
		return ModeText, nil
	default:
		return ModeAuto, fmt.Errorf("unknown mode: %q (valid: auto, xml, text)", s)
	}
}

// Strategy is one way of invoking cppcheck and interpreting its output.
// The two concrete strategies produce the same finding model so that
// everything downstream of parsing is shared.
type Strategy interface {
	// Name identifies the strategy ("xml" or "text").
	Name() string

	// Args builds the full cppcheck argument list for one target file.
	Args(inv Invocation, file string) []string

	// Parse converts a completed run's output into findings.
	Parse(res Result) ([]findings.Finding, error)
}

// StrategyFor returns the strategy selected by mode.
func StrategyFor(mode Mode) Strategy {
	if mode == ModeText {
		return TextStrategy{}
	}
	return XMLStrategy{}
}

// XMLStrategy runs cppcheck with --xml. The structured document arrives
// on stderr; stdout carries only progress chatter and is ignored.
type XMLStrategy struct{}

// Name implements Strategy.
func (XMLStrategy) Name() string { return "xml" }

// Args implements Strategy.
func (s XMLStrategy) Args(inv Invocation, file string) []string {
	args := []string{"--xml"}
	args = append(args, inv.SplitArgs()...)
	if inv.HasStandard() {
		args = append(args, "--std="+inv.Standard)
	}
	return append(args, file)
}

// Parse implements Strategy.
func (XMLStrategy) Parse(res Result) ([]findings.Finding, error) {
	return ParseXML(strings.NewReader(res.Stderr))
}

// textTemplate makes cppcheck emit findings in the line shape ParseText
// matches.
const textTemplate = "--template={file}:{line}:{column}: {severity}: {message}"

// TextStrategy runs cppcheck with a plain line template and scans both
// streams for finding lines.
type TextStrategy struct{}

// Name implements Strategy.
func (TextStrategy) Name() string { return "text" }

// Args implements Strategy.
func (s TextStrategy) Args(inv Invocation, file string) []string {
	args := []string{textTemplate}
	args = append(args, inv.SplitArgs()...)
	if inv.HasStandard() {
		args = append(args, "--std="+inv.Standard)
	}
	return append(args, file)
}

// Parse implements Strategy. Text parsing cannot fail: lines that do not
// match the template are ignored as tool chatter.
func (TextStrategy) Parse(res Result) ([]findings.Finding, error) {
	return ParseText(res.Stderr, res.Stdout), nil
}
