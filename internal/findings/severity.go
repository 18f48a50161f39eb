// Package findings defines the normalized finding model produced by the
// cppcheck output parsers and consumed by the diagnostic builder.
package findings

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity represents the severity level of a finding.
//
//nolint:recvcheck // UnmarshalJSON requires pointer receiver per json.Unmarshaler interface
type Severity int

const (
	// SeverityError indicates a defect cppcheck is confident about.
	SeverityError Severity = iota
	// SeverityWarning indicates a likely defect.
	SeverityWarning
	// SeverityInfo covers everything else cppcheck reports: style,
	// performance, portability, and informational messages.
	SeverityInfo
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler.
// Pointer receiver required by json.Unmarshaler interface.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseSeverity(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeverity parses an exact severity name, as used in configuration.
// Only the three canonical levels are accepted here; use Classify for the
// loose matching applied to cppcheck output.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(s) {
	case "error":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "info", "information":
		return SeverityInfo, nil
	default:
		return SeverityError, fmt.Errorf("unknown severity: %q", s)
	}
}

// Classify maps a severity word from cppcheck output to a Severity level.
// Matching is a case-insensitive substring check: any word containing
// "error" is an error, any word containing "warning" is a warning, and
// everything else (style, performance, portability, information, note)
// is info. The loose match tolerates variant wording across cppcheck
// versions.
func Classify(word string) Severity {
	w := strings.ToLower(word)
	switch {
	case strings.Contains(w, "error"):
		return SeverityError
	case strings.Contains(w, "warning"):
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// IsAtLeast returns true if s is at least as severe as threshold.
func (s Severity) IsAtLeast(threshold Severity) bool {
	return s <= threshold // Lower value = more severe
}
