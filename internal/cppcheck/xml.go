// Package cppcheck invokes the cppcheck binary and parses its output
// into normalized findings.
//
// cppcheck reports in two shapes and both are supported:
//   - XML ("--xml"): a structured document emitted on stderr, carrying
//     message identifiers and multi-location traces.
//   - text (a plain "--template" format): one matchable line per finding
//     mixed with progress chatter, on stdout and stderr.
package cppcheck

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/flintlab/flint/internal/findings"
)

// ParseError indicates malformed XML output from cppcheck. Callers must
// treat the whole run as failed and must not install a partial result.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cppcheck: malformed XML output: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// xmlResults mirrors cppcheck's --xml output:
//
//	<results version="2">
//	  <cppcheck version="..."/>
//	  <errors>
//	    <error id="nullPointer" severity="error" msg="...">
//	      <location file="a.cpp" line="5" info="Dereferencing p"/>
//	    </error>
//	  </errors>
//	</results>
type xmlResults struct {
	XMLName xml.Name   `xml:"results"`
	Version string     `xml:"version,attr"`
	Errors  []xmlError `xml:"errors>error"`
}

type xmlError struct {
	ID        string        `xml:"id,attr"`
	Severity  string        `xml:"severity,attr"`
	Msg       string        `xml:"msg,attr"`
	Locations []xmlLocation `xml:"location"`
}

type xmlLocation struct {
	File string `xml:"file,attr"`
	Line int    `xml:"line,attr"`
	Info string `xml:"info,attr"`
}

// ParseXML parses cppcheck's --xml output into findings.
//
// The last location of each error element is the primary reporting
// location (cppcheck lists the root cause last). All locations, the
// primary included, are kept in the finding's trace so that entries
// carrying an info note can become related information. Errors without
// any location are skipped entirely.
//
// Malformed XML returns a *ParseError and no findings.
func ParseXML(r io.Reader) ([]findings.Finding, error) {
	var results xmlResults
	if err := xml.NewDecoder(r).Decode(&results); err != nil {
		return nil, &ParseError{Err: err}
	}

	var fs []findings.Finding
	for _, e := range results.Errors {
		if len(e.Locations) == 0 {
			continue
		}

		trace := make([]findings.Location, 0, len(e.Locations))
		for _, loc := range e.Locations {
			trace = append(trace, findings.Location{
				File:   loc.File,
				Line:   loc.Line,
				Column: findings.NoColumn,
				Note:   loc.Info,
			})
		}

		primary := trace[len(trace)-1]
		f := findings.New(e.ID, findings.Classify(e.Severity), e.Msg, primary).
			WithTrace(trace)
		fs = append(fs, f)
	}
	return fs, nil
}
