package cppcheck

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"github.com/flintlab/flint/internal/findings"
)

// findingLine matches one finding in cppcheck's plain text template:
//
//	<file>:<line>:<col>: <severity>: <message>
//
// Anything else on the streams (progress counters, summary text) does
// not match and is ignored.
var findingLine = regexp.MustCompile(
	`^(.+?):(-?\d+):(-?\d+): (error|warning|style|performance|information|info|note): (.*)$`,
)

// ParseText extracts findings from cppcheck's text output. The scan
// covers the stderr stream first, then stdout, joined by a newline,
// matching each line against the finding template. Non-matching lines
// are not an error.
//
// Columns are reported 1-based by cppcheck and stored 0-based; line
// numbers stay 1-based (the diagnostic builder owns the conversion and
// the bounds check).
func ParseText(stderr, stdout string) []findings.Finding {
	var fs []findings.Finding

	sc := bufio.NewScanner(strings.NewReader(stderr + "\n" + stdout))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		m := findingLine.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}

		line, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		// An unparsable column degrades to column 0 rather than
		// dropping the finding.
		column := 0
		if col, err := strconv.Atoi(m[3]); err == nil {
			column = col - 1
		}

		fs = append(fs, findings.New("", findings.Classify(m[4]), m[5], findings.Location{
			File:   m[1],
			Line:   line,
			Column: column,
		}))
	}
	return fs
}
