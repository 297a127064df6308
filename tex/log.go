package tex

import (
	"regexp"
	"strconv"
	"strings"
)

// TeX reports error positions as "l.<n>" on a line of its own below the
// "! <message>" line. The marker can appear anywhere in a log line.
var (
	lineMarkerRe = regexp.MustCompile(`l\.(\d+)`)
	messageRe    = regexp.MustCompile(`^! (.+)`)
)

// ErrorReport maps compiler log output back to document positions for inline
// highlighting. It is cleared on the next successful compile.
type ErrorReport struct {
	// Lines holds 0-indexed document lines, deduplicated, in log order.
	Lines []int
	// Messages holds the "! ..." error texts, in log order.
	Messages []string
}

// ParseLog extracts an ErrorReport from a captured compile log. Log line
// numbers are 1-indexed; document addressing is 0-indexed.
func ParseLog(log string) ErrorReport {
	var report ErrorReport
	seen := make(map[int]bool)

	for _, line := range strings.Split(log, "\n") {
		if m := messageRe.FindStringSubmatch(line); m != nil {
			report.Messages = append(report.Messages, m[1])
		}
		m := lineMarkerRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			continue
		}
		if !seen[n-1] {
			seen[n-1] = true
			report.Lines = append(report.Lines, n-1)
		}
	}
	return report
}

// Empty reports whether the report carries no highlights and no messages.
func (r ErrorReport) Empty() bool {
	return len(r.Lines) == 0 && len(r.Messages) == 0
}

// HasLine reports whether the given 0-indexed document line is marked.
func (r ErrorReport) HasLine(line int) bool {
	for _, l := range r.Lines {
		if l == line {
			return true
		}
	}
	return false
}

// FirstMessage returns the first error text, or a generic fallback.
func (r ErrorReport) FirstMessage() string {
	if len(r.Messages) > 0 {
		return r.Messages[0]
	}
	return "check for missing packages or unmatched braces"
}
