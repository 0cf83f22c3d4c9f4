// Package fieldextract pulls "Label: value" fields out of loosely
// structured page text. It makes no assumptions about layout beyond
// labels being followed by a colon; a label's value may sit on the same
// line or on the next non-empty one.
package fieldextract

import (
	"regexp"
	"strings"
)

// Label describes one field to look for during a line scan.
type Label struct {
	// Key is the name the extracted value is stored under.
	Key string
	// Text must appear on the line, immediately followed by a colon.
	// Matching is case-insensitive.
	Text string
	// Reject skips lines containing this string. Used to separate
	// overlapping labels like "Credibility:" vs "MBFC Credibility
	// Rating:".
	Reject string
}

// ScanLines walks the text line by line and fills in each label at most
// once, first match wins. A matched line contributes the text after its
// first colon; when that is empty the next non-empty line is taken
// instead. Labels may appear in any order and at any depth. Missing
// labels are simply absent from the result.
func ScanLines(text string, labels []Label) map[string]string {
	found := make(map[string]string, len(labels))
	lines := strings.Split(text, "\n")

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		for _, label := range labels {
			if _, ok := found[label.Key]; ok {
				continue
			}
			if !lineHasLabel(line, label) {
				continue
			}
			value := valueAfterColon(line)
			if value == "" {
				value = nextNonEmptyLine(lines, i+1)
			}
			if value != "" {
				found[label.Key] = value
			}
			// one label claims a line
			break
		}
	}
	return found
}

var numberRegex = regexp.MustCompile(`^-?\d+\.?\d*$`)

// ScanNumber finds the first "label: <number>" line and returns the
// numeric value as a string. A bare "label:" line takes its value from
// the next non-empty line. Signed controls whether a leading minus is
// accepted; the value must parse as a bare decimal number, so label
// lines carrying prose ("Bias: Middle") are passed over.
func ScanNumber(text, label string, signed bool) string {
	needle := strings.ToLower(label)
	lines := strings.Split(text, "\n")
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if !strings.Contains(strings.ToLower(line), needle+":") {
			continue
		}
		value := valueAfterColon(line)
		if value == "" {
			value = nextNonEmptyLine(lines, i+1)
		}
		if !numberRegex.MatchString(value) {
			continue
		}
		if !signed && strings.HasPrefix(value, "-") {
			continue
		}
		return value
	}
	return ""
}

// LabelValue extracts the non-numeric value following "label:" inside a
// single flattened block of text, stopping before any of the stop labels
// or the end of the block. Used for widget-scoped extraction where a
// container holds several fields run together on one line.
func LabelValue(block, label string, stopLabels ...string) string {
	loc := labelRegex(label).FindStringIndex(block)
	if loc == nil {
		return ""
	}
	rest := block[loc[1]:]

	end := len(rest)
	for _, stop := range stopLabels {
		if i := labelRegex(stop).FindStringIndex(rest); i != nil && i[0] < end {
			end = i[0]
		}
	}

	value := strings.TrimSpace(rest[:end])
	if value == "" || numberRegex.MatchString(value) {
		return ""
	}
	return value
}

func labelRegex(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `\s*:`)
}

func lineHasLabel(line string, label Label) bool {
	lower := strings.ToLower(line)
	if !strings.Contains(lower, strings.ToLower(label.Text)+":") {
		return false
	}
	if label.Reject != "" && strings.Contains(lower, strings.ToLower(label.Reject)) {
		return false
	}
	return true
}

func valueAfterColon(line string) string {
	_, after, ok := strings.Cut(line, ":")
	if !ok {
		return ""
	}
	return strings.TrimSpace(after)
}

func nextNonEmptyLine(lines []string, from int) string {
	for _, raw := range lines[from:] {
		line := strings.TrimSpace(raw)
		if line != "" {
			return line
		}
	}
	return ""
}
