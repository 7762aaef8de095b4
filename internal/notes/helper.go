package notes

import (
	"regexp"
	"strings"
)

const (
	HelperStart = "[comment]: <> (== START HELPER ==)"
	HelperEnd   = "[comment]: <> (== END HELPER ==)"
)

// ReplaceHelperBlock writes lines between the helper markers of note. Text
// outside the markers is kept. When note has no helper block yet, every match
// of strip is removed first so the raw tags move inside the generated block.
func ReplaceHelperBlock(note string, strip *regexp.Regexp, lines []string) string {
	var before, after string
	start := strings.Index(note, HelperStart)
	end := strings.Index(note, HelperEnd)
	if start >= 0 && end > start {
		before = note[:start]
		after = note[end+len(HelperEnd):]
	} else {
		before = note
		if strip != nil {
			before = strip.ReplaceAllString(before, "")
		}
	}
	before = strings.TrimRight(before, " \t\n")
	after = strings.TrimLeft(after, "\n")

	var b strings.Builder
	if before != "" {
		b.WriteString(before)
		b.WriteString("\n\n")
	}
	b.WriteString(HelperStart)
	b.WriteString("\n\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")
	b.WriteString(HelperEnd)
	b.WriteString("\n")
	if after != "" {
		b.WriteString("\n")
		b.WriteString(after)
	}
	return b.String()
}
