package readme

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingSection is returned when a document has no marker pair for a tag.
var ErrMissingSection = errors.New("missing section tags")

// Markers returns the start and end comments that delimit the section of tag.
func Markers(tag string) (start, end string) {
	return fmt.Sprintf("<!-- %s:START -->", tag), fmt.Sprintf("<!-- %s:END -->", tag)
}

// ReplaceSection replaces the span from the first start marker of tag through
// the first end marker after it with the markers enclosing lines, one per line.
// Content outside the span is returned unchanged.
func ReplaceSection(content, tag string, lines []string) (string, error) {
	start, end := Markers(tag)

	from := strings.Index(content, start)
	if from == -1 {
		return "", fmt.Errorf("%w for %s", ErrMissingSection, tag)
	}
	rel := strings.Index(content[from+len(start):], end)
	if rel == -1 {
		return "", fmt.Errorf("%w for %s", ErrMissingSection, tag)
	}
	to := from + len(start) + rel + len(end)

	var b strings.Builder
	b.Grow(len(content))
	b.WriteString(content[:from])
	b.WriteString(start)
	b.WriteByte('\n')
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteByte('\n')
	b.WriteString(end)
	b.WriteString(content[to:])
	return b.String(), nil
}
