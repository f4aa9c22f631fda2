package readme

import (
	"fmt"
	"strings"

	"readme-feeds/internal/models"
)

// EscapeTitle collapses whitespace runs in title to single spaces and
// backslash-escapes square brackets so the title cannot end a link label early.
// A bracket behind an odd run of backslashes is already escaped and left alone.
func EscapeTitle(title string) string {
	title = strings.Join(strings.Fields(title), " ")

	var b strings.Builder
	b.Grow(len(title) + 4)
	backslashes := 0
	for i := 0; i < len(title); i++ {
		c := title[i]
		if (c == '[' || c == ']') && backslashes%2 == 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
		if c == '\\' {
			backslashes++
		} else {
			backslashes = 0
		}
	}
	return b.String()
}

// FormatEntries renders each entry as a markdown list item linking to the entry.
func FormatEntries(entries []models.Entry) []string {
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, fmt.Sprintf("- [%s](%s)", EscapeTitle(entry.Title), entry.Link))
	}
	return lines
}
