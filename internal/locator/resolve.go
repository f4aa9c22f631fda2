package locator

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoCandidates is returned when a channel lists no playlists.
	ErrNoCandidates = errors.New("no playlists found")
	// ErrAmbiguous is returned when more than one playlist remains after filtering.
	ErrAmbiguous = errors.New("multiple playlists found")
)

// DefaultCategory is the word that marks a podcast playlist in its title.
const DefaultCategory = "podcast"

// Resolve picks a single playlist. A title hint that matches exactly one title
// wins; a hint matching several is an error and a hint matching none is ignored.
// Otherwise a lone candidate wins, then a lone title containing category.
func Resolve(candidates Candidates, hint, category string) (string, error) {
	list := candidates.List()
	if len(list) == 0 {
		return "", ErrNoCandidates
	}

	if hint = strings.ToLower(strings.TrimSpace(hint)); hint != "" {
		matched := filterTitles(list, hint)
		switch {
		case len(matched) == 1:
			return matched[0].ID, nil
		case len(matched) > 1:
			return "", fmt.Errorf("%w matching title %q: %s", ErrAmbiguous, hint, describe(matched))
		}
	}

	if len(list) == 1 {
		return list[0].ID, nil
	}

	if category = strings.ToLower(strings.TrimSpace(category)); category != "" {
		if matched := filterTitles(list, category); len(matched) == 1 {
			return matched[0].ID, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrAmbiguous, describe(list))
}

func filterTitles(list []Candidate, needle string) []Candidate {
	var matched []Candidate
	for _, c := range list {
		if strings.Contains(strings.ToLower(c.Title), needle) {
			matched = append(matched, c)
		}
	}
	return matched
}

func describe(list []Candidate) string {
	parts := make([]string, 0, len(list))
	for _, c := range list {
		title := strings.Join(strings.Fields(c.Title), " ")
		if title == "" {
			title = "Untitled"
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", title, c.ID))
	}
	return strings.Join(parts, ", ")
}
