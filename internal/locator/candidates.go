package locator

import (
	"regexp"

	"github.com/tidwall/gjson"
)

var playlistIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{10,}$`)

// rendererKeys hold playlist objects whose own title describes the playlist.
var rendererKeys = []string{"playlistRenderer", "gridPlaylistRenderer"}

// Candidate is a playlist found on a channel page.
type Candidate struct {
	ID    string
	Title string
}

// Candidates is an insertion-ordered set of playlists keyed by identifier.
// The first non-empty title seen for an identifier is kept.
type Candidates struct {
	order  []string
	titles map[string]string
}

// IsValidPlaylistID reports whether id looks like a playlist identifier.
func IsValidPlaylistID(id string) bool {
	return playlistIDRe.MatchString(id)
}

// Add registers a candidate. Invalid identifiers are ignored. An existing
// candidate only takes the new title when its current title is empty.
func (c *Candidates) Add(id, title string) {
	if !IsValidPlaylistID(id) {
		return
	}
	if c.titles == nil {
		c.titles = make(map[string]string)
	}
	existing, ok := c.titles[id]
	if !ok {
		c.order = append(c.order, id)
		c.titles[id] = title
		return
	}
	if existing == "" && title != "" {
		c.titles[id] = title
	}
}

// Merge returns a new set holding c followed by other, applying the same
// first-title-wins rule as Add. Neither input is modified.
func (c Candidates) Merge(other Candidates) Candidates {
	merged := Candidates{
		order:  make([]string, 0, len(c.order)+len(other.order)),
		titles: make(map[string]string, len(c.order)+len(other.order)),
	}
	for _, id := range c.order {
		merged.Add(id, c.titles[id])
	}
	for _, id := range other.order {
		merged.Add(id, other.titles[id])
	}
	return merged
}

// Len returns the number of candidates.
func (c Candidates) Len() int { return len(c.order) }

// Title returns the title recorded for id.
func (c Candidates) Title(id string) (string, bool) {
	title, ok := c.titles[id]
	return title, ok
}

// List returns the candidates in the order they were first seen.
func (c Candidates) List() []Candidate {
	list := make([]Candidate, 0, len(c.order))
	for _, id := range c.order {
		list = append(list, Candidate{ID: id, Title: c.titles[id]})
	}
	return list
}

// CollectCandidates walks a page-data document and returns every playlist it
// references, in document order.
func CollectCandidates(data string) Candidates {
	return visit(gjson.Parse(data), "")
}

// visit walks node depth-first. contextTitle is the title of the nearest
// enclosing object and labels playlist ids that carry no title of their own.
func visit(node gjson.Result, contextTitle string) Candidates {
	var found Candidates

	switch {
	case node.IsObject():
		title := nodeTitle(node)
		if title == "" {
			title = contextTitle
		}
		if id := node.Get("playlistId"); id.Type == gjson.String && id.Str != "" {
			found.Add(id.Str, title)
		}
		for _, key := range rendererKeys {
			if renderer := node.Get(key); renderer.IsObject() {
				found.Add(renderer.Get("playlistId").Str, nodeTitle(renderer))
			}
		}
		node.ForEach(func(_, value gjson.Result) bool {
			found = found.Merge(visit(value, title))
			return true
		})

	case node.IsArray():
		node.ForEach(func(_, value gjson.Result) bool {
			found = found.Merge(visit(value, contextTitle))
			return true
		})
	}

	return found
}
