package locator

import (
	"strings"

	"github.com/tidwall/gjson"
)

var (
	titleKeys     = []string{"title", "headline", "name"}
	containerKeys = []string{"metadata", "lockupMetadataViewModel", "playlistMetadataRenderer"}
)

// richText reads a display string stored as a plain string, {"simpleText": ...}
// or {"runs": [{"text": ...}, ...]}.
func richText(value gjson.Result) string {
	if value.Type == gjson.String {
		return strings.TrimSpace(value.Str)
	}
	if !value.IsObject() {
		return ""
	}

	if simple := value.Get("simpleText"); simple.Type == gjson.String {
		if text := strings.TrimSpace(simple.Str); text != "" {
			return text
		}
	}

	if runs := value.Get("runs"); runs.IsArray() {
		var b strings.Builder
		runs.ForEach(func(_, run gjson.Result) bool {
			if text := run.Get("text"); run.IsObject() && text.Type == gjson.String {
				b.WriteString(text.Str)
			}
			return true
		})
		if text := strings.TrimSpace(b.String()); text != "" {
			return text
		}
	}
	return ""
}

// nodeTitle returns the first usable title of an object, looking through the
// known metadata containers when the object has no title of its own.
func nodeTitle(node gjson.Result) string {
	if !node.IsObject() {
		return ""
	}
	for _, key := range titleKeys {
		if text := richText(node.Get(key)); text != "" {
			return text
		}
	}
	for _, key := range containerKeys {
		if child := node.Get(key); child.IsObject() {
			if text := nodeTitle(child); text != "" {
				return text
			}
		}
	}
	return ""
}
