package feed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed/atom"
	"github.com/mmcdole/gofeed/rss"
	"golang.org/x/net/html/charset"

	"readme-feeds/internal/models"
)

var (
	// ErrMalformed is returned for input that is not well-formed XML.
	ErrMalformed = errors.New("malformed feed XML")
	// ErrUnsupportedFormat is returned when the root element is neither rss nor feed.
	ErrUnsupportedFormat = errors.New("unsupported feed format")
)

// placeholderTitles mark videos that were removed or made private after being
// added to a playlist.
var placeholderTitles = map[string]struct{}{
	"private video": {},
	"deleted video": {},
}

// Parse decodes an RSS or Atom document into entries in feed order. Entries
// without a title or a link are dropped.
func Parse(data []byte) ([]models.Entry, error) {
	root, err := rootName(data)
	if err != nil {
		return nil, err
	}

	switch root {
	case "rss":
		return parseRSS(data)
	case "feed":
		return parseAtom(data)
	default:
		return nil, fmt.Errorf("%w: <%s>", ErrUnsupportedFormat, root)
	}
}

// rootName reads the whole document strictly and returns the local name of its
// root element. Text outside the root and a second root element are errors.
func rootName(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	root := ""
	depth := 0
	closed := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if closed {
				return "", fmt.Errorf("%w: element <%s> after the root element", ErrMalformed, t.Name.Local)
			}
			if depth == 0 {
				root = t.Name.Local
			}
			depth++
		case xml.EndElement:
			depth--
			if depth == 0 {
				closed = true
			}
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				return "", fmt.Errorf("%w: text outside the root element", ErrMalformed)
			}
		}
	}
	if root == "" {
		return "", fmt.Errorf("%w: no root element", ErrMalformed)
	}
	return root, nil
}

func parseRSS(data []byte) ([]models.Entry, error) {
	parser := &rss.Parser{}
	parsed, err := parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	entries := make([]models.Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		link := strings.TrimSpace(item.Link)
		if link == "" && item.GUID != nil {
			link = item.GUID.Value
		}
		entries = appendEntry(entries, item.Title, link)
	}
	return entries, nil
}

func parseAtom(data []byte) ([]models.Entry, error) {
	parser := &atom.Parser{}
	parsed, err := parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	entries := make([]models.Entry, 0, len(parsed.Entries))
	for _, entry := range parsed.Entries {
		entries = appendEntry(entries, entry.Title, alternateLink(entry.Links))
	}
	return entries, nil
}

// alternateLink returns the first rel="alternate" link, or the first link when
// none is marked. gofeed already reports a link without rel as alternate.
func alternateLink(links []*atom.Link) string {
	for _, link := range links {
		if link != nil && strings.EqualFold(strings.TrimSpace(link.Rel), "alternate") {
			return link.Href
		}
	}
	for _, link := range links {
		if link != nil {
			return link.Href
		}
	}
	return ""
}

func appendEntry(entries []models.Entry, title, link string) []models.Entry {
	title = strings.TrimSpace(title)
	link = strings.TrimSpace(link)
	if title == "" || link == "" {
		return entries
	}
	return append(entries, models.Entry{Title: title, Link: link})
}

// DropPlaceholders removes entries standing in for private or deleted videos.
func DropPlaceholders(entries []models.Entry) []models.Entry {
	kept := make([]models.Entry, 0, len(entries))
	for _, entry := range entries {
		if _, ok := placeholderTitles[strings.ToLower(strings.TrimSpace(entry.Title))]; ok {
			continue
		}
		kept = append(kept, entry)
	}
	return kept
}

// Latest returns the first n entries in feed order.
func Latest(entries []models.Entry, n int) []models.Entry {
	if n <= 0 {
		return []models.Entry{}
	}
	if n > len(entries) {
		n = len(entries)
	}
	return entries[:n]
}

// PlaylistFeedURL returns the Atom feed address of a playlist.
func PlaylistFeedURL(baseURL, playlistID string) string {
	return strings.TrimRight(baseURL, "/") + "/feeds/videos.xml?playlist_id=" + url.QueryEscape(playlistID)
}
