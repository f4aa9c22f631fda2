package locator

import (
	"bytes"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

var (
	// ErrInitialDataNotFound is returned when no page-data assignment is present.
	ErrInitialDataNotFound = errors.New("unable to locate ytInitialData on the page")
	// ErrUnbalancedJSON is returned when the braces of the embedded object never close.
	ErrUnbalancedJSON = errors.New("failed to extract ytInitialData JSON payload")
	// ErrInvalidJSON is returned when the balanced payload is not valid JSON.
	ErrInvalidJSON = errors.New("ytInitialData payload is not valid JSON")
)

// initialDataMarkers are tried in order; the first one present wins.
var initialDataMarkers = []string{
	"var ytInitialData =",
	`window["ytInitialData"] =`,
	"ytInitialData =",
}

// ExtractInitialData returns the JSON object assigned to ytInitialData in an HTML
// page. Markers are tried in priority order across all script elements, then
// against the raw page text.
func ExtractInitialData(page []byte) (string, error) {
	var scripts []string
	if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page)); err == nil {
		doc.Find("script").Each(func(_ int, s *goquery.Selection) {
			scripts = append(scripts, s.Text())
		})
	}

	for _, marker := range initialDataMarkers {
		for _, text := range scripts {
			payload, err := extractAfter(text, marker)
			if !errors.Is(err, ErrInitialDataNotFound) {
				return payload, err
			}
		}
	}
	return scanMarkers(string(page))
}

func scanMarkers(text string) (string, error) {
	for _, marker := range initialDataMarkers {
		payload, err := extractAfter(text, marker)
		if !errors.Is(err, ErrInitialDataNotFound) {
			return payload, err
		}
	}
	return "", ErrInitialDataNotFound
}

// extractAfter returns the object following the first occurrence of marker.
func extractAfter(text, marker string) (string, error) {
	idx := strings.Index(text, marker)
	if idx == -1 {
		return "", ErrInitialDataNotFound
	}
	open := strings.IndexByte(text[idx:], '{')
	if open == -1 {
		return "", ErrInitialDataNotFound
	}
	payload, err := ExtractJSONObject(text, idx+open)
	if err != nil {
		return "", err
	}
	if !gjson.Valid(payload) {
		return "", ErrInvalidJSON
	}
	return payload, nil
}

// ExtractJSONObject returns the smallest balanced {...} region of text starting at
// start. Braces inside double-quoted strings, including escaped quotes, are ignored.
func ExtractJSONObject(text string, start int) (string, error) {
	if start < 0 || start >= len(text) || text[start] != '{' {
		return "", ErrUnbalancedJSON
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", ErrUnbalancedJSON
}
