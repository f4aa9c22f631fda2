package locator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strings"
)

const defaultBaseURL = "https://www.youtube.com"

var listParamRe = regexp.MustCompile(`[?&]list=([A-Za-z0-9_-]+)`)

// Fetcher retrieves a page body.
type Fetcher interface {
	Get(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error)
}

// Locator finds the podcast playlist of a channel.
type Locator struct {
	fetcher Fetcher
	baseURL string
	logger  *log.Logger
}

// New creates a Locator that reads channel pages below baseURL.
func New(fetcher Fetcher, baseURL string, logger *log.Logger) *Locator {
	if logger == nil {
		logger = log.Default()
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Locator{
		fetcher: fetcher,
		baseURL: baseURL,
		logger:  logger,
	}
}

// ParsePlaylistRef returns the playlist identifier in value, which may be a bare
// identifier or any URL with a list query parameter. It returns "" when value
// holds neither.
func ParsePlaylistRef(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if m := listParamRe.FindStringSubmatch(value); m != nil {
		return m[1]
	}
	if IsValidPlaylistID(value) {
		return value
	}
	return ""
}

// PageURLs returns the channel pages searched for playlists, in order.
func (l *Locator) PageURLs(handle string) []string {
	handle = url.PathEscape(strings.TrimPrefix(strings.TrimSpace(handle), "@"))
	return []string{
		fmt.Sprintf("%s/@%s/podcasts", l.baseURL, handle),
		fmt.Sprintf("%s/@%s/playlists", l.baseURL, handle),
	}
}

// Candidates fetches each channel page and merges the playlists found on them.
// A page without usable page data is skipped; a failed fetch is an error.
func (l *Locator) Candidates(ctx context.Context, handle string) (Candidates, error) {
	var merged Candidates
	for _, pageURL := range l.PageURLs(handle) {
		page, err := l.fetcher.Get(ctx, pageURL, nil)
		if err != nil {
			return Candidates{}, err
		}

		data, err := ExtractInitialData(page)
		if err != nil {
			l.logger.Printf("skipping %s: %v", pageURL, err)
			continue
		}

		found := CollectCandidates(data)
		l.logger.Printf("found %d playlists on %s", found.Len(), pageURL)
		merged = merged.Merge(found)
	}
	return merged, nil
}

// Discover resolves the channel's podcast playlist, preferring titles that
// contain hint.
func (l *Locator) Discover(ctx context.Context, handle, hint string) (string, error) {
	candidates, err := l.Candidates(ctx, handle)
	if err != nil {
		return "", err
	}

	id, err := Resolve(candidates, hint, DefaultCategory)
	if err != nil {
		if errors.Is(err, ErrNoCandidates) {
			return "", fmt.Errorf("%w for channel @%s", err, strings.TrimPrefix(handle, "@"))
		}
		return "", err
	}

	title, _ := candidates.Title(id)
	l.logger.Printf("resolved playlist %s (%q)", id, title)
	return id, nil
}
