package updater

import (
	"context"
	"errors"
	"fmt"
	"log"

	"readme-feeds/internal/config"
	"readme-feeds/internal/feed"
	"readme-feeds/internal/locator"
)

// ErrNoEpisodes is returned when a playlist feed holds no usable episodes.
var ErrNoEpisodes = errors.New("no episodes found in podcast feed")

// Podcast writes the latest episodes of the configured playlist into the
// document. Without an explicit playlist the channel pages are searched for one.
func Podcast(ctx context.Context, cfg config.Podcast, fetcher Fetcher, logger *log.Logger) error {
	logger = orDefault(logger)

	playlistID, err := resolvePlaylist(ctx, cfg, fetcher, logger)
	if err != nil {
		return err
	}

	feedURL := feed.PlaylistFeedURL(cfg.BaseURL, playlistID)
	data, err := fetcher.Get(ctx, feedURL, nil)
	if err != nil {
		return err
	}

	entries, err := feed.Parse(data)
	if err != nil {
		return fmt.Errorf("parse podcast feed %s: %w", feedURL, err)
	}
	entries = feed.DropPlaceholders(entries)
	if len(entries) == 0 {
		return fmt.Errorf("%w: %s", ErrNoEpisodes, feedURL)
	}

	return writeSection(cfg.ReadmePath, cfg.Tag, feed.Latest(entries, cfg.LatestCount), logger)
}

func resolvePlaylist(ctx context.Context, cfg config.Podcast, fetcher Fetcher, logger *log.Logger) (string, error) {
	for _, ref := range []string{cfg.PlaylistID, cfg.PlaylistURL} {
		if ref == "" {
			continue
		}
		if id := locator.ParsePlaylistRef(ref); id != "" {
			return id, nil
		}
		logger.Printf("ignoring playlist reference %q: no playlist id", ref)
	}

	loc := locator.New(fetcher, cfg.BaseURL, logger)
	id, err := loc.Discover(ctx, cfg.ChannelHandle, cfg.TitleHint)
	switch {
	case errors.Is(err, locator.ErrNoCandidates):
		return "", fmt.Errorf("%w; set YOUTUBE_PODCAST_PLAYLIST_ID or YOUTUBE_PODCAST_PLAYLIST_URL", err)
	case errors.Is(err, locator.ErrAmbiguous):
		return "", fmt.Errorf("%w; set YOUTUBE_PODCAST_PLAYLIST_ID or YOUTUBE_PODCAST_TITLE", err)
	case err != nil:
		return "", err
	}
	return id, nil
}
