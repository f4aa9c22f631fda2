package updater

import (
	"context"
	"fmt"
	"log"

	"readme-feeds/internal/config"
	"readme-feeds/internal/feed"
	"readme-feeds/internal/fetch"
)

// Newsletter writes the latest posts of the configured newsletter feed into the
// document. An empty feed empties the section.
func Newsletter(ctx context.Context, cfg config.Newsletter, fetcher Fetcher, logger *log.Logger) error {
	logger = orDefault(logger)

	data, err := fetcher.Get(ctx, cfg.FeedURL, fetch.FeedHeaders(cfg.PublicationURL()))
	if err != nil {
		return err
	}

	entries, err := feed.Parse(data)
	if err != nil {
		return fmt.Errorf("parse newsletter feed %s: %w", cfg.FeedURL, err)
	}
	logger.Printf("found %d posts in %s", len(entries), cfg.FeedURL)

	return writeSection(cfg.ReadmePath, cfg.Tag, feed.Latest(entries, cfg.LatestCount), logger)
}
