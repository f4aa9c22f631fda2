package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"readme-feeds/internal/config"
	"readme-feeds/internal/fetch"
	"readme-feeds/internal/updater"
)

func main() {
	logger := log.New(io.Discard, "", 0)
	if config.Verbose() {
		logger = log.New(os.Stderr, "podcast-latest ", log.LstdFlags|log.Lmsgprefix)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, errorLine(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *log.Logger) error {
	cfg, err := config.ResolvePodcast()
	if err != nil {
		return fmt.Errorf("resolve podcast config: %w", err)
	}

	client := fetch.New(fetch.Options{
		Timeout: cfg.Fetch.Timeout,
		Retries: cfg.Fetch.Retries,
		Headers: fetch.BrowserHeaders(),
		Logger:  logger,
	})
	return updater.Podcast(ctx, cfg, client, logger)
}

// errorLine renders err as the single diagnostic line printed on failure.
func errorLine(err error) string {
	return "ERROR: " + strings.Join(strings.Fields(err.Error()), " ")
}
