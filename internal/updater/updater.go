package updater

import (
	"context"
	"log"

	"readme-feeds/internal/models"
	"readme-feeds/internal/readme"
)

// Fetcher retrieves the body of a URL.
type Fetcher interface {
	Get(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error)
}

func orDefault(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.Default()
	}
	return logger
}

// writeSection renders entries into the tagged section of the document at path.
func writeSection(path, tag string, entries []models.Entry, logger *log.Logger) error {
	changed, err := readme.UpdateFile(path, tag, readme.FormatEntries(entries))
	if err != nil {
		return err
	}
	if changed {
		logger.Printf("updated %s section of %s with %d entries", tag, path, len(entries))
	} else {
		logger.Printf("%s section of %s already up to date", tag, path)
	}
	return nil
}
