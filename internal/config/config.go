package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultReadmePath     = "README.md"
	defaultLatestCount    = 3
	defaultTimeoutSeconds = 30
	defaultRetries        = 3

	defaultChannelHandle = "Welcometolasecta"
	defaultPlatformURL   = "https://www.youtube.com"
	defaultPodcastTag    = "PODCAST_LATEST"

	defaultPublication   = "codingpit.substack.com"
	defaultNewsletterTag = "SUBSTACK_LATEST"
)

// Fetch controls how remote listings are requested.
type Fetch struct {
	Timeout time.Duration
	Retries int
}

// Podcast is the configuration of the podcast episode pipeline.
type Podcast struct {
	PlaylistID    string
	PlaylistURL   string
	ChannelHandle string
	TitleHint     string
	BaseURL       string
	LatestCount   int
	ReadmePath    string
	Tag           string
	Fetch         Fetch
}

// Newsletter is the configuration of the newsletter post pipeline.
type Newsletter struct {
	Publication string
	FeedURL     string
	LatestCount int
	ReadmePath  string
	Tag         string
	Fetch       Fetch
}

type fileConfig struct {
	ReadmePath string         `yaml:"readme_path"`
	Podcast    podcastYAML    `yaml:"podcast"`
	Newsletter newsletterYAML `yaml:"newsletter"`
}

type podcastYAML struct {
	PlaylistID     string `yaml:"playlist_id"`
	PlaylistURL    string `yaml:"playlist_url"`
	ChannelHandle  string `yaml:"channel_handle"`
	TitleHint      string `yaml:"title_hint"`
	BaseURL        string `yaml:"base_url"`
	LatestCount    *int   `yaml:"latest_count"`
	Tag            string `yaml:"tag"`
	TimeoutSeconds *int   `yaml:"timeout_seconds"`
	Retries        *int   `yaml:"retries"`
}

type newsletterYAML struct {
	Publication    string `yaml:"publication"`
	FeedURL        string `yaml:"feed_url"`
	LatestCount    *int   `yaml:"latest_count"`
	Tag            string `yaml:"tag"`
	TimeoutSeconds *int   `yaml:"timeout_seconds"`
	Retries        *int   `yaml:"retries"`
}

// Verbose reports whether diagnostic logging was requested.
func Verbose() bool {
	value := strings.TrimSpace(os.Getenv("README_FEEDS_VERBOSE"))
	enabled, err := strconv.ParseBool(value)
	return err == nil && enabled
}

// ResolvePodcast returns the podcast pipeline settings after applying defaults,
// the YAML configuration file (when configured), and environment variable overrides.
func ResolvePodcast() (Podcast, error) {
	cfg := Podcast{
		ChannelHandle: defaultChannelHandle,
		BaseURL:       defaultPlatformURL,
		LatestCount:   defaultLatestCount,
		ReadmePath:    defaultReadmePath,
		Tag:           defaultPodcastTag,
		Fetch: Fetch{
			Timeout: defaultTimeoutSeconds * time.Second,
			Retries: defaultRetries,
		},
	}

	file, err := loadFile()
	if err != nil {
		return Podcast{}, err
	}
	if file != nil {
		setString(&cfg.ReadmePath, file.ReadmePath)
		y := file.Podcast
		setString(&cfg.PlaylistID, y.PlaylistID)
		setString(&cfg.PlaylistURL, y.PlaylistURL)
		setString(&cfg.ChannelHandle, y.ChannelHandle)
		setString(&cfg.TitleHint, y.TitleHint)
		setString(&cfg.BaseURL, y.BaseURL)
		setString(&cfg.Tag, y.Tag)
		if err := applyInts("podcast", y.LatestCount, y.TimeoutSeconds, y.Retries, &cfg.LatestCount, &cfg.Fetch); err != nil {
			return Podcast{}, err
		}
	}

	setString(&cfg.ReadmePath, os.Getenv("README_PATH"))
	setString(&cfg.PlaylistID, os.Getenv("YOUTUBE_PODCAST_PLAYLIST_ID"))
	setString(&cfg.PlaylistURL, os.Getenv("YOUTUBE_PODCAST_PLAYLIST_URL"))
	setString(&cfg.ChannelHandle, os.Getenv("YOUTUBE_CHANNEL_HANDLE"))
	setString(&cfg.TitleHint, os.Getenv("YOUTUBE_PODCAST_TITLE"))
	setString(&cfg.BaseURL, os.Getenv("YOUTUBE_BASE_URL"))
	setString(&cfg.Tag, os.Getenv("PODCAST_LATEST_TAG"))

	if err := envCount("PODCAST_LATEST_COUNT", &cfg.LatestCount); err != nil {
		return Podcast{}, err
	}
	if err := envFetch("YOUTUBE_FETCH_TIMEOUT_SECONDS", "YOUTUBE_FETCH_RETRIES", &cfg.Fetch); err != nil {
		return Podcast{}, err
	}

	cfg.ReadmePath = expandHome(cfg.ReadmePath)
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg, nil
}

// ResolveNewsletter returns the newsletter pipeline settings. The feed URL defaults
// to the publication's /feed endpoint when it is not set explicitly.
func ResolveNewsletter() (Newsletter, error) {
	cfg := Newsletter{
		Publication: defaultPublication,
		LatestCount: defaultLatestCount,
		ReadmePath:  defaultReadmePath,
		Tag:         defaultNewsletterTag,
		Fetch: Fetch{
			Timeout: defaultTimeoutSeconds * time.Second,
			Retries: defaultRetries,
		},
	}

	file, err := loadFile()
	if err != nil {
		return Newsletter{}, err
	}
	if file != nil {
		setString(&cfg.ReadmePath, file.ReadmePath)
		y := file.Newsletter
		setString(&cfg.Publication, y.Publication)
		setString(&cfg.FeedURL, y.FeedURL)
		setString(&cfg.Tag, y.Tag)
		if err := applyInts("newsletter", y.LatestCount, y.TimeoutSeconds, y.Retries, &cfg.LatestCount, &cfg.Fetch); err != nil {
			return Newsletter{}, err
		}
	}

	setString(&cfg.ReadmePath, os.Getenv("README_PATH"))
	setString(&cfg.Publication, os.Getenv("SUBSTACK_PUBLICATION"))
	setString(&cfg.FeedURL, os.Getenv("SUBSTACK_FEED_URL"))
	setString(&cfg.Tag, os.Getenv("SUBSTACK_LATEST_TAG"))

	if err := envCount("SUBSTACK_LATEST_COUNT", &cfg.LatestCount); err != nil {
		return Newsletter{}, err
	}
	if err := envFetch("SUBSTACK_FETCH_TIMEOUT_SECONDS", "SUBSTACK_FETCH_RETRIES", &cfg.Fetch); err != nil {
		return Newsletter{}, err
	}

	cfg.Publication = strings.Trim(cfg.Publication, "/")
	if cfg.FeedURL == "" {
		cfg.FeedURL = "https://" + cfg.Publication + "/feed"
	}
	cfg.ReadmePath = expandHome(cfg.ReadmePath)
	return cfg, nil
}

// PublicationURL returns the root URL of the newsletter publication.
func (n Newsletter) PublicationURL() string {
	return "https://" + n.Publication + "/"
}

func loadFile() (*fileConfig, error) {
	path := strings.TrimSpace(os.Getenv("README_FEEDS_CONFIG"))
	if path == "" {
		return nil, nil
	}

	resolved, err := filepath.Abs(expandHome(path))
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, err
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %s", resolved, strings.Join(strings.Fields(err.Error()), " "))
	}
	return &cfg, nil
}

func applyInts(section string, count, timeout, retries *int, dstCount *int, dstFetch *Fetch) error {
	if count != nil {
		if *count < 0 {
			return fmt.Errorf("%s.latest_count must not be negative, got %d", section, *count)
		}
		*dstCount = *count
	}
	if timeout != nil {
		if *timeout <= 0 {
			return fmt.Errorf("%s.timeout_seconds must be positive, got %d", section, *timeout)
		}
		dstFetch.Timeout = time.Duration(*timeout) * time.Second
	}
	if retries != nil {
		if *retries < 1 {
			return fmt.Errorf("%s.retries must be at least 1, got %d", section, *retries)
		}
		dstFetch.Retries = *retries
	}
	return nil
}

func envCount(key string, dst *int) error {
	value, ok, err := envInt(key)
	if err != nil || !ok {
		return err
	}
	if value < 0 {
		return fmt.Errorf("%s must not be negative, got %d", key, value)
	}
	*dst = value
	return nil
}

func envFetch(timeoutKey, retriesKey string, dst *Fetch) error {
	seconds, ok, err := envInt(timeoutKey)
	if err != nil {
		return err
	}
	if ok {
		if seconds <= 0 {
			return fmt.Errorf("%s must be positive, got %d", timeoutKey, seconds)
		}
		dst.Timeout = time.Duration(seconds) * time.Second
	}

	retries, ok, err := envInt(retriesKey)
	if err != nil {
		return err
	}
	if ok {
		if retries < 1 {
			return fmt.Errorf("%s must be at least 1, got %d", retriesKey, retries)
		}
		dst.Retries = retries
	}
	return nil
}

func envInt(key string) (int, bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s %q: expected an integer", key, value)
	}
	return n, true, nil
}

func setString(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	return path
}
