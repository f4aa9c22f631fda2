package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	userAgentChrome = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"
	acceptLanguage  = "en-US,en;q=0.9"

	// consentCookie skips the regional consent interstitial that hides the page data.
	consentCookie = "CONSENT=YES+cb.20210328-17-p0.en+FX+470"

	defaultTimeout = 30 * time.Second
	defaultStep    = time.Second
)

// BrowserHeaders returns the headers of a desktop browser loading an HTML page.
func BrowserHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      userAgentChrome,
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": acceptLanguage,
		"Cookie":          consentCookie,
	}
}

// FeedHeaders returns the headers used to request a syndication feed. The referer
// is omitted when empty.
func FeedHeaders(referer string) map[string]string {
	headers := map[string]string{
		"User-Agent":      userAgentChrome,
		"Accept":          "application/rss+xml, application/xml;q=0.9, */*;q=0.8",
		"Accept-Language": acceptLanguage,
	}
	if referer != "" {
		headers["Referer"] = referer
	}
	return headers
}

// StatusError reports a response with a non-2xx status code.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Options configures a Client.
type Options struct {
	// Timeout bounds every single request.
	Timeout time.Duration
	// Retries is the total number of attempts per URL.
	Retries int
	// Step is the backoff unit: the wait after attempt n is n*Step.
	Step time.Duration
	// Headers are sent with every request unless overridden per call.
	Headers map[string]string

	HTTPClient *http.Client
	Logger     *log.Logger
}

// Client performs GET requests with retries.
type Client struct {
	http    *http.Client
	headers map[string]string
	retries int
	step    time.Duration
	logger  *log.Logger
}

// New creates a Client, filling unset options with defaults.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Retries < 1 {
		opts.Retries = 1
	}
	if opts.Step <= 0 {
		opts.Step = defaultStep
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        4,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 15 * time.Second,
			},
		}
	}

	headers := make(map[string]string, len(opts.Headers))
	for k, v := range opts.Headers {
		headers[k] = v
	}

	return &Client{
		http:    client,
		headers: headers,
		retries: opts.Retries,
		step:    opts.Step,
		logger:  opts.Logger,
	}
}

// Get fetches rawURL and returns the full response body. Headers passed here
// override the client's headers of the same name. Transport failures and non-2xx
// responses are retried; the last failure is returned once attempts run out.
func (c *Client) Get(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	attempt := 0
	operation := func() ([]byte, error) {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		for k, v := range c.headers {
			req.Header.Set(k, v)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		return body, nil
	}

	body, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(&linearBackOff{step: c.step}),
		backoff.WithMaxTries(uint(c.retries)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, wait time.Duration) {
			c.logger.Printf("fetch %s failed (attempt %d/%d): %v; retrying in %s", rawURL, attempt, c.retries, err, wait)
		}),
	)
	if err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Unwrap()
		}
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	return body, nil
}

// linearBackOff waits one more step after every failed attempt.
type linearBackOff struct {
	step     time.Duration
	attempts int
}

func (b *linearBackOff) Reset() { b.attempts = 0 }

func (b *linearBackOff) NextBackOff() time.Duration {
	b.attempts++
	return time.Duration(b.attempts) * b.step
}
