// Package fetch retrieves the Burger of the Day page and parses it into an
// html tree. Transient failures are retried here so the extractor never
// sees them.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/net/html"
)

// DefaultURL is the fandom wiki page listing every burger of the day.
const DefaultURL = "https://bobs-burgers.fandom.com/wiki/Burger_of_the_Day"

// maxPageBytes bounds the page body read into memory.
const maxPageBytes = 16 << 20

// Client downloads and parses the source page.
type Client struct {
	url        string
	userAgent  string
	httpClient *http.Client
	log        *slog.Logger
	Stats      *Stats

	backoff func(attempt int) time.Duration
}

// NewClient returns a client for the page at url, falling back to DefaultURL
// when url is empty and to a 30s timeout when timeout is not positive.
func NewClient(url, userAgent string, timeout time.Duration, log *slog.Logger) *Client {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		url:       url,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log:     log,
		Stats:   NewStats(time.Hour),
		backoff: Backoff,
	}
}

// URL returns the page address.
func (c *Client) URL() string {
	return c.url
}

// Document fetches the page and returns its parsed root node.
func (c *Client) Document(ctx context.Context) (*html.Node, error) {
	body, err := c.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Parse(bytes.NewReader(body))
}

// Fetch returns the raw page body, retrying transient failures up to
// MaxRetries times with backoff.
func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	var lastErr error
	for attempt := range MaxRetries {
		start := time.Now()
		body, err := c.get(ctx)
		c.Stats.Record(time.Since(start).Milliseconds(), err)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !IsRetryable(err) {
			return nil, err
		}
		c.log.Warn("retryable fetch error", "url", c.url, "attempt", attempt, "error", err)
		if attempt == MaxRetries-1 {
			break
		}
		select {
		case <-time.After(c.backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("fetch %s: giving up after %d attempts: %w", c.url, MaxRetries, lastErr)
}

func (c *Client) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &RetryableError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("fetch %s: status %d: %s", c.url, resp.StatusCode, string(respBody))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes+1))
	if err != nil {
		return nil, &RetryableError{Message: "read body: " + err.Error()}
	}
	if len(body) > maxPageBytes {
		return nil, errors.New("fetch: page exceeds size limit")
	}
	return body, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
