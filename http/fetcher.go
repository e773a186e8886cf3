// Package http provides a plain HTTP implementation of scoop.Fetcher for
// news sites whose pages render without JavaScript.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/scoop"
)

// DefaultFetchTimeout matches the homepage navigation bound of the browser
// scraper.
const DefaultFetchTimeout = 30 * time.Second

// DefaultUserAgent is sent with every request unless overridden.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"

// maxBodySize caps how much of a page is read.
const maxBodySize = 10 << 20

// Ensure Fetcher implements scoop.Fetcher at compile time.
var _ scoop.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML over HTTP. It does not execute JavaScript.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML served at url. Non-200 responses are errors:
// 404 and 410 map to ENOTFOUND.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", scoop.Errorf(scoop.EINVALID, "invalid URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		var timeout interface{ Timeout() bool }
		if errors.As(err, &timeout) && timeout.Timeout() {
			return "", scoop.WrapError(scoop.ETIMEOUT, err, "fetching %s: timed out after %s", url, f.timeout)
		}
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusGone:
		return "", scoop.Errorf(scoop.ENOTFOUND, "HTTP %d for %s", resp.StatusCode, url)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}

	return string(body), nil
}

// Close is a no-op; http.Client needs no explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
