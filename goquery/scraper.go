package goquery

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/scoop"
)

// Ensure Scraper implements scoop.Scraper at compile time.
var _ scoop.Scraper = (*Scraper)(nil)

// Default per-page bounds, the same as the browser scraper's navigation
// timeouts.
const (
	DefaultListingTimeout = 30 * time.Second
	DefaultArticleTimeout = 60 * time.Second
)

// Scraper extracts data from pages that render without JavaScript.
type Scraper struct {
	fetcher scoop.Fetcher
	logger  *slog.Logger

	listingTimeout time.Duration
	articleTimeout time.Duration
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithListingTimeout bounds each homepage fetch.
func WithListingTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		s.listingTimeout = d
	}
}

// WithArticleTimeout bounds each article fetch.
func WithArticleTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		s.articleTimeout = d
	}
}

// WithLogger sets the logger used for missing wait selectors.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scraper) {
		s.logger = logger
	}
}

// NewScraper creates a Scraper that retrieves pages through fetcher.
func NewScraper(fetcher scoop.Fetcher, opts ...Option) *Scraper {
	s := &Scraper{
		fetcher:        fetcher,
		logger:         slog.New(slog.DiscardHandler),
		listingTimeout: DefaultListingTimeout,
		articleTimeout: DefaultArticleTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScrapeListing fetches a homepage and extracts its summaries. Wait
// selectors are checked once against the fetched document.
func (s *Scraper) ScrapeListing(ctx context.Context, url string, sel scoop.ListingSelectors) ([]*scoop.ArticleSummary, error) {
	html, err := s.fetch(ctx, url, s.listingTimeout)
	if err != nil {
		return nil, err
	}

	if len(sel.WaitFor) > 0 {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return nil, scoop.Errorf(scoop.EINVALID, "failed to parse HTML: %v", err)
		}
		for _, selector := range sel.WaitFor {
			if doc.Find(selector).Length() == 0 {
				s.logger.Warn("skipping missing selector", "url", url, "selector", selector)
			}
		}
	}

	return ExtractListing(html, url, sel)
}

// ScrapeArticle fetches an article page and extracts its content.
func (s *Scraper) ScrapeArticle(ctx context.Context, url string, sel scoop.ArticleSelectors) (*scoop.ArticleContent, error) {
	html, err := s.fetch(ctx, url, s.articleTimeout)
	if err != nil {
		return nil, err
	}
	return ExtractArticle(html, url, sel)
}

// fetch retrieves url within timeout. Expiry of that bound, as opposed to
// the caller's ctx, is reported as ETIMEOUT.
func (s *Scraper) fetch(ctx context.Context, url string, timeout time.Duration) (string, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	html, err := s.fetcher.Fetch(fetchCtx, url)
	if err != nil && ctx.Err() == nil && errors.Is(fetchCtx.Err(), context.DeadlineExceeded) {
		return "", scoop.WrapError(scoop.ETIMEOUT, err, "fetching %s: timed out after %s", url, timeout)
	}
	return html, err
}

// Close closes the underlying fetcher.
func (s *Scraper) Close() error {
	return s.fetcher.Close()
}
