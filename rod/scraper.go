package rod

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/scoop"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Scraper implements scoop.Scraper at compile time.
var _ scoop.Scraper = (*Scraper)(nil)

// Default timeouts.
const (
	DefaultListingTimeout  = 30 * time.Second
	DefaultArticleTimeout  = 60 * time.Second
	DefaultSelectorTimeout = 10 * time.Second
)

// Scraper extracts listing and article data from rendered pages.
// Scraper is safe for concurrent use; every call owns its own page.
type Scraper struct {
	manager  *BrowserManager
	sessions *SessionFactory
	logger   *slog.Logger

	listingTimeout  time.Duration
	articleTimeout  time.Duration
	selectorTimeout time.Duration
}

// ScraperOption configures a Scraper.
type ScraperOption func(*Scraper)

// WithListingTimeout bounds homepage navigation.
func WithListingTimeout(d time.Duration) ScraperOption {
	return func(s *Scraper) {
		s.listingTimeout = d
	}
}

// WithArticleTimeout bounds article navigation.
func WithArticleTimeout(d time.Duration) ScraperOption {
	return func(s *Scraper) {
		s.articleTimeout = d
	}
}

// WithSelectorTimeout bounds the wait for each listing marker.
func WithSelectorTimeout(d time.Duration) ScraperOption {
	return func(s *Scraper) {
		s.selectorTimeout = d
	}
}

// WithRequestFilter replaces the default resource filter.
func WithRequestFilter(f *RequestFilter) ScraperOption {
	return func(s *Scraper) {
		s.sessions.filter = f
	}
}

// WithStealth toggles the headless-detection evasions injected into every
// page. Enabled by default.
func WithStealth(enabled bool) ScraperOption {
	return func(s *Scraper) {
		s.sessions.stealth = enabled
	}
}

// WithLogger sets the logger used for skipped wait selectors.
func WithLogger(logger *slog.Logger) ScraperOption {
	return func(s *Scraper) {
		s.logger = logger
	}
}

// NewScraper creates a Scraper on top of the shared browser. Close must be
// called when the Scraper is no longer needed; it shuts the browser down.
func NewScraper(manager *BrowserManager, opts ...ScraperOption) *Scraper {
	s := &Scraper{
		manager:         manager,
		sessions:        NewSessionFactory(manager, nil),
		logger:          slog.New(slog.DiscardHandler),
		listingTimeout:  DefaultListingTimeout,
		articleTimeout:  DefaultArticleTimeout,
		selectorTimeout: DefaultSelectorTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScrapeListing navigates to a homepage, waits for its structural markers
// and returns one summary per headline. Missing markers are skipped.
func (s *Scraper) ScrapeListing(ctx context.Context, url string, sel scoop.ListingSelectors) ([]*scoop.ArticleSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sess, err := s.sessions.PreparePage(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	page := sess.Page.Context(ctx)
	if err := navigate(ctx, page, url, s.listingTimeout); err != nil {
		return nil, err
	}

	for _, selector := range sel.WaitFor {
		if err := s.waitFor(page, selector); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("skipping missing selector", "url", url, "selector", selector)
		}
	}

	res, err := page.Eval(listingScript, listingArgs{
		Headline:    sel.Headline,
		Image:       sel.Image,
		ArticleLink: sel.ArticleLink,
	})
	if err != nil {
		return nil, scoop.WrapError(scoop.EINTERNAL, err, "extracting listing from %s", url)
	}

	summaries := []*scoop.ArticleSummary{}
	if err := res.Value.Unmarshal(&summaries); err != nil {
		return nil, scoop.WrapError(scoop.EINTERNAL, err, "decoding listing from %s", url)
	}
	return summaries, nil
}

// ScrapeArticle navigates to an article page and extracts its fields.
// Paragraphs are trimmed and non-empty but not normalized.
func (s *Scraper) ScrapeArticle(ctx context.Context, url string, sel scoop.ArticleSelectors) (*scoop.ArticleContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sess, err := s.sessions.PreparePage(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	page := sess.Page.Context(ctx)
	if err := navigate(ctx, page, url, s.articleTimeout); err != nil {
		return nil, err
	}

	res, err := page.Eval(articleScript, articleArgs{
		Paragraph:    sel.Paragraph,
		ShortContent: sel.ShortContentSelector(),
		Date:         sel.Date,
		Image:        sel.Image,
	})
	if err != nil {
		return nil, scoop.WrapError(scoop.EINTERNAL, err, "extracting article from %s", url)
	}

	var out articleResult
	if err := res.Value.Unmarshal(&out); err != nil {
		return nil, scoop.WrapError(scoop.EINTERNAL, err, "decoding article from %s", url)
	}
	if out.Error != "" {
		return nil, scoop.Errorf(scoop.EINTERNAL, "extracting article from %s: %s", url, out.Error)
	}

	return &scoop.ArticleContent{
		ShortContent: out.ShortContent,
		Paragraphs:   out.Paragraphs,
		Date:         out.Date,
		Image:        out.Image,
	}, nil
}

// Close shuts the shared browser down.
func (s *Scraper) Close() error {
	return s.manager.Close()
}

// navigate loads url and waits for DOMContentLoaded within timeout.
func navigate(ctx context.Context, page *rod.Page, url string, timeout time.Duration) error {
	p := page.Timeout(timeout)
	defer p.CancelTimeout()

	wait := p.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	if err := p.Navigate(url); err != nil {
		return navigationError(ctx, url, timeout, err)
	}
	wait()

	// The wait returns silently when its context ends.
	if err := p.GetContext().Err(); err != nil {
		return navigationError(ctx, url, timeout, err)
	}
	return nil
}

func navigationError(ctx context.Context, url string, timeout time.Duration, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return scoop.WrapError(scoop.ETIMEOUT, err, "navigating to %s: timed out after %s", url, timeout)
	}
	return fmt.Errorf("navigating to %s: %w", url, err)
}

func (s *Scraper) waitFor(page *rod.Page, selector string) error {
	p := page.Timeout(s.selectorTimeout)
	defer p.CancelTimeout()
	_, err := p.Element(selector)
	return err
}
