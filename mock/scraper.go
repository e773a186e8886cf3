package mock

import (
	"context"

	"github.com/fwojciec/scoop"
)

var _ scoop.Scraper = (*Scraper)(nil)

// Scraper is a mock implementation of scoop.Scraper.
type Scraper struct {
	ScrapeListingFn func(ctx context.Context, url string, sel scoop.ListingSelectors) ([]*scoop.ArticleSummary, error)
	ScrapeArticleFn func(ctx context.Context, url string, sel scoop.ArticleSelectors) (*scoop.ArticleContent, error)
	CloseFn         func() error
}

func (s *Scraper) ScrapeListing(ctx context.Context, url string, sel scoop.ListingSelectors) ([]*scoop.ArticleSummary, error) {
	return s.ScrapeListingFn(ctx, url, sel)
}

func (s *Scraper) ScrapeArticle(ctx context.Context, url string, sel scoop.ArticleSelectors) (*scoop.ArticleContent, error) {
	return s.ScrapeArticleFn(ctx, url, sel)
}

func (s *Scraper) Close() error {
	return s.CloseFn()
}

var _ scoop.Normalizer = (*Normalizer)(nil)

// Normalizer is a mock implementation of scoop.Normalizer.
type Normalizer struct {
	NormalizeFn func(s string) string
}

func (n *Normalizer) Normalize(s string) string {
	return n.NormalizeFn(s)
}
