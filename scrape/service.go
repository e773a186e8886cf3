// Package scrape applies the listing and article error policy on top of a
// scoop.Scraper and chains listing scrapes into article scrapes.
package scrape

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/scoop"
)

// Service scrapes configured sites.
//
// Listing failures are logged and returned. Article failures are logged and
// reported as nil content, so one broken article never stops a batch.
type Service struct {
	Scraper    scoop.Scraper
	Normalizer scoop.Normalizer
	Logger     *slog.Logger
}

// ScrapeListing returns the article summaries on the site's homepage.
func (s *Service) ScrapeListing(ctx context.Context, site *scoop.SiteConfig) ([]*scoop.ArticleSummary, error) {
	logger := s.logger().With("site", site.Name, "url", site.URL)
	logger.Info("scraping listing")

	start := time.Now()
	summaries, err := s.Scraper.ScrapeListing(ctx, site.URL, site.Selectors)
	if err != nil {
		logger.Error("listing scrape failed", "duration", time.Since(start), "err", err)
		return nil, err
	}

	logger.Info("listing scraped", "articles", len(summaries), "duration", time.Since(start))
	return summaries, nil
}

// ScrapeArticle returns the normalized content of one article, or nil when
// the page could not be scraped or has no paragraphs left after
// normalization. It never returns an error.
func (s *Service) ScrapeArticle(ctx context.Context, url string, site *scoop.SiteConfig) *scoop.ArticleContent {
	logger := s.logger().With("site", site.Name, "url", url)
	logger.Debug("scraping article")

	content, err := s.Scraper.ScrapeArticle(ctx, url, site.ArticleSelectors)
	if err != nil {
		logger.Error("article scrape failed", "code", scoop.ErrorCode(err), "err", err)
		return nil
	}
	if content == nil {
		logger.Warn("missing or empty article content")
		return nil
	}

	paragraphs := make([]string, 0, len(content.Paragraphs))
	for _, p := range content.Paragraphs {
		if n := s.Normalizer.Normalize(p); n != "" {
			paragraphs = append(paragraphs, n)
		}
	}
	content.Paragraphs = paragraphs

	if !content.Valid() {
		logger.Warn("missing or empty article content")
		return nil
	}

	logger.Debug("article scraped", "paragraphs", len(paragraphs))
	return content
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}
