// Package slog provides logging decorators for scoop services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/scoop"
)

// Ensure LoggingScraper implements scoop.Scraper.
var _ scoop.Scraper = (*LoggingScraper)(nil)

// LoggingScraper wraps a Scraper with per-call logging.
type LoggingScraper struct {
	next   scoop.Scraper
	logger *slog.Logger
}

// NewLoggingScraper creates a new LoggingScraper.
func NewLoggingScraper(next scoop.Scraper, logger *slog.Logger) *LoggingScraper {
	return &LoggingScraper{next: next, logger: logger}
}

// ScrapeListing logs the URL, article count and duration.
func (s *LoggingScraper) ScrapeListing(ctx context.Context, url string, sel scoop.ListingSelectors) (summaries []*scoop.ArticleSummary, err error) {
	defer func(begin time.Time) {
		s.logger.Info("scrape listing",
			"url", url,
			"articles", len(summaries),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ScrapeListing(ctx, url, sel)
}

// ScrapeArticle logs the URL, paragraph count and duration.
func (s *LoggingScraper) ScrapeArticle(ctx context.Context, url string, sel scoop.ArticleSelectors) (content *scoop.ArticleContent, err error) {
	defer func(begin time.Time) {
		var paragraphs int
		if content != nil {
			paragraphs = len(content.Paragraphs)
		}
		s.logger.Info("scrape article",
			"url", url,
			"paragraphs", paragraphs,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ScrapeArticle(ctx, url, sel)
}

// Close delegates to the wrapped scraper.
func (s *LoggingScraper) Close() error {
	return s.next.Close()
}
