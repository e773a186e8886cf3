package scoop

import (
	"context"
	"time"
)

// Sentinels used when a listing card has no paired image or link.
const (
	NoImage = "No image"
	NoLink  = "No link"
)

// ArticleSummary is one card on a homepage listing.
type ArticleSummary struct {
	Title       string `json:"title"`
	Image       string `json:"image"`
	ArticleLink string `json:"articleLink"`
}

// HasLink reports whether the summary points at an article page.
func (s *ArticleSummary) HasLink() bool {
	return s.ArticleLink != "" && s.ArticleLink != NoLink
}

// ArticleContent is the body of a single article page.
type ArticleContent struct {
	ShortContent *string  `json:"shortContent"`
	Paragraphs   []string `json:"paragraphs"`
	Date         *string  `json:"date"`
	Image        *string  `json:"image"`
}

// Valid reports whether the content carries at least one paragraph.
func (c *ArticleContent) Valid() bool {
	return c != nil && len(c.Paragraphs) > 0
}

// Scraper drives page extraction for listing and article pages.
// Implementations return raw data: paragraphs are trimmed and non-empty
// but not normalized.
type Scraper interface {
	// ScrapeListing extracts article summaries from a homepage.
	ScrapeListing(ctx context.Context, url string, sel ListingSelectors) ([]*ArticleSummary, error)

	// ScrapeArticle extracts content from a single article page.
	ScrapeArticle(ctx context.Context, url string, sel ArticleSelectors) (*ArticleContent, error)

	// Close releases resources held by the scraper.
	Close() error
}

// Normalizer cleans extracted prose.
type Normalizer interface {
	// Normalize returns the cleaned form of s. It must be idempotent.
	Normalize(s string) string
}

// Article is a scraped article as persisted: a listing summary joined with
// its page content.
type Article struct {
	ID           string    `json:"id"`
	Site         string    `json:"site"`
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	Thumbnail    string    `json:"thumbnail"`
	ShortContent string    `json:"shortContent"`
	Paragraphs   []string  `json:"paragraphs"`
	Date         string    `json:"date"`
	Image        string    `json:"image"`
	ContentHash  string    `json:"contentHash"`
	Position     int       `json:"position"`
	ScrapedAt    time.Time `json:"scrapedAt"`
}

// NewArticle joins a listing summary and its content.
func NewArticle(site string, position int, summary *ArticleSummary, content *ArticleContent) *Article {
	a := &Article{
		Site:       site,
		URL:        summary.ArticleLink,
		Title:      summary.Title,
		Thumbnail:  summary.Image,
		Paragraphs: content.Paragraphs,
		Position:   position,
	}
	if content.ShortContent != nil {
		a.ShortContent = *content.ShortContent
	}
	if content.Date != nil {
		a.Date = *content.Date
	}
	if content.Image != nil {
		a.Image = *content.Image
	}
	return a
}

// Validate returns an error if the article contains invalid fields.
func (a *Article) Validate() error {
	if a.Site == "" {
		return Errorf(EINVALID, "article site required")
	}
	if a.URL == "" {
		return Errorf(EINVALID, "article URL required")
	}
	if len(a.Paragraphs) == 0 {
		return Errorf(EINVALID, "article paragraphs required")
	}
	return nil
}

// ArticleWriter writes articles to storage.
type ArticleWriter interface {
	CreateArticle(ctx context.Context, a *Article) error
}

// ArticleService represents a service for managing stored articles.
type ArticleService interface {
	// CreateArticle stores an article, replacing any article with the same URL.
	CreateArticle(ctx context.Context, a *Article) error

	// FindArticleByURL retrieves an article by URL.
	// Returns ENOTFOUND if the article does not exist.
	FindArticleByURL(ctx context.Context, url string) (*Article, error)

	// FindArticles retrieves articles matching the filter.
	FindArticles(ctx context.Context, filter ArticleFilter) ([]*Article, error)
}

// ArticleFilter represents a filter for FindArticles.
type ArticleFilter struct {
	Site *string `json:"site"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
