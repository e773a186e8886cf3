package scrape_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/scoop"
	"github.com/fwojciec/scoop/mock"
	"github.com/fwojciec/scoop/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identity() *mock.Normalizer {
	return &mock.Normalizer{NormalizeFn: func(s string) string { return s }}
}

func collectWriter() (*mock.ArticleWriter, func() []*scoop.Article) {
	var mu sync.Mutex
	var saved []*scoop.Article
	w := &mock.ArticleWriter{
		CreateArticleFn: func(_ context.Context, a *scoop.Article) error {
			mu.Lock()
			defer mu.Unlock()
			saved = append(saved, a)
			return nil
		},
	}
	return w, func() []*scoop.Article {
		mu.Lock()
		defer mu.Unlock()
		return saved
	}
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	t.Run("saves articles in listing order and counts outcomes", func(t *testing.T) {
		t.Parallel()

		listing := []*scoop.ArticleSummary{
			{Title: "Slow", Image: "https://example.com/1.jpg", ArticleLink: "https://example.com/1"},
			{Title: "No link", Image: scoop.NoImage, ArticleLink: scoop.NoLink},
			{Title: "Fast", Image: scoop.NoImage, ArticleLink: "https://example.com/2"},
			{Title: "Dup", Image: scoop.NoImage, ArticleLink: "https://example.com/2"},
			{Title: "Empty", Image: scoop.NoImage, ArticleLink: "https://example.com/3"},
		}
		scraper := &mock.Scraper{
			ScrapeListingFn: func(context.Context, string, scoop.ListingSelectors) ([]*scoop.ArticleSummary, error) {
				return listing, nil
			},
			ScrapeArticleFn: func(_ context.Context, url string, _ scoop.ArticleSelectors) (*scoop.ArticleContent, error) {
				switch url {
				case "https://example.com/1":
					time.Sleep(20 * time.Millisecond)
					return &scoop.ArticleContent{Paragraphs: []string{"one"}}, nil
				case "https://example.com/2":
					return &scoop.ArticleContent{Paragraphs: []string{"two"}}, nil
				default:
					return &scoop.ArticleContent{Paragraphs: []string{}}, nil
				}
			},
		}
		writer, saved := collectWriter()
		runner := &scrape.Runner{
			Service:  &scrape.Service{Scraper: scraper, Normalizer: identity()},
			Articles: writer,
		}

		var events []scrape.ProgressEvent
		result, err := runner.Run(context.Background(), testSite(), func(e scrape.ProgressEvent) {
			events = append(events, e)
		})

		require.NoError(t, err)
		assert.Equal(t, &scrape.Result{Listed: 5, Saved: 2, Skipped: 2, Empty: 1}, result)

		articles := saved()
		require.Len(t, articles, 2)
		assert.Equal(t, "Slow", articles[0].Title)
		assert.Equal(t, 0, articles[0].Position)
		assert.Equal(t, "example", articles[0].Site)
		assert.Equal(t, "https://example.com/1.jpg", articles[0].Thumbnail)
		assert.Equal(t, "Fast", articles[1].Title)
		assert.Equal(t, 2, articles[1].Position)

		require.NotEmpty(t, events)
		assert.Equal(t, scrape.ProgressStarted, events[0].Type)
		assert.Equal(t, 5, events[0].Total)
		assert.Equal(t, scrape.ProgressFinished, events[len(events)-1].Type)

		var empty []scrape.ProgressEvent
		for _, e := range events {
			assert.NotEqual(t, scrape.ProgressFailed, e.Type, "no article failed in this run")
			if e.Type == scrape.ProgressEmpty {
				empty = append(empty, e)
			}
		}
		require.Len(t, empty, 1)
		assert.Equal(t, "https://example.com/3", empty[0].URL)
		assert.NoError(t, empty[0].Error)
	})

	t.Run("listing failure aborts the run", func(t *testing.T) {
		t.Parallel()

		scraper := &mock.Scraper{
			ScrapeListingFn: func(context.Context, string, scoop.ListingSelectors) ([]*scoop.ArticleSummary, error) {
				return nil, scoop.Errorf(scoop.ETIMEOUT, "navigating: timed out")
			},
		}
		runner := &scrape.Runner{
			Service:  &scrape.Service{Scraper: scraper, Normalizer: identity()},
			Articles: &mock.ArticleWriter{},
		}

		_, err := runner.Run(context.Background(), testSite(), nil)

		require.Error(t, err)
		assert.Equal(t, scoop.ETIMEOUT, scoop.ErrorCode(err))
	})

	t.Run("article failures do not stop the batch", func(t *testing.T) {
		t.Parallel()

		scraper := &mock.Scraper{
			ScrapeListingFn: func(context.Context, string, scoop.ListingSelectors) ([]*scoop.ArticleSummary, error) {
				return []*scoop.ArticleSummary{
					{Title: "Broken", ArticleLink: "https://example.com/broken"},
					{Title: "Fine", ArticleLink: "https://example.com/fine"},
				}, nil
			},
			ScrapeArticleFn: func(_ context.Context, url string, _ scoop.ArticleSelectors) (*scoop.ArticleContent, error) {
				if url == "https://example.com/broken" {
					return nil, errors.New("browser crashed")
				}
				return &scoop.ArticleContent{Paragraphs: []string{"ok"}}, nil
			},
		}
		writer, saved := collectWriter()
		runner := &scrape.Runner{
			Service:  &scrape.Service{Scraper: scraper, Normalizer: identity()},
			Articles: writer,
		}

		result, err := runner.Run(context.Background(), testSite(), nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Saved)
		assert.Equal(t, 1, result.Empty)
		require.Len(t, saved(), 1)
		assert.Equal(t, "Fine", saved()[0].Title)
	})

	t.Run("limits concurrency and rate limits by host", func(t *testing.T) {
		t.Parallel()

		var listing []*scoop.ArticleSummary
		for _, p := range []string{"a", "b", "c", "d", "e", "f"} {
			listing = append(listing, &scoop.ArticleSummary{Title: p, ArticleLink: "https://news.example.com/" + p})
		}

		var inFlight, peak atomic.Int32
		scraper := &mock.Scraper{
			ScrapeListingFn: func(context.Context, string, scoop.ListingSelectors) ([]*scoop.ArticleSummary, error) {
				return listing, nil
			},
			ScrapeArticleFn: func(context.Context, string, scoop.ArticleSelectors) (*scoop.ArticleContent, error) {
				n := inFlight.Add(1)
				defer inFlight.Add(-1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				return &scoop.ArticleContent{Paragraphs: []string{"x"}}, nil
			},
		}
		var hosts sync.Map
		var waits atomic.Int32
		limiter := &mock.DomainLimiter{
			WaitFn: func(_ context.Context, domain string) error {
				waits.Add(1)
				hosts.Store(domain, true)
				return nil
			},
		}
		writer, _ := collectWriter()
		runner := &scrape.Runner{
			Service:     &scrape.Service{Scraper: scraper, Normalizer: identity()},
			Articles:    writer,
			RateLimiter: limiter,
			Concurrency: 2,
		}

		result, err := runner.Run(context.Background(), testSite(), nil)

		require.NoError(t, err)
		assert.Equal(t, 6, result.Saved)
		assert.LessOrEqual(t, peak.Load(), int32(2))
		assert.Equal(t, int32(6), waits.Load())
		_, ok := hosts.Load("news.example.com")
		assert.True(t, ok)
	})

	t.Run("write failures are counted", func(t *testing.T) {
		t.Parallel()

		scraper := &mock.Scraper{
			ScrapeListingFn: func(context.Context, string, scoop.ListingSelectors) ([]*scoop.ArticleSummary, error) {
				return []*scoop.ArticleSummary{{Title: "A", ArticleLink: "https://example.com/a"}}, nil
			},
			ScrapeArticleFn: func(context.Context, string, scoop.ArticleSelectors) (*scoop.ArticleContent, error) {
				return &scoop.ArticleContent{Paragraphs: []string{"x"}}, nil
			},
		}
		runner := &scrape.Runner{
			Service: &scrape.Service{Scraper: scraper, Normalizer: identity()},
			Articles: &mock.ArticleWriter{
				CreateArticleFn: func(context.Context, *scoop.Article) error {
					return errors.New("disk full")
				},
			},
		}

		result, err := runner.Run(context.Background(), testSite(), nil)

		require.NoError(t, err)
		assert.Equal(t, 0, result.Saved)
		assert.Equal(t, 1, result.Failed)
	})
}

func TestProgressType_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "skipped", scrape.ProgressSkipped.String())
	assert.Equal(t, "finished", scrape.ProgressFinished.String())
	assert.Equal(t, "empty", scrape.ProgressEmpty.String())
}
