package scrape

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fwojciec/scoop"
	"github.com/fwojciec/scoop/bloom"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of article pages scraped at once.
const DefaultConcurrency = 3

// linkFalsePositiveRate bounds how often a fresh link is mistaken for a
// duplicate.
const linkFalsePositiveRate = 0.001

// Runner scrapes a site's listing and then every article it links to.
type Runner struct {
	Service     *Service
	Articles    scoop.ArticleWriter
	RateLimiter scoop.DomainLimiter
	Concurrency int
}

// Result holds the outcome of a run.
type Result struct {
	Listed  int
	Saved   int
	Skipped int
	Empty   int
	Failed  int
}

// ProgressEvent reports progress during a run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressSkipped
	ProgressFailed
	ProgressFinished

	// ProgressEmpty marks an article page that yielded no content.
	ProgressEmpty
)

func (t ProgressType) String() string {
	switch t {
	case ProgressStarted:
		return "started"
	case ProgressCompleted:
		return "completed"
	case ProgressSkipped:
		return "skipped"
	case ProgressFailed:
		return "failed"
	case ProgressFinished:
		return "finished"
	case ProgressEmpty:
		return "empty"
	default:
		return fmt.Sprintf("ProgressType(%d)", int(t))
	}
}

// ProgressFunc is a callback for reporting run progress.
type ProgressFunc func(event ProgressEvent)

type job struct {
	position int
	summary  *scoop.ArticleSummary
}

type jobResult struct {
	index   int
	content *scoop.ArticleContent
	err     error
}

// Run scrapes the site's listing, then its articles with bounded
// concurrency, and writes valid articles in listing order. A listing
// failure aborts the run. Articles without a link or already seen in this
// run are skipped.
func (r *Runner) Run(ctx context.Context, site *scoop.SiteConfig, progress ProgressFunc) (*Result, error) {
	if progress == nil {
		progress = func(ProgressEvent) {}
	}

	summaries, err := r.Service.ScrapeListing(ctx, site)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", site.Name, err)
	}

	result := &Result{Listed: len(summaries)}
	total := len(summaries)
	progress(ProgressEvent{Type: ProgressStarted, Total: total})

	links := bloom.NewLinkSet(uint(max(total, 1)), linkFalsePositiveRate)
	var jobs []job
	var completed int
	for i, s := range summaries {
		if !s.HasLink() || links.Seen(s.ArticleLink) {
			result.Skipped++
			completed++
			progress(ProgressEvent{Type: ProgressSkipped, Completed: completed, Total: total, URL: s.ArticleLink})
			continue
		}
		jobs = append(jobs, job{position: i, summary: s})
	}

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan jobResult, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, j := range jobs {
			g.Go(func() error {
				resultCh <- r.scrapeArticle(gctx, i, j, site)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	contents := make([]*scoop.ArticleContent, len(jobs))
	for res := range resultCh {
		completed++
		n := completed
		link := jobs[res.index].summary.ArticleLink
		switch {
		case res.err != nil:
			result.Failed++
			progress(ProgressEvent{Type: ProgressFailed, Completed: n, Total: total, URL: link, Error: res.err})
		case res.content == nil:
			result.Empty++
			progress(ProgressEvent{Type: ProgressEmpty, Completed: n, Total: total, URL: link})
		default:
			contents[res.index] = res.content
			progress(ProgressEvent{Type: ProgressCompleted, Completed: n, Total: total, URL: link})
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	for i, j := range jobs {
		if contents[i] == nil {
			continue
		}
		article := scoop.NewArticle(site.Name, j.position, j.summary, contents[i])
		if err := r.Articles.CreateArticle(ctx, article); err != nil {
			result.Failed++
			progress(ProgressEvent{Type: ProgressFailed, Completed: total, Total: total, URL: article.URL, Error: err})
			continue
		}
		result.Saved++
	}

	progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	return result, nil
}

func (r *Runner) scrapeArticle(ctx context.Context, index int, j job, site *scoop.SiteConfig) jobResult {
	res := jobResult{index: index}
	link := j.summary.ArticleLink

	if r.RateLimiter != nil {
		u, err := url.Parse(link)
		if err != nil {
			res.err = scoop.Errorf(scoop.EINVALID, "invalid article URL %q: %v", link, err)
			return res
		}
		if err := r.RateLimiter.Wait(ctx, u.Hostname()); err != nil {
			res.err = err
			return res
		}
	}

	res.content = r.Service.ScrapeArticle(ctx, link, site)
	return res
}
