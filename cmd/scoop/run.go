package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fwojciec/scoop"
	"github.com/fwojciec/scoop/fs"
	"github.com/fwojciec/scoop/scrape"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	site, err := findSite(deps, c.Site)
	if err != nil {
		return err
	}

	var writers multiWriter
	if deps.Articles != nil {
		writers = append(writers, deps.Articles)
	}
	var store *fs.ArticleStore
	if c.Out != "" {
		store = fs.NewArticleStore(filepath.Dir(c.Out), filepath.Base(c.Out))
		writers = append(writers, store)
	}
	if len(writers) == 0 {
		return scoop.Errorf(scoop.EINVALID, "no output configured: set --db or --out")
	}

	runner := &scrape.Runner{
		Service:     newService(deps, site),
		Articles:    writers,
		RateLimiter: scrape.NewDomainLimiter(c.RPS, 1),
		Concurrency: c.Concurrency,
	}

	logger := deps.Logger.With("site", site.Name)
	result, err := runner.Run(deps.Ctx, site, func(e scrape.ProgressEvent) {
		switch e.Type {
		case scrape.ProgressFailed:
			logger.Warn("article not saved", "url", e.URL, "progress", fmt.Sprintf("%d/%d", e.Completed, e.Total), "err", e.Error)
		case scrape.ProgressEmpty:
			logger.Info("article has no content", "url", e.URL, "progress", fmt.Sprintf("%d/%d", e.Completed, e.Total))
		case scrape.ProgressStarted, scrape.ProgressFinished:
			logger.Info("run "+e.Type.String(), "total", e.Total)
		default:
			logger.Debug("article "+e.Type.String(), "url", e.URL, "progress", fmt.Sprintf("%d/%d", e.Completed, e.Total))
		}
	})
	if err != nil {
		if store != nil {
			_ = store.Abort()
		}
		return err
	}

	if store != nil {
		if err := store.Commit(); err != nil {
			return fmt.Errorf("failed to commit %s: %w", c.Out, err)
		}
	}
	return writeJSON(deps.Stdout, result)
}

// multiWriter writes each article to every writer in turn.
type multiWriter []scoop.ArticleWriter

func (w multiWriter) CreateArticle(ctx context.Context, a *scoop.Article) error {
	var errs []error
	for _, next := range w {
		if err := next.CreateArticle(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
