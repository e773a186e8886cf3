package main

import (
	"fmt"

	"github.com/fwojciec/scoop"
	"github.com/fwojciec/scoop/scrape"
)

func findSite(deps *Dependencies, name string) (*scoop.SiteConfig, error) {
	site, err := deps.Catalog.FindSite(name)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scoop.ErrorMessage(err))
		return nil, err
	}
	return site, nil
}

func newService(deps *Dependencies, site *scoop.SiteConfig) *scrape.Service {
	return &scrape.Service{
		Scraper:    deps.Scrapers(site),
		Normalizer: deps.Normalizer,
		Logger:     deps.Logger,
	}
}

// Run executes the listing command.
func (c *ListingCmd) Run(deps *Dependencies) error {
	site, err := findSite(deps, c.Site)
	if err != nil {
		return err
	}

	summaries, err := newService(deps, site).ScrapeListing(deps.Ctx, site)
	if err != nil {
		return err
	}
	return writeJSON(deps.Stdout, summaries)
}

// Run executes the article command. It prints null when the page has no
// usable content.
func (c *ArticleCmd) Run(deps *Dependencies) error {
	site, err := findSite(deps, c.Site)
	if err != nil {
		return err
	}

	content := newService(deps, site).ScrapeArticle(deps.Ctx, c.URL, site)
	return writeJSON(deps.Stdout, content)
}
