package main

import "github.com/fwojciec/scoop"

// Run executes the articles command.
func (c *ArticlesCmd) Run(deps *Dependencies) error {
	filter := scoop.ArticleFilter{Limit: c.Limit, Offset: c.Offset}
	if c.Site != "" {
		filter.Site = &c.Site
	}

	articles, err := deps.Articles.FindArticles(deps.Ctx, filter)
	if err != nil {
		return err
	}
	return writeJSON(deps.Stdout, articles)
}
