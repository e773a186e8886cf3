package main

import "github.com/fwojciec/scoop"

// Run executes the sites command.
func (c *SitesCmd) Run(deps *Dependencies) error {
	sites := deps.Catalog.Sites()
	if sites == nil {
		sites = []*scoop.SiteConfig{}
	}
	return writeJSON(deps.Stdout, sites)
}
