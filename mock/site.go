package mock

import "github.com/fwojciec/scoop"

var _ scoop.SiteCatalog = (*SiteCatalog)(nil)

// SiteCatalog is a mock implementation of scoop.SiteCatalog.
type SiteCatalog struct {
	FindSiteFn func(name string) (*scoop.SiteConfig, error)
	SitesFn    func() []*scoop.SiteConfig
}

func (c *SiteCatalog) FindSite(name string) (*scoop.SiteConfig, error) {
	return c.FindSiteFn(name)
}

func (c *SiteCatalog) Sites() []*scoop.SiteConfig {
	return c.SitesFn()
}
