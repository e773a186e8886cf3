package scoop

// DefaultShortContentSelector is the teaser element read from article
// pages when a site does not configure its own.
const DefaultShortContentSelector = ".sortDec"

// SiteConfig describes how to scrape one news website.
type SiteConfig struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`

	// Static sites are fetched over plain HTTP and extracted without a
	// browser.
	Static bool `yaml:"static,omitempty" json:"static,omitempty"`

	Selectors        ListingSelectors `yaml:"selectors" json:"selectors"`
	ArticleSelectors ArticleSelectors `yaml:"articleSelectors" json:"articleSelectors"`
}

// ListingSelectors locate article cards on a homepage.
type ListingSelectors struct {
	// WaitFor lists structural markers awaited before extraction, in order.
	WaitFor     []string `yaml:"waitForSelectors" json:"waitForSelectors"`
	Headline    string   `yaml:"headlineSelector" json:"headlineSelector"`
	// Content is the card teaser. Catalog pass-through: listings carry no
	// summary text.
	Content     string   `yaml:"contentSelector" json:"contentSelector"`
	Image       string   `yaml:"imageSelector" json:"imageSelector"`
	ArticleLink string   `yaml:"articleLinkSelector" json:"articleLinkSelector"`
}

// ArticleSelectors locate content on a single article page.
type ArticleSelectors struct {
	Paragraph    string `yaml:"pSelector" json:"pSelector"`
	Date         string `yaml:"dateSelector" json:"dateSelector"`
	Image        string `yaml:"imageSelector" json:"imageSelector"`
	ShortContent string `yaml:"shortContentSelector,omitempty" json:"shortContentSelector,omitempty"`

	// Catalog pass-through fields. They are decoded and printed by
	// "scoop sites" so existing site configs load unchanged, but no
	// extraction reads them.
	FullContent string `yaml:"fullContentSelector,omitempty" json:"fullContentSelector,omitempty"`
	H1          string `yaml:"h1Selector,omitempty" json:"h1Selector,omitempty"`
	H2          string `yaml:"h2Selector,omitempty" json:"h2Selector,omitempty"`
	Likes       string `yaml:"likesSelector,omitempty" json:"likesSelector,omitempty"`
	Comments    string `yaml:"commentsSelector,omitempty" json:"commentsSelector,omitempty"`
}

// ShortContentSelector returns the configured teaser selector or the default.
func (s ArticleSelectors) ShortContentSelector() string {
	if s.ShortContent != "" {
		return s.ShortContent
	}
	return DefaultShortContentSelector
}

// Validate returns an error if the site contains invalid fields.
func (s *SiteConfig) Validate() error {
	if s.URL == "" {
		return Errorf(EINVALID, "site %q: url required", s.Name)
	}
	if s.Selectors.Headline == "" {
		return Errorf(EINVALID, "site %q: headline selector required", s.Name)
	}
	if s.ArticleSelectors.Paragraph == "" {
		return Errorf(EINVALID, "site %q: paragraph selector required", s.Name)
	}
	return nil
}

// SiteCatalog provides the configured sites.
type SiteCatalog interface {
	// FindSite returns the site with the given name.
	// Returns ENOTFOUND if no such site is configured.
	FindSite(name string) (*SiteConfig, error)

	// Sites returns all configured sites ordered by name.
	Sites() []*SiteConfig
}
