// Package yaml loads the site catalog from YAML documents.
package yaml

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fwojciec/scoop"
	"gopkg.in/yaml.v3"
)

//go:embed sites.yaml
var defaultSites []byte

// Ensure Catalog implements scoop.SiteCatalog at compile time.
var _ scoop.SiteCatalog = (*Catalog)(nil)

// Catalog is an immutable set of site configurations keyed by name.
type Catalog struct {
	sites map[string]*scoop.SiteConfig
}

type catalogFile struct {
	Sites map[string]*scoop.SiteConfig `yaml:"sites"`
}

// ParseCatalog decodes a catalog document. Site names come from the keys
// under "sites"; every site is validated.
func ParseCatalog(r io.Reader) (*Catalog, error) {
	var f catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, scoop.Errorf(scoop.EINVALID, "failed to parse catalog: %v", err)
	}

	c := &Catalog{sites: make(map[string]*scoop.SiteConfig, len(f.Sites))}
	for name, site := range f.Sites {
		if site == nil {
			return nil, scoop.Errorf(scoop.EINVALID, "site %q: empty definition", name)
		}
		site.Name = name
		if err := site.Validate(); err != nil {
			return nil, err
		}
		c.sites[name] = site
	}
	return c, nil
}

// LoadCatalog reads a catalog from a file.
func LoadCatalog(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer file.Close()

	return ParseCatalog(file)
}

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(bytes.NewReader(defaultSites))
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// FindSite returns the named site. Returns ENOTFOUND if it is not in the
// catalog.
func (c *Catalog) FindSite(name string) (*scoop.SiteConfig, error) {
	site, ok := c.sites[name]
	if !ok {
		return nil, scoop.Errorf(scoop.ENOTFOUND, "site %q not found", name)
	}
	return site, nil
}

// Sites returns every site ordered by name.
func (c *Catalog) Sites() []*scoop.SiteConfig {
	sites := make([]*scoop.SiteConfig, 0, len(c.sites))
	for _, site := range c.sites {
		sites = append(sites, site)
	}
	sort.Slice(sites, func(i, j int) bool { return sites[i].Name < sites[j].Name })
	return sites
}
