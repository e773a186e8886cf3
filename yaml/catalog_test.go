package yaml_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/scoop"
	"github.com/fwojciec/scoop/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoSites = `
sites:
  zeta:
    url: https://zeta.example.com/
    static: true
    selectors:
      headlineSelector: h2 a
      articleLinkSelector: h2 a
    articleSelectors:
      pSelector: article p
  alpha:
    url: https://alpha.example.com/
    selectors:
      waitForSelectors: [".card", "figure"]
      headlineSelector: .card h3
      imageSelector: figure
    articleSelectors:
      pSelector: .body p
      shortContentSelector: .lede
`

func TestParseCatalog(t *testing.T) {
	t.Parallel()

	t.Run("names sites by key and sorts them", func(t *testing.T) {
		t.Parallel()

		c, err := yaml.ParseCatalog(strings.NewReader(twoSites))
		require.NoError(t, err)

		sites := c.Sites()
		require.Len(t, sites, 2)
		assert.Equal(t, "alpha", sites[0].Name)
		assert.Equal(t, "zeta", sites[1].Name)
		assert.True(t, sites[1].Static)
		assert.Equal(t, []string{".card", "figure"}, sites[0].Selectors.WaitFor)
		assert.Equal(t, ".lede", sites[0].ArticleSelectors.ShortContentSelector())
	})

	t.Run("rejects invalid site", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.ParseCatalog(strings.NewReader(`
sites:
  broken:
    selectors:
      headlineSelector: h2
`))
		assert.Equal(t, scoop.EINVALID, scoop.ErrorCode(err))
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.ParseCatalog(strings.NewReader(`
sites:
  a:
    url: https://a.example.com/
    selector: {}
`))
		assert.Equal(t, scoop.EINVALID, scoop.ErrorCode(err))
	})

	t.Run("empty document is an empty catalog", func(t *testing.T) {
		t.Parallel()

		c, err := yaml.ParseCatalog(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, c.Sites())
	})
}

func TestCatalog_FindSite(t *testing.T) {
	t.Parallel()

	c, err := yaml.ParseCatalog(strings.NewReader(twoSites))
	require.NoError(t, err)

	site, err := c.FindSite("zeta")
	require.NoError(t, err)
	assert.Equal(t, "https://zeta.example.com/", site.URL)

	_, err = c.FindSite("missing")
	assert.Equal(t, scoop.ENOTFOUND, scoop.ErrorCode(err))
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sites.yaml")
	require.NoError(t, os.WriteFile(path, []byte(twoSites), 0o644))

	c, err := yaml.LoadCatalog(path)
	require.NoError(t, err)
	assert.Len(t, c.Sites(), 2)

	_, err = yaml.LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultCatalog(t *testing.T) {
	t.Parallel()

	site, err := yaml.DefaultCatalog().FindSite("hindustanTimes")
	require.NoError(t, err)

	assert.Equal(t, "https://www.hindustantimes.com/", site.URL)
	assert.Equal(t, []string{".hdg3", ".sortDec", "figure"}, site.Selectors.WaitFor)
	assert.Equal(t, ".hdg3 a", site.Selectors.Headline)
	assert.Equal(t, ".story__detail p", site.ArticleSelectors.Paragraph)
	assert.Equal(t, ".sortDec", site.ArticleSelectors.ShortContentSelector())
}

func TestDefaultCatalog_KeepsPassThroughSelectors(t *testing.T) {
	t.Parallel()

	site, err := yaml.DefaultCatalog().FindSite("hindustanTimes")
	require.NoError(t, err)

	assert.Equal(t, ".sortDec", site.Selectors.Content)
	assert.Equal(t, ".story__detail", site.ArticleSelectors.FullContent)
	assert.Equal(t, "h1", site.ArticleSelectors.H1)
	assert.Equal(t, "h2", site.ArticleSelectors.H2)
	assert.Equal(t, ".likes", site.ArticleSelectors.Likes)
	assert.Equal(t, ".comments", site.ArticleSelectors.Comments)
}
