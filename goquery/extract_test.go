package goquery_test

import (
	"testing"

	"github.com/fwojciec/scoop"
	"github.com/fwojciec/scoop/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var listingSelectors = scoop.ListingSelectors{
	Headline:    ".card h2",
	Image:       ".card .thumb",
	ArticleLink: ".card a.read",
}

func TestExtractListing(t *testing.T) {
	t.Parallel()

	t.Run("pairs headlines with images and links by position", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div class="card"><h2> First </h2><figure class="thumb"><img src="/img/1.jpg"></figure><a class="read" href="/news/1">more</a></div>
<div class="card"><h2>Second</h2><figure class="thumb"><img data-src="https://cdn.example.com/2.jpg"></figure><a class="read" href="https://example.com/news/2">more</a></div>
</body></html>`

		summaries, err := goquery.ExtractListing(html, "https://example.com/", listingSelectors)

		require.NoError(t, err)
		assert.Equal(t, []*scoop.ArticleSummary{
			{Title: "First", Image: "https://example.com/img/1.jpg", ArticleLink: "https://example.com/news/1"},
			{Title: "Second", Image: "https://cdn.example.com/2.jpg", ArticleLink: "https://example.com/news/2"},
		}, summaries)
	})

	t.Run("fills sentinels when containers and links run out", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div class="card"><h2>One</h2><figure class="thumb"><img src="/1.jpg"></figure><a class="read" href="/1">more</a></div>
<div class="card"><h2>Two</h2><figure class="thumb"></figure></div>
<div class="card"><h2>Three</h2></div>
</body></html>`

		summaries, err := goquery.ExtractListing(html, "https://example.com/", listingSelectors)

		require.NoError(t, err)
		require.Len(t, summaries, 3)
		assert.Equal(t, scoop.NoImage, summaries[1].Image)
		assert.Equal(t, scoop.NoLink, summaries[1].ArticleLink)
		assert.Equal(t, scoop.NoImage, summaries[2].Image)
		assert.Equal(t, scoop.NoLink, summaries[2].ArticleLink)
	})

	t.Run("uses the container itself when it is an image", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><h2>Only</h2><img class="pic" src="pic.png"></body></html>`

		summaries, err := goquery.ExtractListing(html, "https://example.com/section/", scoop.ListingSelectors{
			Headline: "h2",
			Image:    "img.pic",
		})

		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.Equal(t, "https://example.com/section/pic.png", summaries[0].Image)
		assert.Equal(t, scoop.NoLink, summaries[0].ArticleLink)
	})

	t.Run("keeps a card whose lazy image URL is malformed", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div class="card"><h2>A</h2><figure class="thumb"><img data-src="http://[bad"></figure><a class="read" href="/a">more</a></div>
<div class="card"><h2>B</h2><figure class="thumb"><img src="/b.jpg"></figure><a class="read" href="/b">more</a></div>
</body></html>`

		summaries, err := goquery.ExtractListing(html, "https://example.com/", listingSelectors)

		require.NoError(t, err)
		require.Len(t, summaries, 2)
		assert.Equal(t, &scoop.ArticleSummary{Title: "A", Image: "http://[bad", ArticleLink: "https://example.com/a"}, summaries[0])
		assert.Equal(t, "https://example.com/b.jpg", summaries[1].Image)
	})

	t.Run("returns empty slice when no headlines match", func(t *testing.T) {
		t.Parallel()

		summaries, err := goquery.ExtractListing(`<html><body><p>nothing</p></body></html>`, "https://example.com/", listingSelectors)

		require.NoError(t, err)
		assert.NotNil(t, summaries)
		assert.Empty(t, summaries)
	})

	t.Run("rejects invalid page URL", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.ExtractListing(`<html></html>`, "://bad", listingSelectors)

		assert.Equal(t, scoop.EINVALID, scoop.ErrorCode(err))
	})
}

func TestExtractArticle(t *testing.T) {
	t.Parallel()

	sel := scoop.ArticleSelectors{
		Paragraph: ".story p",
		Date:      ".dateTime",
		Image:     ".hero img",
	}

	t.Run("extracts all fields", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<h2 class="sortDec">  Teaser text </h2>
<div class="dateTime">Updated on Oct 19, 2026</div>
<div class="hero"><img data-src="/hero.jpg"></div>
<div class="story"><p>One.</p><p>   </p><p>Two.</p></div>
</body></html>`

		content, err := goquery.ExtractArticle(html, "https://example.com/news/1", sel)

		require.NoError(t, err)
		assert.Equal(t, []string{"One.", "Two."}, content.Paragraphs)
		require.NotNil(t, content.ShortContent)
		assert.Equal(t, "Teaser text", *content.ShortContent)
		require.NotNil(t, content.Date)
		assert.Equal(t, "Updated on Oct 19, 2026", *content.Date)
		require.NotNil(t, content.Image)
		assert.Equal(t, "https://example.com/hero.jpg", *content.Image)
		assert.True(t, content.Valid())
	})

	t.Run("absent fields are nil and content is invalid", func(t *testing.T) {
		t.Parallel()

		content, err := goquery.ExtractArticle(`<html><body><div>no story</div></body></html>`, "https://example.com/news/1", sel)

		require.NoError(t, err)
		assert.Empty(t, content.Paragraphs)
		assert.Nil(t, content.ShortContent)
		assert.Nil(t, content.Date)
		assert.Nil(t, content.Image)
		assert.False(t, content.Valid())
	})

	t.Run("honors configured teaser selector", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><p class="lede">Lede</p><div class="sortDec">Default</div></body></html>`
		custom := sel
		custom.ShortContent = ".lede"

		content, err := goquery.ExtractArticle(html, "https://example.com/", custom)

		require.NoError(t, err)
		require.NotNil(t, content.ShortContent)
		assert.Equal(t, "Lede", *content.ShortContent)
	})
}
