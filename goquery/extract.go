// Package goquery extracts listing and article data from static HTML.
//
// The rules match the in-browser extraction used by the rod package:
// headline i pairs with image container i and article link i, missing
// values fall back to the scoop.NoImage and scoop.NoLink sentinels.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/scoop"
)

// ExtractListing returns one summary per headline in document order.
// Relative image and link URLs are resolved against pageURL.
func ExtractListing(html string, pageURL string, sel scoop.ListingSelectors) ([]*scoop.ArticleSummary, error) {
	base, doc, err := parse(html, pageURL)
	if err != nil {
		return nil, err
	}

	containers := find(doc, sel.Image)
	links := find(doc, sel.ArticleLink)

	summaries := []*scoop.ArticleSummary{}
	find(doc, sel.Headline).Each(func(i int, headline *goquery.Selection) {
		summary := &scoop.ArticleSummary{
			Title:       strings.TrimSpace(headline.Text()),
			Image:       scoop.NoImage,
			ArticleLink: scoop.NoLink,
		}
		if i < containers.Length() {
			if src := imageSource(base, containerImage(containers.Eq(i))); src != "" {
				summary.Image = src
			}
		}
		if i < links.Length() {
			if href, ok := links.Eq(i).Attr("href"); ok {
				if resolved := resolveURL(base, href); resolved != "" {
					summary.ArticleLink = resolved
				}
			}
		}
		summaries = append(summaries, summary)
	})
	return summaries, nil
}

// ExtractArticle reads the teaser, paragraphs, date and lead image of an
// article page. Paragraphs are trimmed and empty ones discarded; absent
// fields are nil.
func ExtractArticle(html string, pageURL string, sel scoop.ArticleSelectors) (*scoop.ArticleContent, error) {
	base, doc, err := parse(html, pageURL)
	if err != nil {
		return nil, err
	}

	content := &scoop.ArticleContent{
		ShortContent: firstText(doc, sel.ShortContentSelector()),
		Paragraphs:   []string{},
		Date:         firstText(doc, sel.Date),
	}
	find(doc, sel.Paragraph).Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			content.Paragraphs = append(content.Paragraphs, text)
		}
	})
	if src := imageSource(base, find(doc, sel.Image).First()); src != "" {
		content.Image = &src
	}
	return content, nil
}

func parse(html string, pageURL string) (*url.URL, *goquery.Document, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, nil, scoop.Errorf(scoop.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, nil, scoop.Errorf(scoop.EINVALID, "failed to parse HTML: %v", err)
	}
	return base, doc, nil
}

// find returns an empty selection for an empty selector.
func find(doc *goquery.Document, selector string) *goquery.Selection {
	if selector == "" {
		return doc.Selection.Slice(0, 0)
	}
	return doc.Find(selector)
}

func firstText(doc *goquery.Document, selector string) *string {
	text := strings.TrimSpace(find(doc, selector).First().Text())
	if text == "" {
		return nil
	}
	return &text
}

// containerImage returns the container itself when it is an img, otherwise
// its first descendant img.
func containerImage(container *goquery.Selection) *goquery.Selection {
	if goquery.NodeName(container) == "img" {
		return container
	}
	return container.Find("img").First()
}

// imageSource returns the resolved src, falling back to data-src.
func imageSource(base *url.URL, img *goquery.Selection) string {
	if img.Length() == 0 {
		return ""
	}
	for _, attr := range []string{"src", "data-src"} {
		if v, ok := img.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return resolveURL(base, v)
		}
	}
	return ""
}

// resolveURL resolves a possibly relative URL against base. An href that
// cannot be parsed is returned trimmed but otherwise as written, the way
// browsers report unresolvable src and href values.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
