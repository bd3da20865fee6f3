// Package goquery implements blogsnap.PageParser on top of goquery.
package goquery

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/blogsnap"
)

// Ensure Parser implements blogsnap.PageParser at compile time.
var _ blogsnap.PageParser = (*Parser)(nil)

// Parser locates the entry header and entry content regions of a blog page
// using the selectors of a blogsnap.Layout.
type Parser struct {
	layout blogsnap.Layout
}

// NewParser creates a new Parser for the given layout.
func NewParser(layout blogsnap.Layout) *Parser {
	return &Parser{layout: layout}
}

// ParseLinks returns every anchor href inside the entry content region.
// Anchors without an href attribute yield null links so that callers see
// exactly what the page contains.
func (p *Parser) ParseLinks(html string) ([]blogsnap.Link, error) {
	doc, err := parse(html)
	if err != nil {
		return nil, err
	}

	content, err := p.content(doc)
	if err != nil {
		return nil, err
	}

	var links []blogsnap.Link
	content.Find("a").Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists {
			links = append(links, blogsnap.NullLink())
			return
		}
		links = append(links, blogsnap.NewLink(href))
	})

	return links, nil
}

// ParsePost returns the post title and its paragraph-level elements.
func (p *Parser) ParsePost(html string, pageURL string) (*blogsnap.PostPage, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, blogsnap.Errorf(blogsnap.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := parse(html)
	if err != nil {
		return nil, err
	}

	title, err := p.title(doc)
	if err != nil {
		return nil, err
	}

	content, err := p.content(doc)
	if err != nil {
		return nil, err
	}

	page := &blogsnap.PostPage{URL: pageURL, Title: title}
	content.Find(p.layout.Paragraph).Each(func(_ int, sel *goquery.Selection) {
		page.Paragraphs = append(page.Paragraphs, paragraph(sel, base))
	})

	return page, nil
}

func parse(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, blogsnap.Errorf(blogsnap.EPARSE, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

// root returns the first element matching the layout root.
func (p *Parser) root(doc *goquery.Document) (*goquery.Selection, error) {
	root := doc.Find(p.layout.Root).First()
	if root.Length() == 0 {
		return nil, blogsnap.Errorf(blogsnap.EPARSE, "root element %q not found", p.layout.Root)
	}
	return root, nil
}

func (p *Parser) content(doc *goquery.Document) (*goquery.Selection, error) {
	root, err := p.root(doc)
	if err != nil {
		return nil, err
	}
	content := root.Find(p.layout.Content).First()
	if content.Length() == 0 {
		return nil, blogsnap.Errorf(blogsnap.EPARSE, "entry content %q not found", p.layout.Content)
	}
	return content, nil
}

func (p *Parser) title(doc *goquery.Document) (string, error) {
	root, err := p.root(doc)
	if err != nil {
		return "", err
	}
	header := root.Find(p.layout.Header).First()
	if header.Length() == 0 {
		return "", blogsnap.Errorf(blogsnap.EPARSE, "entry header %q not found", p.layout.Header)
	}

	if p.layout.Heading != "" {
		if heading := header.Find(p.layout.Heading).First(); heading.Length() > 0 {
			if title := normalizeSpace(heading.Text()); title != "" {
				return title, nil
			}
		}
	}
	return normalizeSpace(header.Text()), nil
}

// paragraph converts a paragraph element. The paragraph text excludes any
// image, and only the first image is kept.
func paragraph(sel *goquery.Selection, base *url.URL) blogsnap.Paragraph {
	para := blogsnap.Paragraph{
		Text: normalizeSpace(sel.Text()),
	}

	if img := sel.Find("img").First(); img.Length() > 0 {
		src, ok := img.Attr("src")
		if !ok || strings.TrimSpace(src) == "" {
			// Lazy-loading themes keep the real source here.
			src, ok = img.Attr("data-src")
		}
		if ok && strings.TrimSpace(src) != "" {
			para.Image = &blogsnap.ImageRef{
				Src:   resolveURL(base, strings.TrimSpace(src)),
				Width: parseWidth(img.AttrOr("width", "")),
			}
		}
	}

	clone := sel.Clone()
	clone.Find("img").Remove()
	if html, err := goquery.OuterHtml(clone); err == nil {
		para.HTML = html
	}

	return para
}

// resolveURL resolves a possibly relative src against the page URL.
// Unparseable sources are returned unchanged so the download reports them.
func resolveURL(base *url.URL, src string) string {
	ref, err := url.Parse(src)
	if err != nil {
		return src
	}
	return base.ResolveReference(ref).String()
}

// parseWidth parses a width attribute such as "640" or "640px".
// Returns 0 if the attribute is absent or not a positive integer.
func parseWidth(s string) int {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// normalizeSpace collapses runs of whitespace into single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
