package blogsnap

import (
	"context"
	"net/url"
)

// Link is an href collected from a page. A Link that is not Valid is the
// null link: an anchor element that carried no href attribute.
type Link struct {
	URL   string
	Valid bool
}

// NewLink returns a valid Link for href.
func NewLink(href string) Link {
	return Link{URL: href, Valid: true}
}

// NullLink returns the null Link.
func NullLink() Link {
	return Link{}
}

// String returns the href, or "<null>" for the null link.
func (l Link) String() string {
	if !l.Valid {
		return "<null>"
	}
	return l.URL
}

// LinkSource discovers post links on an index page.
type LinkSource interface {
	// Links returns every link found on the page at pageURL, in
	// document order, including null links.
	// Returns EFETCH if the page cannot be retrieved and EPARSE if the
	// page does not have the expected structure.
	Links(ctx context.Context, pageURL string) ([]Link, error)
}

// ResolveLinks resolves links against base and returns absolute URLs.
// Null links are skipped. Links that are already absolute are returned
// unchanged.
func ResolveLinks(base string, links []Link) ([]string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return nil, Errorf(EINVALID, "invalid base URL: %v", err)
	}

	urls := make([]string, 0, len(links))
	for _, link := range links {
		if !link.Valid {
			continue
		}
		ref, err := url.Parse(link.URL)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid link %q: %v", link.URL, err)
		}
		urls = append(urls, b.ResolveReference(ref).String())
	}
	return urls, nil
}
