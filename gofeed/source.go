// Package gofeed discovers post links from an RSS or Atom feed.
package gofeed

import (
	"context"
	"strings"

	"github.com/fwojciec/blogsnap"
	"github.com/mmcdole/gofeed"
)

// Ensure Source implements blogsnap.LinkSource at compile time.
var _ blogsnap.LinkSource = (*Source)(nil)

// Source reads post links from a feed. Feed items are listed newest
// first, the same order as an archive page.
type Source struct {
	fetcher blogsnap.Fetcher
	parser  *gofeed.Parser
}

// NewSource creates a Source that downloads feeds with fetcher.
func NewSource(fetcher blogsnap.Fetcher) *Source {
	return &Source{
		fetcher: fetcher,
		parser:  gofeed.NewParser(),
	}
}

// Links fetches the feed at pageURL and returns one link per item.
// Items without a link yield null links.
// Returns EPARSE if the document is not a feed.
func (s *Source) Links(ctx context.Context, pageURL string) ([]blogsnap.Link, error) {
	body, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	feed, err := s.parser.ParseString(body)
	if err != nil {
		return nil, blogsnap.Errorf(blogsnap.EPARSE, "parse feed %s: %v", pageURL, err)
	}

	links := make([]blogsnap.Link, 0, len(feed.Items))
	for _, item := range feed.Items {
		if href := strings.TrimSpace(item.Link); href != "" {
			links = append(links, blogsnap.NewLink(href))
		} else {
			links = append(links, blogsnap.NullLink())
		}
	}
	return links, nil
}
