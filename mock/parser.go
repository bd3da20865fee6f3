package mock

import "github.com/fwojciec/blogsnap"

var _ blogsnap.PageParser = (*PageParser)(nil)

// PageParser is a mock implementation of blogsnap.PageParser.
type PageParser struct {
	ParseLinksFn func(html string) ([]blogsnap.Link, error)
	ParsePostFn  func(html string, pageURL string) (*blogsnap.PostPage, error)
}

func (p *PageParser) ParseLinks(html string) ([]blogsnap.Link, error) {
	return p.ParseLinksFn(html)
}

func (p *PageParser) ParsePost(html string, pageURL string) (*blogsnap.PostPage, error) {
	return p.ParsePostFn(html, pageURL)
}
