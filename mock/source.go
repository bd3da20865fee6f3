package mock

import (
	"context"
	"iter"

	"github.com/fwojciec/blogsnap"
)

// Compile-time interface verification.
var (
	_ blogsnap.LinkSource  = (*LinkSource)(nil)
	_ blogsnap.PostScraper = (*PostScraper)(nil)
)

// LinkSource is a mock implementation of blogsnap.LinkSource.
type LinkSource struct {
	LinksFn func(ctx context.Context, pageURL string) ([]blogsnap.Link, error)
}

func (s *LinkSource) Links(ctx context.Context, pageURL string) ([]blogsnap.Link, error) {
	return s.LinksFn(ctx, pageURL)
}

// PostScraper is a mock implementation of blogsnap.PostScraper.
type PostScraper struct {
	PostsFn func(ctx context.Context, urls []string) iter.Seq2[*blogsnap.Post, error]
}

func (s *PostScraper) Posts(ctx context.Context, urls []string) iter.Seq2[*blogsnap.Post, error] {
	return s.PostsFn(ctx, urls)
}
