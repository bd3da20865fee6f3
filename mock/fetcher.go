package mock

import (
	"context"

	"github.com/fwojciec/blogsnap"
)

// Compile-time interface verification.
var (
	_ blogsnap.Fetcher      = (*Fetcher)(nil)
	_ blogsnap.ImageFetcher = (*ImageFetcher)(nil)
)

// Fetcher is a mock implementation of blogsnap.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

// ImageFetcher is a mock implementation of blogsnap.ImageFetcher.
type ImageFetcher struct {
	FetchImageFn func(ctx context.Context, url string) (*blogsnap.Image, error)
}

func (f *ImageFetcher) FetchImage(ctx context.Context, url string) (*blogsnap.Image, error) {
	return f.FetchImageFn(ctx, url)
}
