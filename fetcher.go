package blogsnap

import "context"

// Fetcher retrieves HTML pages.
type Fetcher interface {
	// Fetch performs a GET request and returns the body decoded to UTF-8.
	// Returns EFETCH if the response status is not 200.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)
}

// ImageFetcher downloads images.
type ImageFetcher interface {
	// FetchImage downloads the image at url into scoped storage.
	// The returned image is complete; a failed download never returns a
	// partial image. Returns EIMAGEFETCH on non-200 status.
	FetchImage(ctx context.Context, url string) (*Image, error)
}
