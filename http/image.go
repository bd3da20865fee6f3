package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/fwojciec/blogsnap"
)

// Ensure ImageFetcher implements blogsnap.ImageFetcher at compile time.
var _ blogsnap.ImageFetcher = (*ImageFetcher)(nil)

// ImageFetcher streams images into temporary files.
// The returned image's Body removes its file on Close.
type ImageFetcher struct {
	client    *http.Client
	userAgent string
	headers   map[string]string
	maxBytes  int64
	tempDir   string
}

// NewImageFetcher creates a new ImageFetcher.
func NewImageFetcher(opts ...Option) *ImageFetcher {
	o := newOptions(opts)
	return &ImageFetcher{
		client:    o.client,
		userAgent: o.userAgent,
		headers:   o.headers,
		maxBytes:  o.maxBytes,
		tempDir:   o.tempDir,
	}
}

// FetchImage downloads the image at url. Nothing is returned unless the
// whole body was written to disk.
func (f *ImageFetcher) FetchImage(ctx context.Context, url string) (*blogsnap.Image, error) {
	resp, err := get(ctx, f.client, url, f.userAgent, f.headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, blogsnap.Errorf(blogsnap.EIMAGEFETCH, "HTTP %d for %s", resp.StatusCode, url)
	}

	file, err := os.CreateTemp(f.tempDir, "blogsnap-img-*")
	if err != nil {
		return nil, err
	}
	tmp := &tempFile{File: file}

	// Read one byte past the cap to detect oversized bodies.
	n, err := io.Copy(tmp, io.LimitReader(resp.Body, f.maxBytes+1))
	if err == nil && n > f.maxBytes {
		err = blogsnap.Errorf(blogsnap.EIMAGEFETCH, "image %s exceeds %d bytes", url, f.maxBytes)
	}
	if err == nil {
		_, err = tmp.Seek(0, io.SeekStart)
	}
	if err != nil {
		return nil, errors.Join(err, tmp.Close())
	}

	return &blogsnap.Image{
		Body:        tmp,
		ContentType: resp.Header.Get("Content-Type"),
		Size:        n,
	}, nil
}

// tempFile is a temporary file that is deleted when closed.
type tempFile struct {
	*os.File
}

// Close closes and removes the file.
func (t *tempFile) Close() error {
	return errors.Join(t.File.Close(), os.Remove(t.File.Name()))
}
