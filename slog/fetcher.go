package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/blogsnap"
)

// Compile-time interface verification.
var (
	_ blogsnap.Fetcher      = (*LoggingFetcher)(nil)
	_ blogsnap.ImageFetcher = (*LoggingImageFetcher)(nil)
)

// LoggingFetcher wraps a Fetcher and logs every page fetch.
type LoggingFetcher struct {
	next   blogsnap.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next blogsnap.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// LoggingImageFetcher wraps an ImageFetcher with debug logging.
type LoggingImageFetcher struct {
	next   blogsnap.ImageFetcher
	logger *slog.Logger
}

// NewLoggingImageFetcher creates a new LoggingImageFetcher.
func NewLoggingImageFetcher(next blogsnap.ImageFetcher, logger *slog.Logger) *LoggingImageFetcher {
	return &LoggingImageFetcher{next: next, logger: logger}
}

// FetchImage logs the image download and delegates to the wrapped fetcher.
func (f *LoggingImageFetcher) FetchImage(ctx context.Context, url string) (img *blogsnap.Image, err error) {
	defer func(begin time.Time) {
		var size int64
		var contentType string
		if img != nil {
			size, contentType = img.Size, img.ContentType
		}
		f.logger.Debug("fetch image",
			"url", url,
			"bytes", size,
			"type", contentType,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FetchImage(ctx, url)
}
