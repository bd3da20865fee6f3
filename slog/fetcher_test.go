package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/blogsnap"
	"github.com/fwojciec/blogsnap/mock"
	bsslog "github.com/fwojciec/blogsnap/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<html>content</html>", nil
			},
		}

		fetcher := bsslog.NewLoggingFetcher(inner, logger)
		html, err := fetcher.Fetch(context.Background(), "https://example.com/archives/")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", html)
		output := buf.String()
		assert.Contains(t, output, "fetch")
		assert.Contains(t, output, "url=https://example.com/archives/")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", errors.New("network error")
			},
		}

		fetcher := bsslog.NewLoggingFetcher(inner, logger)
		_, err := fetcher.Fetch(context.Background(), "https://example.com/archives/")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "fetch")
		assert.Contains(t, output, "err=\"network error\"")
	})
}

func TestLoggingImageFetcher_FetchImage(t *testing.T) {
	t.Parallel()

	t.Run("logs size and content type at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		img, _ := mock.NewImage([]byte("12345"), "image/png")
		inner := &mock.ImageFetcher{
			FetchImageFn: func(_ context.Context, _ string) (*blogsnap.Image, error) {
				return img, nil
			},
		}

		fetcher := bsslog.NewLoggingImageFetcher(inner, logger)
		got, err := fetcher.FetchImage(context.Background(), "https://example.com/a.png")

		require.NoError(t, err)
		assert.Same(t, img, got)
		output := buf.String()
		assert.Contains(t, output, "fetch image")
		assert.Contains(t, output, "bytes=5")
		assert.Contains(t, output, "type=image/png")
	})

	t.Run("is silent at info level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ImageFetcher{
			FetchImageFn: func(_ context.Context, _ string) (*blogsnap.Image, error) {
				return nil, errors.New("boom")
			},
		}

		fetcher := bsslog.NewLoggingImageFetcher(inner, logger)
		_, err := fetcher.FetchImage(context.Background(), "https://example.com/a.png")

		require.Error(t, err)
		assert.Empty(t, buf.String())
	})
}
