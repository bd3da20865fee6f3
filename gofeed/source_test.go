package gofeed_test

import (
	"context"
	"testing"

	"github.com/fwojciec/blogsnap"
	"github.com/fwojciec/blogsnap/gofeed"
	"github.com/fwojciec/blogsnap/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rss = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Slate Star Codex</title>
  <link>https://slatestarcodex.com</link>
  <item><title>Newest</title><link>https://slatestarcodex.com/2020/01/21/newest/</link></item>
  <item><title>Open Thread 1</title><link>https://slatestarcodex.com/2020/01/19/open-thread-1/</link></item>
  <item><title>No link</title></item>
  <item><title>Oldest</title><link>https://slatestarcodex.com/2020/01/01/oldest/</link></item>
</channel>
</rss>`

const atom = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Blog</title>
  <entry><title>A</title><link href="https://example.com/a/"/><id>a</id></entry>
  <entry><title>B</title><link href="https://example.com/b/"/><id>b</id></entry>
</feed>`

func feedFetcher(body string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, _ string) (string, error) {
			return body, nil
		},
	}
}

func TestSource_Links(t *testing.T) {
	t.Parallel()

	t.Run("returns rss item links in feed order", func(t *testing.T) {
		t.Parallel()

		src := gofeed.NewSource(feedFetcher(rss))
		links, err := src.Links(context.Background(), "https://slatestarcodex.com/feed/")

		require.NoError(t, err)
		assert.Equal(t, []blogsnap.Link{
			blogsnap.NewLink("https://slatestarcodex.com/2020/01/21/newest/"),
			blogsnap.NewLink("https://slatestarcodex.com/2020/01/19/open-thread-1/"),
			blogsnap.NullLink(),
			blogsnap.NewLink("https://slatestarcodex.com/2020/01/01/oldest/"),
		}, links)
	})

	t.Run("reads atom feeds", func(t *testing.T) {
		t.Parallel()

		src := gofeed.NewSource(feedFetcher(atom))
		links, err := src.Links(context.Background(), "https://example.com/atom.xml")

		require.NoError(t, err)
		assert.Equal(t, []blogsnap.Link{
			blogsnap.NewLink("https://example.com/a/"),
			blogsnap.NewLink("https://example.com/b/"),
		}, links)
	})

	t.Run("feed links go through the usual culling", func(t *testing.T) {
		t.Parallel()

		src := gofeed.NewSource(feedFetcher(rss))
		links, err := src.Links(context.Background(), "https://slatestarcodex.com/feed/")
		require.NoError(t, err)

		result := blogsnap.Cull(links, blogsnap.DefaultCullRule())

		assert.Equal(t, []blogsnap.Link{
			blogsnap.NewLink("https://slatestarcodex.com/2020/01/21/newest/"),
			blogsnap.NewLink("https://slatestarcodex.com/2020/01/01/oldest/"),
		}, result.Links)
	})

	t.Run("returns EPARSE for non-feed documents", func(t *testing.T) {
		t.Parallel()

		src := gofeed.NewSource(feedFetcher("<html><body>not a feed</body></html>"))
		_, err := src.Links(context.Background(), "https://example.com/")

		assert.Equal(t, blogsnap.EPARSE, blogsnap.ErrorCode(err))
	})

	t.Run("propagates fetch errors", func(t *testing.T) {
		t.Parallel()

		src := gofeed.NewSource(&mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				return "", blogsnap.Errorf(blogsnap.EFETCH, "HTTP 404 for %s", url)
			},
		})
		_, err := src.Links(context.Background(), "https://example.com/feed/")

		assert.Equal(t, blogsnap.EFETCH, blogsnap.ErrorCode(err))
	})
}
