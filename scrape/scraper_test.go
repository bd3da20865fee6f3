package scrape_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/blogsnap"
	"github.com/fwojciec/blogsnap/mock"
	"github.com/fwojciec/blogsnap/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticFetcher(html string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, _ string) (string, error) {
			return html, nil
		},
	}
}

func pageParser(page *blogsnap.PostPage) *mock.PageParser {
	return &mock.PageParser{
		ParsePostFn: func(_ string, pageURL string) (*blogsnap.PostPage, error) {
			p := *page
			p.URL = pageURL
			return &p, nil
		},
	}
}

func collect(t *testing.T, s *scrape.Scraper, page *blogsnap.PostPage) []blogsnap.ContentItem {
	t.Helper()
	var items []blogsnap.ContentItem
	for item := range s.Items(context.Background(), page) {
		items = append(items, item)
	}
	return items
}

func kinds(items []blogsnap.ContentItem) []blogsnap.ItemKind {
	out := make([]blogsnap.ItemKind, len(items))
	for i, item := range items {
		out[i] = item.Kind
	}
	return out
}

func TestScraper_Items(t *testing.T) {
	t.Parallel()

	t.Run("yields image before text for the same paragraph", func(t *testing.T) {
		t.Parallel()

		img, blob := mock.NewImage([]byte("png"), "image/png")
		s := &scrape.Scraper{
			Images: &mock.ImageFetcher{
				FetchImageFn: func(_ context.Context, url string) (*blogsnap.Image, error) {
					assert.Equal(t, "https://s.com/a.png", url)
					return img, nil
				},
			},
		}
		page := &blogsnap.PostPage{
			URL: "https://s.com/p/",
			Paragraphs: []blogsnap.Paragraph{
				{Text: "caption", Image: &blogsnap.ImageRef{Src: "https://s.com/a.png", Width: 300}},
			},
		}

		items := collect(t, s, page)

		require.Len(t, items, 2)
		assert.Equal(t, []blogsnap.ItemKind{blogsnap.ItemImage, blogsnap.ItemText}, kinds(items))
		assert.Equal(t, "https://s.com/a.png", items[0].Source)
		assert.Equal(t, 300, items[0].Image.Width)
		assert.Equal(t, "caption", items[1].Text)
		assert.False(t, blob.Closed(), "consumer owns the image")
	})

	t.Run("excluded ad image yields only the text", func(t *testing.T) {
		t.Parallel()

		var fetched atomic.Bool
		s := &scrape.Scraper{
			Images: &mock.ImageFetcher{
				FetchImageFn: func(_ context.Context, _ string) (*blogsnap.Image, error) {
					fetched.Store(true)
					return nil, errors.New("unexpected fetch")
				},
			},
			ImageExclude: []string{"doubleclick.net"},
		}
		page := &blogsnap.PostPage{
			Paragraphs: []blogsnap.Paragraph{
				{Text: "hello", Image: &blogsnap.ImageRef{Src: "https://ad.doubleclick.net/x.gif"}},
			},
		}

		items := collect(t, s, page)

		require.Len(t, items, 1)
		assert.Equal(t, blogsnap.ItemText, items[0].Kind)
		assert.Equal(t, "hello", items[0].Text)
		assert.False(t, fetched.Load())
	})

	t.Run("failed image yields absent marker and extraction continues", func(t *testing.T) {
		t.Parallel()

		s := &scrape.Scraper{
			Images: &mock.ImageFetcher{
				FetchImageFn: func(_ context.Context, url string) (*blogsnap.Image, error) {
					if url == "https://s.com/broken.png" {
						return nil, errors.New("connection reset")
					}
					img, _ := mock.NewImage([]byte("ok"), "image/png")
					return img, nil
				},
			},
		}
		page := &blogsnap.PostPage{
			Paragraphs: []blogsnap.Paragraph{
				{Image: &blogsnap.ImageRef{Src: "https://s.com/broken.png"}},
				{Text: "after"},
				{Image: &blogsnap.ImageRef{Src: "https://s.com/fine.png"}},
			},
		}

		items := collect(t, s, page)

		assert.Equal(t, []blogsnap.ItemKind{blogsnap.ItemAbsent, blogsnap.ItemText, blogsnap.ItemImage}, kinds(items))
		assert.Equal(t, "https://s.com/broken.png", items[0].Source)
		assert.Equal(t, blogsnap.EIMAGEFETCH, blogsnap.ErrorCode(items[0].Err))
		for _, item := range items {
			_ = item.Image.Close()
		}
	})

	t.Run("keeps coded image fetch errors", func(t *testing.T) {
		t.Parallel()

		s := &scrape.Scraper{
			Images: &mock.ImageFetcher{
				FetchImageFn: func(_ context.Context, _ string) (*blogsnap.Image, error) {
					return nil, blogsnap.Errorf(blogsnap.EIMAGEFETCH, "HTTP 404 for image")
				},
			},
		}
		page := &blogsnap.PostPage{
			Paragraphs: []blogsnap.Paragraph{{Image: &blogsnap.ImageRef{Src: "https://s.com/x.png"}}},
		}

		items := collect(t, s, page)

		require.Len(t, items, 1)
		assert.Equal(t, "HTTP 404 for image", blogsnap.ErrorMessage(items[0].Err))
	})

	t.Run("skips paragraphs with neither text nor image", func(t *testing.T) {
		t.Parallel()

		s := &scrape.Scraper{}
		page := &blogsnap.PostPage{
			Paragraphs: []blogsnap.Paragraph{{}, {Text: "one"}, {}, {Text: "two"}},
		}

		items := collect(t, s, page)

		require.Len(t, items, 2)
		assert.Equal(t, "one", items[0].Text)
		assert.Equal(t, "two", items[1].Text)
	})

	t.Run("downloads images only as the consumer advances", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		s := &scrape.Scraper{
			Images: &mock.ImageFetcher{
				FetchImageFn: func(_ context.Context, _ string) (*blogsnap.Image, error) {
					calls.Add(1)
					img, _ := mock.NewImage([]byte("x"), "image/gif")
					return img, nil
				},
			},
		}
		page := &blogsnap.PostPage{
			Paragraphs: []blogsnap.Paragraph{
				{Image: &blogsnap.ImageRef{Src: "https://s.com/1.gif"}},
				{Image: &blogsnap.ImageRef{Src: "https://s.com/2.gif"}},
				{Image: &blogsnap.ImageRef{Src: "https://s.com/3.gif"}},
			},
		}

		seq := s.Items(context.Background(), page)
		assert.Equal(t, int32(0), calls.Load())

		for item := range seq {
			_ = item.Image.Close()
			break
		}
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("adds markdown rendering when a converter is set", func(t *testing.T) {
		t.Parallel()

		s := &scrape.Scraper{
			Converter: &mock.Converter{
				ConvertFn: func(html string) (string, error) {
					assert.Equal(t, "<p>a <em>b</em></p>", html)
					return "a *b*\n", nil
				},
			},
		}
		page := &blogsnap.PostPage{
			Paragraphs: []blogsnap.Paragraph{{Text: "a b", HTML: "<p>a <em>b</em></p>"}},
		}

		items := collect(t, s, page)

		require.Len(t, items, 1)
		assert.Equal(t, "a b", items[0].Text)
		assert.Equal(t, "a *b*", items[0].Markdown)
	})

	t.Run("falls back to plain text when conversion fails", func(t *testing.T) {
		t.Parallel()

		s := &scrape.Scraper{
			Converter: &mock.Converter{
				ConvertFn: func(_ string) (string, error) {
					return "", errors.New("bad html")
				},
			},
		}
		page := &blogsnap.PostPage{
			Paragraphs: []blogsnap.Paragraph{{Text: "plain", HTML: "<p>plain"}},
		}

		items := collect(t, s, page)

		require.Len(t, items, 1)
		assert.Equal(t, "plain", items[0].Text)
		assert.Empty(t, items[0].Markdown)
	})
}

func TestScraper_Posts(t *testing.T) {
	t.Parallel()

	t.Run("yields posts in url order with parsed titles", func(t *testing.T) {
		t.Parallel()

		s := &scrape.Scraper{
			Fetcher: staticFetcher("<html></html>"),
			Parser:  pageParser(&blogsnap.PostPage{Title: "T"}),
		}

		var got []string
		for post, err := range s.Posts(context.Background(), []string{"https://s.com/a/", "https://s.com/b/"}) {
			require.NoError(t, err)
			assert.Equal(t, "T", post.Title)
			got = append(got, post.URL)
		}

		assert.Equal(t, []string{"https://s.com/a/", "https://s.com/b/"}, got)
	})

	t.Run("abort policy yields the first page error and stops", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		s := &scrape.Scraper{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					fetched = append(fetched, url)
					if url == "https://s.com/a/" {
						return "", blogsnap.Errorf(blogsnap.EFETCH, "HTTP 404 for %s", url)
					}
					return "", nil
				},
			},
			Parser: pageParser(&blogsnap.PostPage{}),
			Policy: blogsnap.PolicyAbort,
		}

		var errs []error
		for post, err := range s.Posts(context.Background(), []string{"https://s.com/a/", "https://s.com/b/"}) {
			assert.Nil(t, post)
			errs = append(errs, err)
		}

		require.Len(t, errs, 1)
		assert.Equal(t, blogsnap.EFETCH, blogsnap.ErrorCode(errs[0]))
		assert.Equal(t, []string{"https://s.com/a/"}, fetched)
	})

	t.Run("skip policy leaves failed pages out", func(t *testing.T) {
		t.Parallel()

		s := &scrape.Scraper{
			Fetcher: staticFetcher(""),
			Parser: &mock.PageParser{
				ParsePostFn: func(_ string, pageURL string) (*blogsnap.PostPage, error) {
					if pageURL == "https://s.com/bad/" {
						return nil, blogsnap.Errorf(blogsnap.EPARSE, "entry content region not found")
					}
					return &blogsnap.PostPage{URL: pageURL}, nil
				},
			},
			Policy: blogsnap.PolicySkip,
		}

		var got []string
		for post, err := range s.Posts(context.Background(), []string{"https://s.com/bad/", "https://s.com/good/"}) {
			require.NoError(t, err)
			got = append(got, post.URL)
		}

		assert.Equal(t, []string{"https://s.com/good/"}, got)
	})

	t.Run("stops on canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		s := &scrape.Scraper{
			Fetcher: staticFetcher(""),
			Parser:  pageParser(&blogsnap.PostPage{}),
		}

		var errs []error
		for _, err := range s.Posts(ctx, []string{"https://s.com/a/"}) {
			errs = append(errs, err)
		}

		require.Len(t, errs, 1)
		assert.ErrorIs(t, errs[0], context.Canceled)
	})

	t.Run("retries transport errors before giving up", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32
		s := &scrape.Scraper{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ string) (string, error) {
					if attempts.Add(1) < 3 {
						return "", errors.New("connection refused")
					}
					return "<html></html>", nil
				},
			},
			Parser:      pageParser(&blogsnap.PostPage{Title: "ok"}),
			RetryDelays: []time.Duration{0, 0, 0},
		}

		page, err := s.ScrapePage(context.Background(), "https://s.com/p/")

		require.NoError(t, err)
		assert.Equal(t, "ok", page.Title)
		assert.Equal(t, int32(3), attempts.Load())
	})
}
