// Package scrape extracts blog posts: it fetches post pages, parses them
// and turns their paragraphs into a lazy sequence of content items.
package scrape

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/blogsnap"
)

// Ensure Scraper implements blogsnap.PostScraper at compile time.
var _ blogsnap.PostScraper = (*Scraper)(nil)

// Scraper fetches post pages and extracts their content.
// All work is sequential and happens as the caller advances the
// sequences it returns.
type Scraper struct {
	Fetcher   blogsnap.Fetcher
	Images    blogsnap.ImageFetcher
	Parser    blogsnap.PageParser
	Converter blogsnap.Converter // optional
	Logger    *slog.Logger       // optional

	// ImageExclude drops images whose source contains any of these.
	ImageExclude []string

	RetryDelays []time.Duration
	Policy      blogsnap.PagePolicy
}

// ScrapePage fetches and parses the post at url.
func (s *Scraper) ScrapePage(ctx context.Context, url string) (*blogsnap.PostPage, error) {
	html, err := FetchWithRetryDelays(ctx, url, s.Fetcher.Fetch, retryLogger(s.Logger), s.RetryDelays)
	if err != nil {
		return nil, err
	}
	return s.Parser.ParsePost(html, url)
}

// Posts returns a lazy sequence of posts for urls.
//
// Under PolicyAbort the first page failure is yielded and the sequence
// ends. Under PolicySkip failed pages are logged and left out.
func (s *Scraper) Posts(ctx context.Context, urls []string) iter.Seq2[*blogsnap.Post, error] {
	return func(yield func(*blogsnap.Post, error) bool) {
		logger := orDiscard(s.Logger)
		for _, url := range urls {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			page, err := s.ScrapePage(ctx, url)
			if err != nil {
				err = fmt.Errorf("scrape %s: %w", url, err)
				if s.Policy == blogsnap.PolicySkip {
					logger.Warn("skipping page", "url", url, "err", err)
					continue
				}
				yield(nil, err)
				return
			}

			post := &blogsnap.Post{
				URL:   url,
				Title: page.Title,
				Items: s.Items(ctx, page),
			}
			if !yield(post, nil) {
				return
			}
		}
	}
}

// Items returns the content of page as a lazy, single-use sequence.
// For each paragraph an image item (or an absent marker) comes first,
// followed by a text item when the paragraph has text of its own.
// Images are downloaded only when the consumer reaches them.
func (s *Scraper) Items(ctx context.Context, page *blogsnap.PostPage) iter.Seq[blogsnap.ContentItem] {
	return func(yield func(blogsnap.ContentItem) bool) {
		for _, para := range page.Paragraphs {
			if para.Image != nil {
				if item, ok := s.image(ctx, page.URL, para.Image); ok {
					if !yield(item) {
						return
					}
				}
			}
			if para.Text != "" {
				if !yield(s.text(para)) {
					return
				}
			}
		}
	}
}

// image downloads ref. It reports false when the image is excluded and
// should produce no item at all.
func (s *Scraper) image(ctx context.Context, pageURL string, ref *blogsnap.ImageRef) (blogsnap.ContentItem, bool) {
	logger := orDiscard(s.Logger)

	for _, pattern := range s.ImageExclude {
		if pattern != "" && strings.Contains(ref.Src, pattern) {
			logger.Debug("image excluded", "src", ref.Src, "pattern", pattern)
			return blogsnap.ContentItem{}, false
		}
	}

	img, err := s.Images.FetchImage(ctx, ref.Src)
	if err != nil {
		if blogsnap.ErrorCode(err) != blogsnap.EIMAGEFETCH {
			err = blogsnap.Errorf(blogsnap.EIMAGEFETCH, "fetch image %s: %v", ref.Src, err)
		}
		logger.Warn("image fetch failed", "page", pageURL, "src", ref.Src, "err", err)
		return blogsnap.AbsentItem(ref.Src, err), true
	}

	img.Width = ref.Width
	return blogsnap.ImageItem(ref.Src, img), true
}

func (s *Scraper) text(para blogsnap.Paragraph) blogsnap.ContentItem {
	item := blogsnap.TextItem(para.Text)
	if s.Converter == nil || para.HTML == "" {
		return item
	}

	md, err := s.Converter.Convert(para.HTML)
	if err != nil {
		orDiscard(s.Logger).Debug("markdown conversion failed", "err", err)
		return item
	}
	item.Markdown = strings.TrimSpace(md)
	return item
}
