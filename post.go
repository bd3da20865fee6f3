package blogsnap

import (
	"context"
	"io"
	"iter"
)

// ImageRef is an image element found inside a paragraph.
type ImageRef struct {
	Src   string
	Width int // declared width attribute; 0 when absent
}

// Paragraph is one paragraph-level element of a post body.
type Paragraph struct {
	// Text is the paragraph's own text, trimmed. Images contribute none.
	Text string

	// HTML is the paragraph markup with image elements removed.
	HTML string

	// Image is the first image in the paragraph, if any.
	Image *ImageRef
}

// PostPage is a fetched and parsed post page.
type PostPage struct {
	URL        string
	Title      string
	Paragraphs []Paragraph
}

// ItemKind tags a ContentItem.
type ItemKind int

// Content item kinds.
const (
	ItemText ItemKind = iota + 1
	ItemImage
	ItemAbsent
)

func (k ItemKind) String() string {
	switch k {
	case ItemText:
		return "text"
	case ItemImage:
		return "image"
	case ItemAbsent:
		return "absent"
	}
	return "unknown"
}

// Image is a fully downloaded image held in scoped storage.
// The consumer owns Body and must Close it, which releases the storage.
type Image struct {
	Body        io.ReadSeekCloser
	ContentType string
	Size        int64
	Width       int // declared width; 0 when undeclared
}

// Close releases the image storage.
func (img *Image) Close() error {
	if img == nil || img.Body == nil {
		return nil
	}
	return img.Body.Close()
}

// ContentItem is one unit of post content, in document order.
type ContentItem struct {
	Kind ItemKind

	// Text is the non-empty paragraph text of an ItemText.
	Text string

	// Markdown is an optional Markdown rendering of an ItemText.
	Markdown string

	// Image is set for ItemImage.
	Image *Image

	// Source is the image URL for ItemImage and ItemAbsent.
	Source string

	// Err explains an ItemAbsent.
	Err error
}

// TextItem returns an ItemText.
func TextItem(text string) ContentItem {
	return ContentItem{Kind: ItemText, Text: text}
}

// ImageItem returns an ItemImage.
func ImageItem(src string, img *Image) ContentItem {
	return ContentItem{Kind: ItemImage, Source: src, Image: img}
}

// AbsentItem returns the marker for an image that could not be downloaded.
func AbsentItem(src string, err error) ContentItem {
	return ContentItem{Kind: ItemAbsent, Source: src, Err: err}
}

// Post is the unit handed to assembly.
//
// Items is a single-use sequence: each step may perform network I/O, so
// it must be ranged over at most once.
type Post struct {
	URL   string
	Title string
	Items iter.Seq[ContentItem]
}

// PageParser extracts structure from raw blog HTML.
type PageParser interface {
	// ParseLinks returns every anchor href inside the entry content
	// region, in document order. Anchors without href yield null links.
	// Returns EPARSE if the region is missing.
	ParseLinks(html string) ([]Link, error)

	// ParsePost returns the post title and paragraph-level elements.
	// Image sources are resolved against pageURL.
	// Returns EPARSE if the header or content region is missing.
	ParsePost(html string, pageURL string) (*PostPage, error)
}

// PagePolicy decides what happens when a post page cannot be fetched or
// parsed.
type PagePolicy string

// Page failure policies.
const (
	PolicyAbort PagePolicy = "abort"
	PolicySkip  PagePolicy = "skip"
)

// PostScraper turns post URLs into posts.
type PostScraper interface {
	// Posts returns a lazy sequence of posts in the order of urls.
	// A page-level failure that the scraper does not skip is yielded as
	// an error and ends the sequence.
	Posts(ctx context.Context, urls []string) iter.Seq2[*Post, error]
}
