// Package markdown assembles posts into a Markdown document with its
// images stored in a sibling directory.
package markdown

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"mime"
	"path"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/fwojciec/blogsnap"
	"github.com/nao1215/markdown"
)

// Ensure Assembler implements blogsnap.Assembler at compile time.
var _ blogsnap.Assembler = (*Assembler)(nil)

// extensions maps image content types to file extensions.
var extensions = map[string]string{
	"image/png":     "png",
	"image/jpeg":    "jpg",
	"image/gif":     "gif",
	"image/webp":    "webp",
	"image/svg+xml": "svg",
}

// Assembler accumulates posts into a single Markdown file.
// Posts are separated by horizontal rules, the Markdown page break.
type Assembler struct {
	store  blogsnap.OutputStore
	logger *slog.Logger

	w      io.WriteCloser
	md     *markdown.Markdown
	dir    string // image directory, relative to the document
	images int
	closed bool
}

// NewAssembler creates the named output file in store and starts the
// document. Images are written to a directory named after the file,
// e.g. site_files for site.md. A non-empty title is written first.
func NewAssembler(store blogsnap.OutputStore, name, title string, logger *slog.Logger) (*Assembler, error) {
	if name == "" {
		return nil, blogsnap.Errorf(blogsnap.EINVALID, "output name required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	w, err := store.Create(name)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}

	a := &Assembler{
		store:  store,
		logger: logger,
		w:      w,
		md:     markdown.NewMarkdown(w),
		dir:    strings.TrimSuffix(name, path.Ext(name)) + "_files",
	}
	if title != "" {
		a.md.H1(escape(title))
		a.md.PlainText("")
		a.md.HorizontalRule()
		a.md.PlainText("")
	}
	return a, nil
}

// AddPost appends the post title as a level 1 heading, its items, and a
// horizontal rule.
func (a *Assembler) AddPost(ctx context.Context, post *blogsnap.Post) (*blogsnap.PostStats, error) {
	if a.closed {
		return nil, blogsnap.Errorf(blogsnap.EINVALID, "assembler is closed")
	}

	stats := &blogsnap.PostStats{}
	a.md.H1(escape(post.Title))
	a.md.PlainText("")

	if post.Items != nil {
		for item := range post.Items {
			if err := a.addItem(post, item, stats); err != nil {
				return stats, err
			}
			if err := ctx.Err(); err != nil {
				return stats, err
			}
		}
	}

	a.md.HorizontalRule()
	a.md.PlainText("")
	return stats, nil
}

func (a *Assembler) addItem(post *blogsnap.Post, item blogsnap.ContentItem, stats *blogsnap.PostStats) error {
	switch item.Kind {
	case blogsnap.ItemText:
		text := item.Markdown
		if text == "" {
			text = item.Text
		}
		a.md.PlainText(text)
		a.md.PlainText("")
		stats.Observe(item.Text)
	case blogsnap.ItemImage:
		ref, err := a.storeImage(item.Image)
		if closeErr := item.Image.Close(); closeErr != nil {
			a.logger.Debug("release image", "src", item.Source, "err", closeErr)
		}
		var e *blogsnap.Error
		if errors.As(err, &e) && e.Code == blogsnap.EIMAGEEMBED {
			a.logger.Warn("image not embedded", "post", post.URL, "src", item.Source, "err", err)
			stats.EmbedFailed++
			return nil
		} else if err != nil {
			return err
		}
		a.md.PlainText(ref)
		a.md.PlainText("")
		stats.Images++
	case blogsnap.ItemAbsent:
		a.md.PlainTextf("*[image unavailable: %s]*", item.Source)
		a.md.PlainText("")
		stats.Absent++
	}
	return nil
}

// storeImage copies img into the image directory and returns the
// Markdown that references it.
// Returns EIMAGEEMBED if the content type is not a known image type.
func (a *Assembler) storeImage(img *blogsnap.Image) (string, error) {
	mediaType, _, err := mime.ParseMediaType(img.ContentType)
	if err != nil {
		return "", blogsnap.Errorf(blogsnap.EIMAGEEMBED, "invalid content type %q", img.ContentType)
	}
	ext, ok := extensions[mediaType]
	if !ok {
		return "", blogsnap.Errorf(blogsnap.EIMAGEEMBED, "unsupported content type %q", mediaType)
	}

	a.images++
	rel := fmt.Sprintf("%s/image%d.%s", path.Base(a.dir), a.images, ext)

	w, err := a.store.Create(fmt.Sprintf("%s/image%d.%s", a.dir, a.images, ext))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(w, img.Body); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write %s: %w", rel, err)
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	if img.Width > 0 {
		return fmt.Sprintf(`<img src="%s" width="%d">`, rel, img.Width), nil
	}
	return fmt.Sprintf("![](%s)", rel), nil
}

// escape returns text as Markdown that renders it literally.
func escape(text string) string {
	md, err := htmltomarkdown.ConvertString("<p>" + html.EscapeString(text) + "</p>")
	if err != nil {
		return text
	}
	return strings.TrimSpace(md)
}

// Close writes the document and closes the output file.
func (a *Assembler) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	err := a.md.Build()
	if closeErr := a.w.Close(); err == nil {
		err = closeErr
	}
	return err
}
