// Package docx assembles posts into a WordprocessingML (.docx) document.
//
// The package is written as a zip stream: images are copied into
// word/media as they arrive and the document part is written on Close.
package docx

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"

	// Register the formats image.DecodeConfig recognizes.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/fwojciec/blogsnap"
)

// Ensure Assembler implements blogsnap.Assembler at compile time.
var _ blogsnap.Assembler = (*Assembler)(nil)

// Assembler accumulates posts into a single .docx file.
type Assembler struct {
	logger *slog.Logger

	w      io.WriteCloser
	zw     *zip.Writer
	body   *body
	images []media
	closed bool
}

// NewAssembler creates the named output file in store and starts the
// document. A non-empty title is written as the document title.
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
		logger: logger,
		w:      w,
		zw:     zip.NewWriter(w),
		body:   newBody(),
	}
	if title != "" {
		a.body.text("Title", title)
	}
	return a, nil
}

// AddPost appends the post title as a level 1 heading, its items, and a
// page break.
func (a *Assembler) AddPost(ctx context.Context, post *blogsnap.Post) (*blogsnap.PostStats, error) {
	if a.closed {
		return nil, blogsnap.Errorf(blogsnap.EINVALID, "assembler is closed")
	}

	stats := &blogsnap.PostStats{}
	a.body.text("Heading1", post.Title)

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

	a.body.pageBreak()
	return stats, nil
}

func (a *Assembler) addItem(post *blogsnap.Post, item blogsnap.ContentItem, stats *blogsnap.PostStats) error {
	switch item.Kind {
	case blogsnap.ItemText:
		a.body.text("", item.Text)
		stats.Observe(item.Text)
	case blogsnap.ItemImage:
		err := a.embed(item.Image)
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
		stats.Images++
	case blogsnap.ItemAbsent:
		stats.Absent++
	}
	return nil
}

// embed validates img and copies it into the package.
// Returns EIMAGEEMBED if the image cannot be decoded or has no size.
func (a *Assembler) embed(img *blogsnap.Image) error {
	cfg, format, err := image.DecodeConfig(img.Body)
	if err != nil {
		return blogsnap.Errorf(blogsnap.EIMAGEEMBED, "decode image: %v", err)
	}
	f, ok := imageFormats[format]
	if !ok {
		return blogsnap.Errorf(blogsnap.EIMAGEEMBED, "unsupported image format %q", format)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return blogsnap.Errorf(blogsnap.EIMAGEEMBED, "image has no size (%dx%d)", cfg.Width, cfg.Height)
	}
	width, height := scale(img.Width, cfg.Width, cfg.Height)
	if _, err := img.Body.Seek(0, io.SeekStart); err != nil {
		return blogsnap.Errorf(blogsnap.EIMAGEEMBED, "rewind image: %v", err)
	}

	n := len(a.images) + 1
	m := media{
		relID: fmt.Sprintf("rIdImg%d", n),
		name:  fmt.Sprintf("image%d.%s", n, f.ext),
	}

	w, err := a.zw.Create(mediaDir + m.name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, img.Body); err != nil {
		return fmt.Errorf("write %s: %w", m.name, err)
	}

	a.images = append(a.images, m)
	a.body.picture(n, m.relID, m.name, width, height)
	return nil
}

// Close writes the remaining package parts and closes the output file.
func (a *Assembler) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	a.body.finish()
	err := a.writeParts()
	if closeErr := a.zw.Close(); err == nil {
		err = closeErr
	}
	if closeErr := a.w.Close(); err == nil {
		err = closeErr
	}
	return err
}

func (a *Assembler) writeParts() error {
	if err := writePart(a.zw, partDocument, a.body.doc); err != nil {
		return err
	}
	if err := writePart(a.zw, partDocumentRels, documentRels(a.images)); err != nil {
		return err
	}
	if err := writeRaw(a.zw, partStyles, styles); err != nil {
		return err
	}
	if err := writePart(a.zw, partRootRels, rootRels()); err != nil {
		return err
	}
	return writePart(a.zw, partContentTypes, contentTypes())
}
