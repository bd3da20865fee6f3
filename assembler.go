package blogsnap

import (
	"context"
	"io"
	"strings"
)

// PostStats summarizes what was assembled for one post.
type PostStats struct {
	Paragraphs  int // text items written
	Images      int // images embedded
	Absent      int // images that could not be downloaded
	EmbedFailed int // images downloaded but rejected by the assembler
	TextBytes   int

	text strings.Builder
}

// Observe records a text item's content for later hashing.
func (s *PostStats) Observe(text string) {
	s.Paragraphs++
	s.TextBytes += len(text)
	if s.text.Len() > 0 {
		s.text.WriteByte('\n')
	}
	s.text.WriteString(text)
}

// Text returns the concatenated text of all observed items.
func (s *PostStats) Text() string {
	return s.text.String()
}

// Assembler appends posts to an accumulating document.
type Assembler interface {
	// AddPost appends a heading with the post title, every item of the
	// post, and a page break. It consumes post.Items exactly once and
	// releases every image it receives, including ones it fails to embed.
	// Embed failures are recovered and counted, not returned.
	AddPost(ctx context.Context, post *Post) (*PostStats, error)

	// Close finalizes the document into its output store.
	Close() error
}

// OutputStore stages output files with atomic semantics.
// Create writes to a temporary location; Commit makes the files visible
// at their final location; Abort discards everything staged.
type OutputStore interface {
	Create(name string) (io.WriteCloser, error)
	Commit() error
	Abort() error
}
