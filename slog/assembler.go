package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/blogsnap"
)

// Ensure LoggingAssembler implements blogsnap.Assembler.
var _ blogsnap.Assembler = (*LoggingAssembler)(nil)

// LoggingAssembler wraps an Assembler and logs each post it assembles.
type LoggingAssembler struct {
	next   blogsnap.Assembler
	logger *slog.Logger
}

// NewLoggingAssembler creates a new LoggingAssembler.
func NewLoggingAssembler(next blogsnap.Assembler, logger *slog.Logger) *LoggingAssembler {
	return &LoggingAssembler{next: next, logger: logger}
}

// AddPost delegates to the wrapped assembler and logs the post's stats.
func (a *LoggingAssembler) AddPost(ctx context.Context, post *blogsnap.Post) (stats *blogsnap.PostStats, err error) {
	defer func(begin time.Time) {
		args := []any{"url", post.URL, "title", post.Title}
		if stats != nil {
			args = append(args,
				"paragraphs", stats.Paragraphs,
				"images", stats.Images,
				"absent", stats.Absent,
				"embed_failed", stats.EmbedFailed,
			)
		}
		args = append(args, "duration", time.Since(begin), "err", err)
		a.logger.Info("post", args...)
	}(time.Now())
	return a.next.AddPost(ctx, post)
}

// Close delegates to the wrapped assembler.
func (a *LoggingAssembler) Close() error {
	return a.next.Close()
}
