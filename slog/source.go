package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/blogsnap"
)

// Ensure LoggingLinkSource implements blogsnap.LinkSource.
var _ blogsnap.LinkSource = (*LoggingLinkSource)(nil)

// LoggingLinkSource wraps a LinkSource with logging.
type LoggingLinkSource struct {
	next   blogsnap.LinkSource
	logger *slog.Logger
}

// NewLoggingLinkSource creates a new LoggingLinkSource.
func NewLoggingLinkSource(next blogsnap.LinkSource, logger *slog.Logger) *LoggingLinkSource {
	return &LoggingLinkSource{next: next, logger: logger}
}

// Links delegates to the wrapped source and logs the operation.
func (s *LoggingLinkSource) Links(ctx context.Context, pageURL string) (links []blogsnap.Link, err error) {
	defer func(begin time.Time) {
		s.logger.Info("link discovery",
			"url", pageURL,
			"count", len(links),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Links(ctx, pageURL)
}
