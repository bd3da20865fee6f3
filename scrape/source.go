package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/blogsnap"
)

// Ensure ArchiveSource implements blogsnap.LinkSource at compile time.
var _ blogsnap.LinkSource = (*ArchiveSource)(nil)

// ArchiveSource discovers post links on a blog archive page.
type ArchiveSource struct {
	Fetcher     blogsnap.Fetcher
	Parser      blogsnap.PageParser
	RetryDelays []time.Duration
	Logger      *slog.Logger
}

// Links fetches the archive page and returns the links in its entry
// content region.
func (s *ArchiveSource) Links(ctx context.Context, pageURL string) ([]blogsnap.Link, error) {
	html, err := FetchWithRetryDelays(ctx, pageURL, s.Fetcher.Fetch, retryLogger(s.Logger), s.RetryDelays)
	if err != nil {
		return nil, err
	}
	return s.Parser.ParseLinks(html)
}

// CollectLinks discovers links on each page in turn, culls them with rule
// and resolves the survivors against the page they were found on.
// Pages are processed in order and their links concatenated.
func CollectLinks(ctx context.Context, source blogsnap.LinkSource, pageURLs []string, rule blogsnap.CullRule, logger *slog.Logger) ([]string, error) {
	logger = orDiscard(logger)

	var urls []string
	for _, pageURL := range pageURLs {
		links, err := source.Links(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", pageURL, err)
		}

		result := blogsnap.Cull(links, rule)
		logger.Info("culled links",
			"url", pageURL,
			"found", len(links),
			"kept", len(result.Links),
			"culled", len(result.Removed),
		)
		for _, r := range result.Removed {
			logger.Debug("culled link",
				"link", r.Link.String(),
				"reason", string(r.Reason),
				"pattern", r.Pattern,
			)
		}

		resolved, err := blogsnap.ResolveLinks(pageURL, result.Links)
		if err != nil {
			return nil, err
		}
		urls = append(urls, resolved...)
	}

	return urls, nil
}

func retryLogger(logger *slog.Logger) LogFunc {
	logger = orDiscard(logger)
	return func(format string, args ...any) {
		logger.Warn(fmt.Sprintf(format, args...))
	}
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
