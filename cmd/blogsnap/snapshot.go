package main

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/fwojciec/blogsnap"
	"github.com/fwojciec/blogsnap/scrape"
)

// Apply overrides cfg with the flags that were set.
func (c *SnapshotCmd) Apply(cfg *blogsnap.Config) error {
	if len(c.URL) > 0 {
		cfg.ArchiveURLs = c.URL
	}
	if c.TestLimit != 0 {
		cfg.TestLimit = c.TestLimit
	}
	if len(c.Require) > 0 {
		cfg.Cull.Require = append(slices.Clone(cfg.Cull.Require), c.Require...)
	}
	if c.OnPageError != "" {
		cfg.PagePolicy = blogsnap.PagePolicy(c.OnPageError)
	}
	if c.Timeout != 0 {
		cfg.Timeout = c.Timeout
	}
	if c.Direct && c.Feed {
		return blogsnap.Errorf(blogsnap.EINVALID, "--direct and --feed are mutually exclusive")
	}
	if c.Direct && len(c.URL) == 0 {
		return blogsnap.Errorf(blogsnap.EINVALID, "--direct requires --url")
	}
	if len(cfg.ArchiveURLs) == 0 {
		return blogsnap.Errorf(blogsnap.EINVALID, "no archive URL configured")
	}
	return cfg.Validate()
}

// output returns the output path, defaulting to site.<format>.
func (c *SnapshotCmd) output() string {
	if c.Out != "" {
		return c.Out
	}
	return "site." + c.Format
}

// Run executes the snapshot command.
func (c *SnapshotCmd) Run(deps *Dependencies) error {
	urls, err := c.postURLs(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", blogsnap.ErrorMessage(err))
		return err
	}

	if c.Preview {
		for _, u := range urls {
			fmt.Fprintln(deps.Stdout, u)
		}
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Found %d posts\n", len(urls))

	out := c.output()
	asm, store, err := deps.Output(out, c.Format, c.Title)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", blogsnap.ErrorMessage(err))
		return err
	}

	// Nothing reaches out unless every post was assembled.
	fail := func(err error) error {
		_ = asm.Close()
		if abortErr := store.Abort(); abortErr != nil {
			deps.Logger.Warn("discard output", "err", abortErr)
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", blogsnap.ErrorMessage(err))
		return err
	}

	var records []*blogsnap.SnapshotPost
	for post, err := range deps.Posts.Posts(deps.Ctx, urls) {
		if err != nil {
			return fail(err)
		}

		stats, err := asm.AddPost(deps.Ctx, post)
		if err != nil {
			return fail(err)
		}

		fmt.Fprintf(deps.Stdout, "  %s (%d paragraphs, %d images", post.Title, stats.Paragraphs, stats.Images)
		if missing := stats.Absent + stats.EmbedFailed; missing > 0 {
			fmt.Fprintf(deps.Stdout, ", %d missing", missing)
		}
		fmt.Fprintln(deps.Stdout, ")")

		records = append(records, &blogsnap.SnapshotPost{
			URL:        post.URL,
			Title:      post.Title,
			Position:   len(records),
			Paragraphs: stats.Paragraphs,
			Images:     stats.Images,
			Absent:     stats.Absent,
			Content:    stats.Text(),
		})
	}

	if err := asm.Close(); err != nil {
		_ = store.Abort()
		fmt.Fprintf(deps.Stderr, "error: %s\n", blogsnap.ErrorMessage(err))
		return err
	}
	if err := store.Commit(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", blogsnap.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Wrote %s (%d posts)\n", out, len(records))

	if c.Record && deps.Snapshots != nil {
		snap := &blogsnap.Snapshot{Title: c.Title, OutputPath: out}
		if err := deps.Snapshots.CreateSnapshot(deps.Ctx, snap, records); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", blogsnap.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Recorded snapshot %s\n", snap.ID)
	}

	return nil
}

// postURLs discovers, culls and orders the post URLs for this run.
func (c *SnapshotCmd) postURLs(deps *Dependencies) ([]string, error) {
	cfg := deps.Config

	var urls []string
	if c.Direct {
		urls = cullDirect(cfg.ArchiveURLs, cfg.Cull, deps.Logger)
	} else {
		var err error
		urls, err = scrape.CollectLinks(deps.Ctx, deps.Links, cfg.ArchiveURLs, cfg.Cull, deps.Logger)
		if err != nil {
			return nil, err
		}
		if cfg.Chronological {
			slices.Reverse(urls)
		}
	}

	if c.SkipRecorded && deps.Snapshots != nil {
		var err error
		if urls, err = c.unrecorded(deps, urls); err != nil {
			return nil, err
		}
	}

	if c.Test && len(urls) > cfg.TestLimit {
		urls = urls[:cfg.TestLimit]
	}
	return urls, nil
}

// unrecorded drops urls already present in the snapshot index.
func (c *SnapshotCmd) unrecorded(deps *Dependencies, urls []string) ([]string, error) {
	out := urls[:0:0]
	for _, u := range urls {
		posts, err := deps.Snapshots.FindPosts(deps.Ctx, blogsnap.PostFilter{URL: &u, Limit: 1})
		if err != nil {
			return nil, err
		}
		if len(posts) > 0 {
			deps.Logger.Debug("skip recorded post", "url", u)
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

// cullDirect applies rule to post URLs given on the command line.
func cullDirect(given []string, rule blogsnap.CullRule, logger *slog.Logger) []string {
	links := make([]blogsnap.Link, 0, len(given))
	for _, u := range given {
		links = append(links, blogsnap.NewLink(u))
	}

	result := blogsnap.Cull(links, rule)
	for _, r := range result.Removed {
		logger.Debug("culled link",
			"link", r.Link.String(),
			"reason", string(r.Reason),
			"pattern", r.Pattern,
		)
	}

	urls := make([]string, 0, len(result.Links))
	for _, l := range result.Links {
		urls = append(urls, l.URL)
	}
	return urls
}
