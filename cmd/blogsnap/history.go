package main

import (
	"fmt"

	"github.com/fwojciec/blogsnap"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	if c.ID == "" && c.URL == "" {
		err := blogsnap.Errorf(blogsnap.EINVALID, "snapshot ID or --url required")
		fmt.Fprintf(deps.Stderr, "error: %s\n", blogsnap.ErrorMessage(err))
		return err
	}

	filter := blogsnap.PostFilter{}
	if c.ID != "" {
		snap, err := deps.Snapshots.FindSnapshotByID(deps.Ctx, c.ID)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", blogsnap.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %d posts\n",
			snap.ID, snap.CreatedAt.Format("2006-01-02 15:04"), snap.OutputPath, snap.PostCount)
		filter.SnapshotID = &snap.ID
	}
	if c.URL != "" {
		filter.URL = &c.URL
	}

	posts, err := deps.Snapshots.FindPosts(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", blogsnap.ErrorMessage(err))
		return err
	}

	if len(posts) == 0 {
		fmt.Fprintln(deps.Stdout, "No recorded posts found. Use 'blogsnap --record' to record a snapshot.")
		return nil
	}

	for _, p := range posts {
		fmt.Fprintf(deps.Stdout, "%4d  %s  %s  %s  %s\n",
			p.Position, p.FetchedAt.Format("2006-01-02"), p.ContentHash, p.URL, p.Title)
	}
	return nil
}
