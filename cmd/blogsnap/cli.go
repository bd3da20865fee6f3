package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/blogsnap"
)

// OutputFunc creates the assembler and output store for a run.
type OutputFunc func(path, format, title string) (blogsnap.Assembler, blogsnap.OutputStore, error)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Config    *blogsnap.Config
	Links     blogsnap.LinkSource
	Posts     blogsnap.PostScraper
	Snapshots blogsnap.SnapshotService
	Output    OutputFunc
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config string `help:"YAML configuration file" type:"path"`
	Index  string `help:"Snapshot index database path" type:"path"`
	Debug  bool   `help:"Enable debug logging"`

	Snapshot SnapshotCmd `cmd:"" default:"withargs" help:"Snapshot a blog archive into a single document"`
	History  HistoryCmd  `cmd:"" help:"Show recorded snapshots"`
}

// SnapshotCmd is the "snapshot" subcommand, also run when no command is
// named.
type SnapshotCmd struct {
	URL          []string      `short:"u" name:"url" help:"Archive page URLs, comma separated"`
	Out          string        `short:"o" help:"Output file (default site.docx or site.md)"`
	Format       string        `short:"f" enum:"docx,md" default:"docx" help:"Output format (docx, md)"`
	Test         bool          `help:"Only snapshot the first posts and log verbosely"`
	TestLimit    int           `name:"test-limit" help:"Number of posts in test mode (default 10)"`
	Require      []string      `short:"r" sep:"none" help:"Keep only links containing this pattern (repeatable)"`
	Title        string        `help:"Document title"`
	Direct       bool          `help:"Treat URLs as post pages instead of archive pages"`
	Feed         bool          `help:"Treat URLs as RSS or Atom feeds"`
	OnPageError  string        `name:"on-page-error" help:"What to do when a post page fails (abort, skip)"`
	Record       bool          `help:"Record the snapshot in the index"`
	SkipRecorded bool          `name:"skip-recorded" help:"Skip posts already recorded in the index"`
	Preview      bool          `short:"p" help:"Print the post URLs without downloading them"`
	Timeout      time.Duration `help:"HTTP timeout (default 30s)"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	ID  string `arg:"" optional:"" help:"Snapshot ID"`
	URL string `help:"Show every recorded snapshot of this post URL"`
}
