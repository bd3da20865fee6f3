package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/alecthomas/kong"
	"github.com/fwojciec/blogsnap"
	"github.com/fwojciec/blogsnap/docx"
	"github.com/fwojciec/blogsnap/fs"
	"github.com/fwojciec/blogsnap/gofeed"
	"github.com/fwojciec/blogsnap/goquery"
	"github.com/fwojciec/blogsnap/htmltomarkdown"
	bshttp "github.com/fwojciec/blogsnap/http"
	"github.com/fwojciec/blogsnap/markdown"
	"github.com/fwojciec/blogsnap/scrape"
	bsslog "github.com/fwojciec/blogsnap/slog"
	"github.com/fwojciec/blogsnap/sqlite"
	"github.com/fwojciec/blogsnap/yaml"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Index database path. Set before calling Run().
	DBPath string

	// SQLite database used by the snapshot index.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("blogsnap"),
		kong.Description("Snapshot a blog archive into a single offline document."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments given. Run 'blogsnap --help' to see available flags")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := kongCtx.Command()

	// Load configuration: defaults, then file, then flags
	cfg := blogsnap.DefaultConfig()
	if path := yaml.FindConfig(cli.Config); path != "" {
		if cfg, err = yaml.LoadConfig(path, cfg); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	level := slog.LevelInfo
	if cli.Debug || (cmd == "snapshot" && cli.Snapshot.Test) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	// Open the index only when the command needs it
	if cli.Index != "" {
		m.DBPath = cli.Index
	}
	if cmd != "snapshot" || cli.Snapshot.Record || cli.Snapshot.SkipRecorded {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set BLOGSNAP_INDEX or --index to use a different database path\n")
			return fmt.Errorf("failed to open index at %q: %w", m.DBPath, err)
		}
		defer m.Close()
		deps.Snapshots = sqlite.NewSnapshotService(m.DB)
	}

	if cmd == "snapshot" {
		if err := cli.Snapshot.Apply(cfg); err != nil {
			fmt.Fprintf(stderr, "error: %s\n", blogsnap.ErrorMessage(err))
			return err
		}
		m.wireSnapshot(deps, cfg, &cli.Snapshot)
	}
	deps.Config = cfg

	return kongCtx.Run(deps)
}

// wireSnapshot builds the fetch, extraction and assembly pipeline.
func (m *Main) wireSnapshot(deps *Dependencies, cfg *blogsnap.Config, c *SnapshotCmd) {
	logger := deps.Logger

	opts := []bshttp.Option{
		bshttp.WithTimeout(cfg.Timeout),
		bshttp.WithUserAgent(cfg.UserAgent),
		bshttp.WithHeaders(cfg.Headers),
		bshttp.WithMaxBytes(cfg.MaxImageBytes),
	}
	fetcher := bsslog.NewLoggingFetcher(bshttp.NewFetcher(opts...), logger)
	images := bsslog.NewLoggingImageFetcher(bshttp.NewImageFetcher(opts...), logger)
	parser := goquery.NewParser(cfg.Layout)

	var source blogsnap.LinkSource
	if c.Feed {
		source = gofeed.NewSource(fetcher)
	} else {
		source = &scrape.ArchiveSource{
			Fetcher:     fetcher,
			Parser:      parser,
			RetryDelays: cfg.RetryDelays,
			Logger:      logger,
		}
	}
	deps.Links = bsslog.NewLoggingLinkSource(source, logger)

	scraper := &scrape.Scraper{
		Fetcher:      fetcher,
		Images:       images,
		Parser:       parser,
		Logger:       logger,
		ImageExclude: cfg.ImageExclude,
		RetryDelays:  cfg.RetryDelays,
		Policy:       cfg.PagePolicy,
	}
	if c.Format == "md" {
		scraper.Converter = htmltomarkdown.NewConverter(htmltomarkdown.WithDomain(siteRoot(cfg.ArchiveURLs)))
	}
	deps.Posts = scraper

	deps.Output = func(path, format, title string) (blogsnap.Assembler, blogsnap.OutputStore, error) {
		dir, name := filepath.Split(path)
		if dir == "" {
			dir = "."
		}
		store := fs.NewFileStore(dir, name)

		var a blogsnap.Assembler
		var err error
		switch format {
		case "md":
			a, err = markdown.NewAssembler(store, name, title, logger)
		default:
			a, err = docx.NewAssembler(store, name, title, logger)
		}
		if err != nil {
			return nil, nil, err
		}
		return bsslog.NewLoggingAssembler(a, logger), store, nil
	}
}

// siteRoot returns scheme and host of the first URL, or "" if there is
// none.
func siteRoot(urls []string) string {
	if len(urls) == 0 {
		return ""
	}
	u, err := url.Parse(urls[0])
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

func defaultDBPath() string {
	if path := os.Getenv("BLOGSNAP_INDEX"); path != "" {
		return path
	}
	path, err := xdg.DataFile("blogsnap/index.db")
	if err != nil {
		return "blogsnap.db"
	}
	return path
}
