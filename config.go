package blogsnap

import "time"

// Default configuration values.
const (
	DefaultUserAgent     = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/86.0.4240.111 Safari/537.36"
	DefaultArchiveURL    = "https://slatestarcodex.com/archives/"
	DefaultTimeout       = 30 * time.Second
	DefaultTestLimit     = 10
	DefaultMaxImageBytes = 20 << 20
)

// Layout holds the CSS selectors describing the blog's fixed structure.
type Layout struct {
	// Root is the top-level container searched for the other regions.
	Root string `yaml:"root"`

	// Content selects the entry content region inside Root.
	Content string `yaml:"content"`

	// Header selects the entry header region inside Root.
	Header string `yaml:"header"`

	// Heading selects the title element inside Header. If nothing
	// matches, the header's own text is used.
	Heading string `yaml:"heading"`

	// Paragraph selects paragraph-level elements inside Content.
	Paragraph string `yaml:"paragraph"`
}

// DefaultLayout returns the selectors for a WordPress-style entry page.
func DefaultLayout() Layout {
	return Layout{
		Root:      "div",
		Content:   "div.entry-content",
		Header:    ".entry-header",
		Heading:   "h1, h2",
		Paragraph: "p",
	}
}

// Config holds everything a snapshot run needs to know about the target
// blog and the network. It is passed explicitly through the pipeline.
type Config struct {
	UserAgent   string            `yaml:"user_agent"`
	Headers     map[string]string `yaml:"headers"`
	ArchiveURLs []string          `yaml:"archive_urls"`
	Layout      Layout            `yaml:"layout"`
	Cull        CullRule          `yaml:"cull"`

	// ImageExclude drops images whose source contains any of these
	// substrings, typically ad-network domains.
	ImageExclude []string `yaml:"image_exclude"`

	Timeout       time.Duration   `yaml:"timeout"`
	RetryDelays   []time.Duration `yaml:"retry_delays"`
	MaxImageBytes int64           `yaml:"max_image_bytes"`
	TestLimit     int             `yaml:"test_limit"`
	PagePolicy    PagePolicy      `yaml:"page_policy"`

	// Chronological reverses the discovered links, turning an archive's
	// newest-first listing into reading order.
	Chronological bool `yaml:"chronological"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		UserAgent:   DefaultUserAgent,
		ArchiveURLs: []string{DefaultArchiveURL},
		Layout:      DefaultLayout(),
		Cull:        DefaultCullRule(),
		ImageExclude: []string{
			"doubleclick.net",
			"googlesyndication.com",
			"amazon-adsystem.com",
			"pixel.wp.com",
			"stats.wp.com",
		},
		Timeout:       DefaultTimeout,
		RetryDelays:   []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
		MaxImageBytes: DefaultMaxImageBytes,
		TestLimit:     DefaultTestLimit,
		PagePolicy:    PolicyAbort,
		Chronological: true,
	}
}

// Validate returns an error if the configuration cannot drive a run.
func (c *Config) Validate() error {
	if c.UserAgent == "" {
		return Errorf(EINVALID, "user agent required")
	}
	if c.Layout.Root == "" || c.Layout.Content == "" || c.Layout.Paragraph == "" {
		return Errorf(EINVALID, "layout root, content and paragraph selectors required")
	}
	if c.Timeout <= 0 {
		return Errorf(EINVALID, "timeout must be positive")
	}
	if c.MaxImageBytes <= 0 {
		return Errorf(EINVALID, "max image bytes must be positive")
	}
	if c.TestLimit < 0 {
		return Errorf(EINVALID, "test limit must not be negative")
	}
	switch c.PagePolicy {
	case PolicyAbort, PolicySkip:
	default:
		return Errorf(EINVALID, "unknown page policy %q", c.PagePolicy)
	}
	return nil
}
