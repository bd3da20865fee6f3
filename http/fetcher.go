// Package http provides net/http implementations of blogsnap.Fetcher and
// blogsnap.ImageFetcher.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/blogsnap"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = blogsnap.DefaultTimeout

// Ensure Fetcher implements blogsnap.Fetcher at compile time.
var _ blogsnap.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML pages with plain GET requests.
// Every request carries the configured User-Agent and headers.
type Fetcher struct {
	client    *http.Client
	userAgent string
	headers   map[string]string
}

// Option configures a Fetcher or an ImageFetcher.
type Option func(*options)

type options struct {
	timeout   time.Duration
	userAgent string
	headers   map[string]string
	client    *http.Client
	maxBytes  int64
	tempDir   string
}

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithHeaders sets additional request headers.
func WithHeaders(headers map[string]string) Option {
	return func(o *options) {
		o.headers = headers
	}
}

// WithClient sets the underlying HTTP client. The timeout option is
// ignored when a client is given.
func WithClient(c *http.Client) Option {
	return func(o *options) {
		o.client = c
	}
}

// WithMaxBytes caps the size of a downloaded image.
func WithMaxBytes(n int64) Option {
	return func(o *options) {
		o.maxBytes = n
	}
}

// WithTempDir sets the directory holding downloaded images.
// Defaults to os.TempDir().
func WithTempDir(dir string) Option {
	return func(o *options) {
		o.tempDir = dir
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		timeout:   DefaultFetchTimeout,
		userAgent: blogsnap.DefaultUserAgent,
		maxBytes:  blogsnap.DefaultMaxImageBytes,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.client == nil {
		o.client = &http.Client{Timeout: o.timeout}
	}
	return o
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	o := newOptions(opts)
	return &Fetcher{
		client:    o.client,
		userAgent: o.userAgent,
		headers:   o.headers,
	}
}

// Fetch retrieves the page at url and decodes it to UTF-8 using the
// charset declared by the response or the document.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	resp, err := get(ctx, f.client, url, f.userAgent, f.headers)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", blogsnap.Errorf(blogsnap.EFETCH, "HTTP %d for %s", resp.StatusCode, url)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if len(raw) == 0 {
		return "", nil
	}

	r, err := charset.NewReader(bytes.NewReader(raw), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", url, err)
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

func get(ctx context.Context, client *http.Client, url, userAgent string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	return client.Do(req)
}
