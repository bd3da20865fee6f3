// Package htmltomarkdown renders post paragraph markup as Markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/blogsnap"
)

// Ensure Converter implements blogsnap.Converter at compile time.
var _ blogsnap.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert paragraph HTML to Markdown.
type Converter struct {
	conv   *converter.Converter
	domain string
}

// Option configures a Converter.
type Option func(*Converter)

// WithDomain resolves site-relative links and image sources against domain,
// e.g. "https://slatestarcodex.com".
func WithDomain(domain string) Option {
	return func(c *Converter) {
		c.domain = strings.TrimSuffix(domain, "/")
	}
}

// NewConverter creates a new Converter.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert transforms paragraph HTML into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", blogsnap.Errorf(blogsnap.EINVALID, "empty HTML input")
	}

	var result string
	var err error
	if c.domain != "" {
		result, err = c.conv.ConvertString(html, converter.WithDomain(c.domain))
	} else {
		result, err = c.conv.ConvertString(html)
	}
	if err != nil {
		return "", err
	}

	return result, nil
}
