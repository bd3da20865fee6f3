package blogsnap

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms a paragraph of HTML into Markdown.
	Convert(html string) (string, error)
}
