package mock

import "github.com/fwojciec/blogsnap"

var _ blogsnap.Converter = (*Converter)(nil)

// Converter is a mock implementation of blogsnap.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
