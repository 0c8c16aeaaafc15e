package mock

import "github.com/fwojciec/tablex"

var _ tablex.Converter = (*Converter)(nil)

// Converter is a mock implementation of tablex.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
