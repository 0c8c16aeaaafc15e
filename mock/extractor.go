package mock

import "github.com/fwojciec/tablex"

var _ tablex.TableExtractor = (*TableExtractor)(nil)

// TableExtractor is a mock implementation of tablex.TableExtractor.
type TableExtractor struct {
	ExtractTablesFn func(pageURL, html string, opts tablex.ExtractOptions) ([]*tablex.Table, error)
}

func (e *TableExtractor) ExtractTables(pageURL, html string, opts tablex.ExtractOptions) ([]*tablex.Table, error) {
	return e.ExtractTablesFn(pageURL, html, opts)
}
