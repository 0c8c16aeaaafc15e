package tablex

// ExtractOptions controls the post-processing applied to extracted tables.
type ExtractOptions struct {
	// AutoSpan expands colspan/rowspan into a regular grid. Tables whose
	// spans cannot be resolved are dropped.
	AutoSpan bool

	// AutoPad pads short rows with empty cells.
	AutoPad bool

	// ExtractContext attaches the heading hierarchy leading to each table.
	ExtractContext bool
}

// DefaultExtractOptions enables every post-processing step.
func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{AutoSpan: true, AutoPad: true, ExtractContext: true}
}

// TableExtractor extracts tables from an HTML page.
type TableExtractor interface {
	// ExtractTables returns the tables of a page that do not contain nested
	// tables, in document order. Each table ID is derived from pageURL.
	ExtractTables(pageURL, html string, opts ExtractOptions) ([]*Table, error)
}
