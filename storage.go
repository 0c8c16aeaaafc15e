package tablex

import "context"

// TableWriter stores the tables extracted from one page.
type TableWriter interface {
	// SaveTables replaces every table stored for pageURL with tables.
	SaveTables(ctx context.Context, pageURL string, tables []*Table) error
}

// TableService represents a service for managing stored tables.
type TableService interface {
	TableWriter

	// FindTableByID retrieves a table by ID.
	// Returns ENOTFOUND if the table does not exist.
	FindTableByID(ctx context.Context, id string) (*Table, error)

	// FindTables retrieves tables matching the filter, ordered by page URL
	// and position on the page.
	FindTables(ctx context.Context, filter TableFilter) ([]*Table, error)

	// DeleteTablesByURL removes every table of a page and returns how many
	// were removed. Returns ENOTFOUND if no page has that URL.
	DeleteTablesByURL(ctx context.Context, pageURL string) (int, error)
}

// TableFilter represents a filter used by FindTables.
type TableFilter struct {
	ID  *string
	URL *string

	Offset int
	Limit  int
}
