package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/tablex"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var (
	_ tablex.TableService = (*TableService)(nil)
	_ tablex.PageService  = (*TableService)(nil)
)

// TableService implements tablex.TableService using SQLite. Each table is
// stored as a JSON document next to the columns used for listing. The
// content hash covers the rows only, so identical grids on different pages
// share a hash.
type TableService struct {
	db *DB
}

// NewTableService creates a new TableService.
func NewTableService(db *DB) *TableService {
	return &TableService{db: db}
}

// SaveTables replaces the tables stored for a page in one transaction.
func (s *TableService) SaveTables(ctx context.Context, pageURL string, tables []*tablex.Table) error {
	if pageURL == "" {
		return tablex.Errorf(tablex.EINVALID, "Page URL required.")
	}
	for _, tbl := range tables {
		if err := tbl.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM pages WHERE url = ?", pageURL); err != nil {
		return err
	}

	pageID := uuid.New().String()
	fetchedAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO pages (id, url, table_count, fetched_at)
		VALUES (?, ?, ?, ?)
	`, pageID, pageURL, len(tables), fetchedAt); err != nil {
		return err
	}

	for i, tbl := range tables {
		data, err := json.Marshal(tbl)
		if err != nil {
			return fmt.Errorf("failed to encode table %s: %w", tbl.ID, err)
		}
		cells, err := json.Marshal(tbl.Rows)
		if err != nil {
			return fmt.Errorf("failed to encode table %s: %w", tbl.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tables (id, page_id, position, caption, num_rows, num_cols, content_hash, data)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, tbl.ID, pageID, i, tbl.Caption, tbl.NumRows(), tbl.NumCols(), hashContent(cells), string(data)); err != nil {
			if strings.Contains(err.Error(), "UNIQUE") {
				return tablex.Errorf(tablex.ECONFLICT, "Table %s already exists.", tbl.ID)
			}
			return err
		}
	}

	return tx.Commit()
}

// FindTableByID retrieves a table by ID.
func (s *TableService) FindTableByID(ctx context.Context, id string) (*tablex.Table, error) {
	tables, err := s.FindTables(ctx, tablex.TableFilter{ID: &id, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, tablex.Errorf(tablex.ENOTFOUND, "Table not found.")
	}
	return tables[0], nil
}

// FindTables retrieves tables matching the filter.
func (s *TableService) FindTables(ctx context.Context, filter tablex.TableFilter) ([]*tablex.Table, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT t.data FROM tables t JOIN pages p ON p.id = t.page_id WHERE 1=1")
	if filter.ID != nil {
		query.WriteString(" AND t.id = ?")
		args = append(args, *filter.ID)
	}
	if filter.URL != nil {
		query.WriteString(" AND p.url = ?")
		args = append(args, *filter.URL)
	}
	query.WriteString(" ORDER BY p.url ASC, t.position ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []*tablex.Table
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var tbl tablex.Table
		if err := json.Unmarshal([]byte(data), &tbl); err != nil {
			return nil, fmt.Errorf("failed to decode table: %w", err)
		}
		tables = append(tables, &tbl)
	}

	return tables, rows.Err()
}

// DeleteTablesByURL removes a page and its tables.
func (s *TableService) DeleteTablesByURL(ctx context.Context, pageURL string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT table_count FROM pages WHERE url = ?", pageURL).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, tablex.Errorf(tablex.ENOTFOUND, "Page not found.")
	}
	if err != nil {
		return 0, err
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM pages WHERE url = ?", pageURL); err != nil {
		return 0, err
	}
	return count, nil
}

// FindPages retrieves the pages that have been saved, ordered by URL.
func (s *TableService) FindPages(ctx context.Context, filter tablex.PageFilter) ([]*tablex.Page, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, url, table_count, fetched_at FROM pages WHERE 1=1")
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	query.WriteString(" ORDER BY url ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*tablex.Page
	for rows.Next() {
		var page tablex.Page
		var fetchedAt string
		if err := rows.Scan(&page.ID, &page.URL, &page.TableCount, &fetchedAt); err != nil {
			return nil, err
		}
		if page.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at"); err != nil {
			return nil, err
		}
		pages = append(pages, &page)
	}

	return pages, rows.Err()
}
