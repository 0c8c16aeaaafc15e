package mock

import (
	"context"

	"github.com/fwojciec/tablex"
)

var (
	_ tablex.TableWriter  = (*TableWriter)(nil)
	_ tablex.TableService = (*TableService)(nil)
	_ tablex.PageService  = (*PageService)(nil)
)

// TableWriter is a mock implementation of tablex.TableWriter.
type TableWriter struct {
	SaveTablesFn func(ctx context.Context, pageURL string, tables []*tablex.Table) error
}

func (w *TableWriter) SaveTables(ctx context.Context, pageURL string, tables []*tablex.Table) error {
	return w.SaveTablesFn(ctx, pageURL, tables)
}

// TableService is a mock implementation of tablex.TableService.
type TableService struct {
	SaveTablesFn        func(ctx context.Context, pageURL string, tables []*tablex.Table) error
	FindTableByIDFn     func(ctx context.Context, id string) (*tablex.Table, error)
	FindTablesFn        func(ctx context.Context, filter tablex.TableFilter) ([]*tablex.Table, error)
	DeleteTablesByURLFn func(ctx context.Context, pageURL string) (int, error)
}

func (s *TableService) SaveTables(ctx context.Context, pageURL string, tables []*tablex.Table) error {
	return s.SaveTablesFn(ctx, pageURL, tables)
}

func (s *TableService) FindTableByID(ctx context.Context, id string) (*tablex.Table, error) {
	return s.FindTableByIDFn(ctx, id)
}

func (s *TableService) FindTables(ctx context.Context, filter tablex.TableFilter) ([]*tablex.Table, error) {
	return s.FindTablesFn(ctx, filter)
}

func (s *TableService) DeleteTablesByURL(ctx context.Context, pageURL string) (int, error) {
	return s.DeleteTablesByURLFn(ctx, pageURL)
}

// PageService is a mock implementation of tablex.PageService.
type PageService struct {
	FindPagesFn func(ctx context.Context, filter tablex.PageFilter) ([]*tablex.Page, error)
}

func (s *PageService) FindPages(ctx context.Context, filter tablex.PageFilter) ([]*tablex.Page, error) {
	return s.FindPagesFn(ctx, filter)
}
