package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fwojciec/tablex"
	main "github.com/fwojciec/tablex/cmd/tablex"
	"github.com/fwojciec/tablex/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists tables with ID, size and caption", func(t *testing.T) {
		t.Parallel()

		var got tablex.TableFilter
		stdout := &bytes.Buffer{}
		deps := newDeps(stdout, &bytes.Buffer{})
		deps.Tables = &mock.TableService{
			FindTablesFn: func(_ context.Context, filter tablex.TableFilter) ([]*tablex.Table, error) {
				got = filter
				return []*tablex.Table{{
					ID:      "https://example.com/rivers?table_no=0",
					URL:     "https://example.com/rivers",
					Caption: "Longest rivers",
					Rows:    []tablex.Row{{Cells: []tablex.Cell{{}, {}}}},
				}}, nil
			},
		}

		cmd := &main.ListCmd{URL: "https://example.com/rivers"}
		require.NoError(t, cmd.Run(deps))

		require.NotNil(t, got.URL)
		assert.Equal(t, "https://example.com/rivers", *got.URL)
		assert.Contains(t, stdout.String(), `https://example.com/rivers?table_no=0  1x2  "Longest rivers"`)
	})

	t.Run("lists every table without a URL", func(t *testing.T) {
		t.Parallel()

		var got tablex.TableFilter
		stdout := &bytes.Buffer{}
		deps := newDeps(stdout, &bytes.Buffer{})
		deps.Tables = &mock.TableService{
			FindTablesFn: func(_ context.Context, filter tablex.TableFilter) ([]*tablex.Table, error) {
				got = filter
				return nil, nil
			},
		}

		require.NoError(t, (&main.ListCmd{}).Run(deps))

		assert.Nil(t, got.URL)
		assert.Contains(t, stdout.String(), "No tables found")
	})

	t.Run("lists pages", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := newDeps(stdout, &bytes.Buffer{})
		deps.Pages = &mock.PageService{
			FindPagesFn: func(context.Context, tablex.PageFilter) ([]*tablex.Page, error) {
				return []*tablex.Page{{
					URL:        "https://example.com/rivers",
					TableCount: 3,
					FetchedAt:  time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
				}}, nil
			},
		}

		require.NoError(t, (&main.ListCmd{Pages: true}).Run(deps))
		assert.Contains(t, stdout.String(), "https://example.com/rivers  3 tables  2026-03-01 09:30")
	})
}

func TestShowCmd_Run(t *testing.T) {
	t.Parallel()

	tbl := &tablex.Table{
		ID:  "https://example.com/rivers?table_no=0",
		URL: "https://example.com/rivers",
		Context: []tablex.ContentHierarchy{
			{Level: 0, Heading: tablex.EmptyRichText()},
			{Level: 2, Heading: tablex.NewRichText("Rivers")},
		},
		Rows: []tablex.Row{
			{Cells: []tablex.Cell{{IsHeader: true, Rowspan: 1, Colspan: 1, Value: tablex.NewRichText("Name")}}},
			{Cells: []tablex.Cell{{Rowspan: 1, Colspan: 1, Value: tablex.NewRichText("Nile")}}},
		},
	}
	tables := &mock.TableService{
		FindTableByIDFn: func(_ context.Context, id string) (*tablex.Table, error) {
			if id == tbl.ID {
				return tbl, nil
			}
			return nil, tablex.Errorf(tablex.ENOTFOUND, "Table not found.")
		},
	}

	t.Run("prints JSON", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := newDeps(stdout, &bytes.Buffer{})
		deps.Tables = tables

		require.NoError(t, (&main.ShowCmd{ID: tbl.ID}).Run(deps))
		assert.Contains(t, stdout.String(), `"id": "https://example.com/rivers?table_no=0"`)
	})

	t.Run("prints Markdown with headings", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := newDeps(stdout, &bytes.Buffer{})
		deps.Tables = tables

		require.NoError(t, (&main.ShowCmd{ID: tbl.ID, Markdown: true}).Run(deps))
		out := stdout.String()
		assert.Contains(t, out, "## Rivers")
		assert.Contains(t, out, "Nile")
	})

	t.Run("reports unknown IDs", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := newDeps(&bytes.Buffer{}, stderr)
		deps.Tables = tables

		err := (&main.ShowCmd{ID: "nope"}).Run(deps)
		assert.Equal(t, tablex.ENOTFOUND, tablex.ErrorCode(err))
		assert.Contains(t, stderr.String(), `table "nope" not found`)
	})
}

func TestDeleteCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("deletes tables when --force is set", func(t *testing.T) {
		t.Parallel()

		var deleted string
		stdout := &bytes.Buffer{}
		deps := newDeps(stdout, &bytes.Buffer{})
		deps.Tables = &mock.TableService{
			DeleteTablesByURLFn: func(_ context.Context, pageURL string) (int, error) {
				deleted = pageURL
				return 2, nil
			},
		}

		require.NoError(t, (&main.DeleteCmd{URL: "https://example.com/rivers", Force: true}).Run(deps))
		assert.Equal(t, "https://example.com/rivers", deleted)
		assert.Contains(t, stdout.String(), "Deleted 2 tables")
	})

	t.Run("requires --force", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := newDeps(&bytes.Buffer{}, stderr)
		deps.Tables = &mock.TableService{}

		err := (&main.DeleteCmd{URL: "https://example.com/rivers"}).Run(deps)
		assert.Equal(t, tablex.EINVALID, tablex.ErrorCode(err))
		assert.Contains(t, stderr.String(), "--force")
	})

	t.Run("reports unknown pages", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := newDeps(&bytes.Buffer{}, stderr)
		deps.Tables = &mock.TableService{
			DeleteTablesByURLFn: func(context.Context, string) (int, error) {
				return 0, tablex.Errorf(tablex.ENOTFOUND, "Page not found.")
			},
		}

		err := (&main.DeleteCmd{URL: "https://example.com/nope", Force: true}).Run(deps)
		assert.Equal(t, tablex.ENOTFOUND, tablex.ErrorCode(err))
		assert.Contains(t, stderr.String(), "not found")
	})
}
