package tablex

import (
	"html"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Table is a table extracted from a page.
type Table struct {
	ID      string             `json:"id"`
	URL     string             `json:"url"`
	Caption string             `json:"caption"`
	Attrs   map[string]string  `json:"attrs,omitempty"`
	Context []ContentHierarchy `json:"context,omitempty"`
	Rows    []Row              `json:"rows"`
}

// Row is a table row.
type Row struct {
	Cells []Cell            `json:"cells"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

// Cell is a table cell. Rowspan and Colspan are 1 once the table has been
// normalized with Span.
type Cell struct {
	IsHeader bool              `json:"is_header"`
	Rowspan  int               `json:"rowspan"`
	Colspan  int               `json:"colspan"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Value    *RichText         `json:"value"`
	HTML     string            `json:"html,omitempty"`
}

// String returns the cell value as markup, including the cell element.
func (c *Cell) String() string {
	if c.Value == nil {
		return ""
	}
	return c.Value.ToHTML(true, false)
}

// clone returns a copy of c that owns its attributes and value.
func (c Cell) clone() Cell {
	c.Attrs = maps.Clone(c.Attrs)
	if c.Value != nil {
		c.Value = c.Value.Clone()
	}
	return c
}

// Validate returns an error if the table is missing required fields.
func (t *Table) Validate() error {
	if t.ID == "" {
		return Errorf(EINVALID, "Table ID required.")
	}
	if t.URL == "" {
		return Errorf(EINVALID, "Table URL required.")
	}
	return nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// NumCols returns the width of the widest row.
func (t *Table) NumCols() int {
	n := 0
	for _, row := range t.Rows {
		n = max(n, len(row.Cells))
	}
	return n
}

// Cell returns the cell at the given position, or nil when the position is
// out of range.
func (t *Table) Cell(row, col int) *Cell {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	cells := t.Rows[row].Cells
	if col < 0 || col >= len(cells) {
		return nil
	}
	return &cells[col]
}

// IsRegular reports whether every row has the same number of cells.
func (t *Table) IsRegular() bool {
	for _, row := range t.Rows {
		if len(row.Cells) != len(t.Rows[0].Cells) {
			return false
		}
	}
	return true
}

// withRows returns a copy of t with the given rows. The copy owns its
// attributes and context.
func (t *Table) withRows(rows []Row) *Table {
	return &Table{
		ID:      t.ID,
		URL:     t.URL,
		Caption: t.Caption,
		Attrs:   maps.Clone(t.Attrs),
		Context: cloneContext(t.Context),
		Rows:    rows,
	}
}

// gridWidth counts, per row, the cells starting there plus the cells hanging
// over from rowspans above it, and returns the largest count.
func (t *Table) gridWidth() int {
	counts := make([]int, len(t.Rows))
	for i, row := range t.Rows {
		counts[i] += len(row.Cells)
		for _, cell := range row.Cells {
			for j := 1; j < cell.Rowspan && i+j < len(counts); j++ {
				counts[i+j]++
			}
		}
	}
	return slices.Max(counts)
}

// Span expands colspan and rowspan into a regular grid of single cells.
//
// A cell that runs past the grid width is truncated when it is the last of
// its row and reported as EINVALIDSPAN otherwise. A cell placed on a
// position claimed by a rowspan from above is reported as EOVERLAPSPAN.
// Rowspans extending past the last row are dropped.
func (t *Table) Span() (*Table, error) {
	if len(t.Rows) == 0 {
		return t.withRows(nil), nil
	}

	width := t.gridWidth()
	pending := make(map[[2]int]Cell)
	rows := make([]Row, 0, len(t.Rows))

	for ri, row := range t.Rows {
		cells := make([]Cell, 0, width)
		col := 0

		drain := func() {
			for {
				c, ok := pending[[2]int{ri, col}]
				if !ok || col >= width {
					return
				}
				delete(pending, [2]int{ri, col})
				cells = append(cells, c)
				col++
			}
		}

		for ci, orig := range row.Cells {
			cell := orig
			cell.Rowspan, cell.Colspan = 1, 1

			drain()

			for range orig.Colspan {
				if _, ok := pending[[2]int{ri, col}]; ok {
					return nil, Errorf(EOVERLAPSPAN, "Cell at row %d, column %d overlaps a rowspan.", ri, col)
				}
				cells = append(cells, cell.clone())
				for off := 1; off < orig.Rowspan; off++ {
					pending[[2]int{ri + off, col}] = cell.clone()
				}
				col++

				if col >= width {
					if ci != len(row.Cells)-1 {
						return nil, Errorf(EINVALIDSPAN, "Cell at row %d, column %d exceeds the table width %d.", ri, col-1, width)
					}
					break
				}
			}
		}

		drain()
		rows = append(rows, Row{Cells: cells, Attrs: maps.Clone(row.Attrs)})
	}

	return t.withRows(rows), nil
}

// Pad appends empty cells to short rows so every row has the same width.
// It returns false, and no table, when t is already regular. An appended
// cell is a header when the last existing cell of its row is a header.
func (t *Table) Pad() (*Table, bool) {
	if len(t.Rows) == 0 || t.IsRegular() {
		return nil, false
	}

	width := t.NumCols()
	rows := make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]Cell, 0, width)
		for _, c := range row.Cells {
			cells = append(cells, c.clone())
		}
		isHeader := len(cells) > 0 && cells[len(cells)-1].IsHeader
		for len(cells) < width {
			cells = append(cells, Cell{
				IsHeader: isHeader,
				Rowspan:  1,
				Colspan:  1,
				Value:    EmptyRichText(),
			})
		}
		rows[i] = Row{Cells: cells, Attrs: maps.Clone(row.Attrs)}
	}
	return t.withRows(rows), true
}

// HTML renders the table as plain markup: th/td cells holding the inner
// markup of each cell value, preceded by the caption when set.
func (t *Table) HTML() string {
	var b strings.Builder
	b.WriteString("<table>")
	if t.Caption != "" {
		b.WriteString("<caption>")
		b.WriteString(html.EscapeString(t.Caption))
		b.WriteString("</caption>")
	}
	for _, row := range t.Rows {
		b.WriteString("<tr>")
		for _, cell := range row.Cells {
			tag := "td"
			if cell.IsHeader {
				tag = "th"
			}
			b.WriteString("<" + tag)
			if cell.Rowspan > 1 {
				b.WriteString(` rowspan="` + strconv.Itoa(cell.Rowspan) + `"`)
			}
			if cell.Colspan > 1 {
				b.WriteString(` colspan="` + strconv.Itoa(cell.Colspan) + `"`)
			}
			b.WriteString(">")
			if cell.Value != nil {
				b.WriteString(cell.Value.ToHTML(false, false))
			}
			b.WriteString("</" + tag + ">")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")
	return b.String()
}
