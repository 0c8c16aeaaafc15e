package goquery

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/tablex"
	"golang.org/x/net/html"
)

var _ tablex.TableExtractor = (*TableExtractor)(nil)

// TableExtractor extracts tables from HTML documents using goquery.
type TableExtractor struct {
	cells   *Renderer
	context *ContextExtractor
}

// NewTableExtractor returns a new instance of TableExtractor. Options
// configure the context extractor; cell text always keeps inline
// elements only.
func NewTableExtractor(opts ...Option) *TableExtractor {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return &TableExtractor{
		cells:   NewRenderer(c.ignored, []string{"script", "style", "noscript"}, nil, true),
		context: newContextExtractor(c),
	}
}

// ExtractTables parses html and extracts its tables.
func (e *TableExtractor) ExtractTables(pageURL, html string, opts tablex.ExtractOptions) ([]*tablex.Table, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, tablex.Errorf(tablex.EINVALID, "failed to parse HTML: %v", err)
	}
	return e.ExtractDocument(pageURL, doc, opts)
}

// ExtractDocument extracts the tables of a parsed document that contain no
// nested table. Tables with unusable spans are left out.
func (e *TableExtractor) ExtractDocument(pageURL string, doc *goquery.Document, opts tablex.ExtractOptions) ([]*tablex.Table, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, tablex.Errorf(tablex.EINVALID, "invalid page URL: %v", err)
	}

	var tables []*tablex.Table
	var extractErr error
	doc.Find("table").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if sel.Find("table").Length() > 0 {
			return true
		}
		tbl, err := e.extract(sel, opts)
		switch tablex.ErrorCode(err) {
		case "":
			tables = append(tables, tbl)
		case tablex.EINVALIDSPAN, tablex.EOVERLAPSPAN:
		default:
			extractErr = err
			return false
		}
		return true
	})
	if extractErr != nil {
		return nil, extractErr
	}

	query := "table_no="
	if u.RawQuery != "" {
		query = u.RawQuery + "&table_no="
	}
	for i, tbl := range tables {
		id := *u
		id.RawQuery = query + strconv.Itoa(i)
		tbl.ID = id.String()
		tbl.URL = pageURL
	}
	return tables, nil
}

// extract reads one table and applies the post-processing in opts.
func (e *TableExtractor) extract(sel *goquery.Selection, opts tablex.ExtractOptions) (*tablex.Table, error) {
	tbl, err := e.ExtractTable(sel)
	if err != nil {
		return nil, err
	}
	if opts.AutoSpan {
		if tbl, err = tbl.Span(); err != nil {
			return nil, err
		}
	}
	if opts.AutoPad {
		if padded, ok := tbl.Pad(); ok {
			tbl = padded
		}
	}
	if opts.ExtractContext {
		if tbl.Context, err = e.context.ExtractContext(sel.Get(0)); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

// ExtractTable reads the caption, rows and cells of a table element as
// written in the markup.
func (e *TableExtractor) ExtractTable(sel *goquery.Selection) (*tablex.Table, error) {
	tbl := &tablex.Table{Attrs: attrMap(sel.Get(0))}

	var rows []*html.Node
	for _, child := range sel.Children().Nodes {
		switch child.Data {
		case "caption":
			tbl.Caption = e.cells.Text(child)
		case "thead", "tbody", "tfoot":
			rows = append(rows, goquery.NewDocumentFromNode(child).ChildrenFiltered("tr").Nodes...)
		case "tr":
			rows = append(rows, child)
		}
	}

	for _, tr := range rows {
		row := tablex.Row{Attrs: attrMap(tr)}
		for _, td := range goquery.NewDocumentFromNode(tr).ChildrenFiltered("td, th").Nodes {
			cell, err := e.extractCell(td)
			if err != nil {
				return nil, err
			}
			row.Cells = append(row.Cells, cell)
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl, nil
}

func (e *TableExtractor) extractCell(n *html.Node) (tablex.Cell, error) {
	sel := goquery.NewDocumentFromNode(n).Selection
	rowspan, err := parseSpan(sel, "rowspan")
	if err != nil {
		return tablex.Cell{}, err
	}
	colspan, err := parseSpan(sel, "colspan")
	if err != nil {
		return tablex.Cell{}, err
	}
	raw, err := goquery.OuterHtml(sel)
	if err != nil {
		return tablex.Cell{}, err
	}
	return tablex.Cell{
		IsHeader: n.Data == "th",
		Rowspan:  rowspan,
		Colspan:  colspan,
		Attrs:    attrMap(n),
		Value:    e.cells.Render(n),
		HTML:     raw,
	}, nil
}

// parseSpan reads a span attribute. A missing or blank value is 1.
func parseSpan(sel *goquery.Selection, name string) (int, error) {
	raw := strings.TrimSpace(sel.AttrOr(name, ""))
	if raw == "" {
		return 1, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, tablex.Errorf(tablex.EINVALIDSPAN, "Invalid %s %q.", name, raw)
	}
	return v, nil
}
