package htmltomarkdown_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/tablex"
	"github.com/fwojciec/tablex/goquery"
	"github.com/fwojciec/tablex/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts inline markup", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<p>See <a href="https://example.com">the source</a> and <b>bold</b> text.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "[the source](https://example.com)")
		assert.Contains(t, md, "**bold**")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		md, err := htmltomarkdown.NewConverter().Convert(`<table><tr><th>Name</th><th>Length</th></tr><tr><td>Nile</td><td>6650</td></tr></table>`)

		require.NoError(t, err)
		assert.Contains(t, md, "Name")
		assert.Contains(t, md, "Nile")
		assert.Contains(t, md, "|")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := htmltomarkdown.NewConverter().Convert("  \n")
		assert.Equal(t, tablex.EINVALID, tablex.ErrorCode(err))
	})
}

const riversPage = `<html><body>
<h1>Geography</h1>
<p>Facts about the world.</p>
<h2>Longest <i>rivers</i></h2>
<table>
<tr><th>Name</th><th>Length</th></tr>
<tr><td>Nile</td><td>6650</td></tr>
</table>
<p>Lengths in km.</p>
</body></html>`

func TestConverter_ConvertTable(t *testing.T) {
	t.Parallel()

	t.Run("writes context headings before the table", func(t *testing.T) {
		t.Parallel()

		tables, err := goquery.NewTableExtractor().ExtractTables("https://example.com/rivers", riversPage, tablex.DefaultExtractOptions())
		require.NoError(t, err)
		require.Len(t, tables, 1)

		md, err := htmltomarkdown.NewConverter().ConvertTable(tables[0])
		require.NoError(t, err)

		h1 := strings.Index(md, "# Geography")
		prose := strings.Index(md, "Facts about the world.")
		h2 := strings.Index(md, "## Longest *rivers*")
		table := strings.Index(md, "Nile")
		after := strings.Index(md, "Lengths in km.")
		require.NotEqual(t, -1, h1)
		assert.Less(t, h1, prose)
		assert.Less(t, prose, h2)
		assert.Less(t, h2, table)
		assert.Less(t, table, after)
	})

	t.Run("writes table without context", func(t *testing.T) {
		t.Parallel()

		tbl := &tablex.Table{
			ID:      "https://example.com/?table_no=0",
			URL:     "https://example.com/",
			Caption: "Scores",
			Rows: []tablex.Row{
				{Cells: []tablex.Cell{{Rowspan: 1, Colspan: 1, Value: tablex.NewRichText("42")}}},
			},
		}

		md, err := htmltomarkdown.NewConverter().ConvertTable(tbl)
		require.NoError(t, err)
		assert.Contains(t, md, "42")
		assert.NotContains(t, md, "#")
	})
}
