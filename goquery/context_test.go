package goquery_test

import (
	"testing"

	"github.com/fwojciec/tablex"
	"github.com/fwojciec/tablex/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const sectionedPage = `<!DOCTYPE html>
<html>
<head><title>Mountains</title></head>
<body>
<h1>Mountains</h1>
<p>Intro text.</p>
<div>
	<h2>Asia</h2>
	<p>About Asia.</p>
	<h3>Himalaya</h3>
	<p>About the Himalaya.</p>
	<h2>Europe</h2>
	<p>About <b>Europe</b>.</p>
	<script>var x = 1;</script>
	<table id="target"><tr><td>Mont Blanc</td></tr></table>
	<p>After the table.</p>
	<span>Still after</span>
	<h3>Alps</h3>
	<p>Not included.</p>
</div>
</body>
</html>`

func texts(segments []*tablex.RichText) []string {
	var out []string
	for _, s := range segments {
		out = append(out, s.ToHTML(false, false))
	}
	return out
}

func TestContextExtractor_ExtractContext(t *testing.T) {
	t.Parallel()

	t.Run("keeps only enclosing headings", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, sectionedPage)
		ctx, err := goquery.NewContextExtractor().ExtractContext(first(t, doc, "#target"))
		require.NoError(t, err)

		require.Len(t, ctx, 3)
		assert.Equal(t, 0, ctx[0].Level)
		assert.Equal(t, "", ctx[0].Heading.Text)
		assert.Empty(t, ctx[0].ContentBefore)

		assert.Equal(t, 1, ctx[1].Level)
		assert.Equal(t, "h1", ctx[1].Heading.Tag())
		assert.Equal(t, "Mountains", ctx[1].Heading.Text)
		assert.Equal(t, []string{"Intro text."}, texts(ctx[1].ContentBefore))
		assert.Empty(t, ctx[1].ContentAfter)

		assert.Equal(t, 2, ctx[2].Level)
		assert.Equal(t, "Europe", ctx[2].Heading.Text)
		assert.Equal(t, []string{"About <b>Europe</b>."}, texts(ctx[2].ContentBefore))
		assert.Equal(t, []string{"After the table.", "<span>Still after</span>"}, texts(ctx[2].ContentAfter))

		for i := 1; i < len(ctx); i++ {
			assert.Less(t, ctx[i-1].Level, ctx[i].Level)
		}
		for _, level := range ctx {
			for _, seg := range append(level.ContentBefore, level.ContentAfter...) {
				assert.True(t, seg.Validate())
			}
		}
	})

	t.Run("inline runs join into one segment", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, `<html><body><h2>Title</h2>Some <a href="/x">linked</a> text<p>Para</p><table id="t"></table></body></html>`)
		ctx, err := goquery.NewContextExtractor().ExtractContext(first(t, doc, "#t"))
		require.NoError(t, err)

		require.Len(t, ctx, 2)
		assert.Equal(t, []string{"Some <a>linked</a> text", "Para"}, texts(ctx[1].ContentBefore))
	})

	t.Run("table first in body", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, `<html><body><table id="t"></table></body></html>`)
		ctx, err := goquery.NewContextExtractor().ExtractContext(first(t, doc, "#t"))
		require.NoError(t, err)

		require.Len(t, ctx, 1)
		assert.Equal(t, 0, ctx[0].Level)
		assert.Empty(t, ctx[0].ContentBefore)
		assert.Empty(t, ctx[0].ContentAfter)
	})

	t.Run("custom boundary tags", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, `<html><body><table id="t"></table><p>one</p><hr><p>two</p></body></html>`)
		ctx, err := goquery.NewContextExtractor(goquery.WithBoundaryTags("hr")).ExtractContext(first(t, doc, "#t"))
		require.NoError(t, err)

		assert.Equal(t, []string{"one"}, texts(ctx[len(ctx)-1].ContentAfter))
	})

	t.Run("element without parent", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewContextExtractor().ExtractContext(&html.Node{Type: html.ElementNode, Data: "table"})
		assert.Equal(t, tablex.EMALFORMED, tablex.ErrorCode(err))
	})

	t.Run("document root", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, sectionedPage)
		_, err := goquery.NewContextExtractor().ExtractContext(doc.Get(0))
		assert.Equal(t, tablex.EMALFORMED, tablex.ErrorCode(err))
	})
}
