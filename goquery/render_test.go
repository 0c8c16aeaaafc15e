package goquery_test

import (
	"strings"
	"testing"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/tablex"
	"github.com/fwojciec/tablex/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parse(t *testing.T, s string) *gq.Document {
	t.Helper()
	doc, err := gq.NewDocumentFromReader(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

func first(t *testing.T, doc *gq.Document, selector string) *html.Node {
	t.Helper()
	sel := doc.Find(selector)
	require.Positive(t, sel.Length(), "no match for %q", selector)
	return sel.Get(0)
}

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	inline := goquery.NewRenderer(nil, nil, nil, true)

	t.Run("trailing space moves out of the element", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, "<p>What are you<b>doing </b>?</p>")
		rt := inline.Render(first(t, doc, "p"))

		assert.Equal(t, "What are youdoing ?", rt.Text)
		assert.Equal(t, "p", rt.Tag())
		assert.Equal(t, "What are you<b>doing</b> ?", rt.ToHTML(false, false))
		assert.Equal(t, "<p>What are you<b>doing</b> ?</p>", rt.ToHTML(true, false))
		assert.True(t, rt.Validate())
	})

	t.Run("leading space moves out of the element", func(t *testing.T) {
		t.Parallel()

		a := inline.Render(first(t, parse(t, "<p>Hello <a> World</a></p>"), "p"))
		b := inline.Render(first(t, parse(t, "<p>Hello <a>World</a></p>"), "p"))

		assert.Equal(t, "Hello <a>World</a>", a.ToHTML(false, false))
		assert.Equal(t, b.ToHTML(false, false), a.ToHTML(false, false))
	})

	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty element", "<i></i>", "<i></i>"},
		{"whitespace-only element", "  <i>   </i>", "<i></i>"},
		{"collapsed whitespace", "<a>  Link    to<b> something</b><i></i></a>", "<a>Link to <b>something</b><i></i></a>"},
		{"nested empty elements", "<a>  Link    to<b> something</b><i></i> <span><b></b></span></a>", "<a>Link to <b>something</b><i></i><span><b></b></span></a>"},
		{"empty element before text keeps the leading space outside", "<p>Hello<a> <i></i>World</a></p>", "Hello <a><i></i>World</a>"},
		{"image before text keeps the leading space outside", "<p>Hello<a> <img>World</a></p>", "Hello <a><img></img>World</a>"},
		{"empty element before a space stays before it", "<p><a>Hi<i></i> there</a></p>", "<a>Hi<i></i> there</a>"},
		{"escaped text", "<b>1 &lt; 2</b> &amp; more", "<b>1 &lt; 2</b> &amp; more"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := parse(t, "<html><body>"+tt.body+"</body></html>")
			rt := inline.Render(first(t, doc, "body"))

			assert.Equal(t, tt.want, rt.ToHTML(false, false))
			assert.True(t, rt.Validate())
		})
	}

	t.Run("blocks start new lines", func(t *testing.T) {
		t.Parallel()

		doc := parse(t, "<div><p>one</p><p></p><p>two <b>three</b></p>four</div>")
		rt := inline.Render(first(t, doc, "div"))

		assert.Equal(t, "one\ntwo three\nfour", rt.Text)
		assert.Equal(t, "one\ntwo <b>three</b>\nfour", rt.ToHTML(false, false))
		assert.True(t, rt.Validate())
	})

	t.Run("line break", func(t *testing.T) {
		t.Parallel()

		rt := inline.Render(first(t, parse(t, "<p>a<br>b<br><br>c</p>"), "p"))

		assert.Equal(t, "a\nb\nc", rt.Text)
	})

	t.Run("ignored and discarded tags", func(t *testing.T) {
		t.Parallel()

		r := goquery.NewRenderer([]string{"span"}, []string{"script"}, nil, false)
		rt := r.Render(first(t, parse(t, "<p>a<script>x</script><span>b</span><em>c</em></p>"), "p"))

		assert.Equal(t, "abc", rt.Text)
		assert.Equal(t, "ab<em>c</em>", rt.ToHTML(false, false))
	})

	t.Run("block elements are tracked without inline-only", func(t *testing.T) {
		t.Parallel()

		r := goquery.NewRenderer(nil, nil, nil, false)
		rt := r.Render(first(t, parse(t, "<div><p>one</p><p>two</p></div>"), "div"))

		assert.Equal(t, "<p>one</p>\n<p>two</p>", rt.ToHTML(false, false))
		assert.True(t, rt.Validate())
	})

	t.Run("kept tags are tracked in inline-only mode", func(t *testing.T) {
		t.Parallel()

		r := goquery.NewRenderer(nil, nil, []string{"h2"}, true)
		rt := r.Render(first(t, parse(t, "<div><h2>Title</h2>text</div>"), "div"))

		assert.Equal(t, "<h2>Title</h2>\ntext", rt.ToHTML(false, false))
	})

	t.Run("attributes", func(t *testing.T) {
		t.Parallel()

		rt := inline.Render(first(t, parse(t, `<p><a href="/wiki/Go" title="Go">Go</a></p>`), "p"))

		assert.Equal(t, `<a href="/wiki/Go" title="Go">Go</a>`, rt.ToHTML(false, true))
		link := rt.Elements.Get(rt.Elements.Children(rt.Elements.RootID())[0])
		href, ok := link.Attr("href")
		assert.True(t, ok)
		assert.Equal(t, "/wiki/Go", href)
		assert.False(t, link.HasAttr("class"))
	})
}

func TestRenderer_RenderNodes(t *testing.T) {
	t.Parallel()

	r := goquery.NewRenderer(nil, nil, nil, true)
	doc := parse(t, "<p>x <b>y</b> z</p>")
	var nodes []*html.Node
	for c := first(t, doc, "p").FirstChild; c != nil; c = c.NextSibling {
		nodes = append(nodes, c)
	}

	rt := r.RenderNodes(nodes)

	assert.Equal(t, tablex.PseudoTag, rt.Tag())
	assert.Equal(t, "x <b>y</b> z", rt.ToHTML(true, false))
	assert.True(t, rt.Validate())
}

func TestRenderer_Text(t *testing.T) {
	t.Parallel()

	r := goquery.NewRenderer(nil, nil, nil, true)
	doc := parse(t, "<table><caption>  Mountains   <b>of</b> Asia </caption></table>")

	assert.Equal(t, "Mountains of Asia", r.Text(first(t, doc, "caption")))
}
