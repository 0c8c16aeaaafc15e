package tablex

import (
	"encoding/json"
	"html"
	"slices"
	"strings"
)

// PseudoTag marks a rich-text root that does not stand for a single source
// element, e.g. a bare text run or several merged runs.
const PseudoTag = ""

// RichTextElement is an HTML element covering the half-open range
// [Start, End) of a RichText's text.
type RichTextElement struct {
	Tag   string
	Start int
	End   int
	Attrs map[string]string
}

// Attr returns the value of an attribute and whether it was set.
func (e *RichTextElement) Attr(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}

// HasAttr reports whether the element carries the attribute.
func (e *RichTextElement) HasAttr(name string) bool {
	_, ok := e.Attrs[name]
	return ok
}

// RichText is rendered text together with the elements that produced it.
// The root element always spans the whole text.
type RichText struct {
	Text     string
	Elements *SpanTree[RichTextElement]
}

// EmptyRichText returns a zero-length text with a pseudo root.
func EmptyRichText() *RichText {
	return NewRichText("")
}

// NewRichText returns a text with a pseudo root spanning all of s.
func NewRichText(s string) *RichText {
	return &RichText{
		Text:     s,
		Elements: NewSpanTree(RichTextElement{Tag: PseudoTag, End: len(s)}),
	}
}

// Tag returns the tag of the root element.
func (r *RichText) Tag() string {
	return r.Elements.Root().Tag
}

// Root returns the root element.
func (r *RichText) Root() *RichTextElement {
	return r.Elements.Root()
}

// IsTrivial reports whether the text is empty and carries no element
// beyond a pseudo root.
func (r *RichText) IsTrivial() bool {
	root := r.Elements.RootID()
	return r.Text == "" && r.Tag() == PseudoTag && len(r.Elements.Children(root)) == 0
}

// Clone returns a deep copy of the text and its span tree.
func (r *RichText) Clone() *RichText {
	return &RichText{Text: r.Text, Elements: r.Elements.Clone()}
}

// Validate reports whether the span tree is consistent with the text: the
// root covers [0, len(Text)), every element lies within its parent,
// siblings are ordered and disjoint, and only the root uses PseudoTag.
func (r *RichText) Validate() bool {
	t := r.Elements
	root := t.Root()
	if root.Start != 0 || root.End != len(r.Text) {
		return false
	}
	for id := range t.Preorder() {
		el := t.Get(id)
		if el.Start > el.End {
			return false
		}
		if id != t.RootID() && el.Tag == PseudoTag {
			return false
		}
		prevEnd := el.Start
		for _, kid := range t.Children(id) {
			child := t.Get(kid)
			if child.Start < prevEnd || child.End > el.End {
				return false
			}
			prevEnd = child.End
		}
	}
	return true
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// ToHTML rebuilds bracketed markup from the span tree. The root element is
// written only when renderOuter is set and it is not a pseudo element;
// attributes are written, in key order, only when renderAttrs is set.
func (r *RichText) ToHTML(renderOuter, renderAttrs bool) string {
	t := r.Elements
	var b strings.Builder
	var open []int
	pointer := 0

	closeTop := func() {
		el := t.Get(open[len(open)-1])
		b.WriteString(textEscaper.Replace(r.Text[pointer:el.End]))
		b.WriteString("</")
		b.WriteString(el.Tag)
		b.WriteString(">")
		pointer = el.End
		open = open[:len(open)-1]
	}

	for id := range t.Preorder() {
		el := t.Get(id)
		if el.Tag == PseudoTag || (id == t.RootID() && !renderOuter) {
			continue
		}

		for len(open) > 0 {
			top := open[len(open)-1]
			if t.Get(top).End > el.Start {
				break
			}
			// A zero-width element sitting on the closing edge stays inside
			// only when it is a direct child of the open element.
			if el.Start == el.End && t.IsChild(top, id) {
				break
			}
			closeTop()
		}

		b.WriteString(textEscaper.Replace(r.Text[pointer:el.Start]))
		writeOpenTag(&b, el, renderAttrs)
		pointer = el.Start
		open = append(open, id)
	}

	for len(open) > 0 {
		closeTop()
	}
	b.WriteString(textEscaper.Replace(r.Text[pointer:]))
	return b.String()
}

func writeOpenTag(b *strings.Builder, el *RichTextElement, renderAttrs bool) {
	b.WriteString("<")
	b.WriteString(el.Tag)
	if renderAttrs && len(el.Attrs) > 0 {
		keys := make([]string, 0, len(el.Attrs))
		for k := range el.Attrs {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			b.WriteString(" ")
			b.WriteString(k)
			b.WriteString(`="`)
			b.WriteString(html.EscapeString(el.Attrs[k]))
			b.WriteString(`"`)
		}
	}
	b.WriteString(">")
}

// MergeInline appends other to r as a run on the same line.
//
// A whitespace-only r is replaced by other. Otherwise r's root becomes a
// pseudo element (wrapping the previous root when it was a real element),
// other's spans are shifted past r's text and spliced under that root.
// A pseudo root of other is dropped. A real root of other is kept as an
// element instead of splicing only its children, so merging "<b>two</b>"
// into "one" yields "one<b>two</b>" and its tag and attributes stay in r.
func (r *RichText) MergeInline(other *RichText) {
	if strings.TrimSpace(r.Text) == "" {
		c := other.Clone()
		r.Text, r.Elements = c.Text, c.Elements
		return
	}

	t := r.Elements
	if t.Root().Tag != PseudoTag {
		wrapper := t.AddNode(RichTextElement{Tag: PseudoTag, End: len(r.Text)})
		t.AddChild(wrapper, t.RootID())
	}

	offset := len(r.Text)
	shifted := other.Elements.Clone()
	shifted.Update(func(el *RichTextElement) {
		el.Start += offset
		el.End += offset
	})

	if shifted.Root().Tag == PseudoTag {
		t.MergeSubtreeNoRoot(t.RootID(), shifted)
	} else {
		t.MergeSubtree(t.RootID(), shifted)
	}

	r.Text += other.Text
	t.Root().End = len(r.Text)
}

type richTextJSON struct {
	Text    string      `json:"text"`
	Element elementJSON `json:"element"`
}

type elementJSON struct {
	Tag      string            `json:"tag"`
	Start    int               `json:"start"`
	End      int               `json:"end"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []elementJSON     `json:"children,omitempty"`
}

// MarshalJSON encodes the text with its span tree as nested elements.
func (r *RichText) MarshalJSON() ([]byte, error) {
	return json.Marshal(richTextJSON{
		Text:    r.Text,
		Element: encodeElement(r.Elements, r.Elements.RootID()),
	})
}

// UnmarshalJSON decodes the nested element form written by MarshalJSON.
func (r *RichText) UnmarshalJSON(data []byte) error {
	var v richTextJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	t := NewSpanTree(RichTextElement{
		Tag:   v.Element.Tag,
		Start: v.Element.Start,
		End:   v.Element.End,
		Attrs: v.Element.Attrs,
	})
	decodeChildren(t, t.RootID(), v.Element.Children)
	r.Text, r.Elements = v.Text, t
	return nil
}

func encodeElement(t *SpanTree[RichTextElement], id int) elementJSON {
	el := t.Get(id)
	out := elementJSON{Tag: el.Tag, Start: el.Start, End: el.End, Attrs: el.Attrs}
	for _, kid := range t.Children(id) {
		out.Children = append(out.Children, encodeElement(t, kid))
	}
	return out
}

func decodeChildren(t *SpanTree[RichTextElement], parent int, children []elementJSON) {
	for _, c := range children {
		id := t.AddNode(RichTextElement{Tag: c.Tag, Start: c.Start, End: c.End, Attrs: c.Attrs})
		t.AddChild(parent, id)
		decodeChildren(t, id, c.Children)
	}
}
