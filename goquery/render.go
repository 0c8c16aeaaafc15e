package goquery

import (
	"strings"

	"github.com/fwojciec/tablex"
	"golang.org/x/net/html"
)

// Renderer turns a DOM subtree into rich text the way a browser lays it
// out: whitespace runs collapse to one space, block elements start a new
// line and blank lines disappear.
//
// Elements in Discard are dropped with their subtree. An element gets a
// span when it is in Keep, or when it is not in Ignored and, with
// InlineOnly set, is an inline element. Untracked elements still
// contribute their text.
type Renderer struct {
	Ignored    tagSet
	Discard    tagSet
	Keep       tagSet
	InlineOnly bool
}

// NewRenderer returns a renderer with the given tag sets.
func NewRenderer(ignored, discard, keep []string, inlineOnly bool) *Renderer {
	return &Renderer{
		Ignored:    newTagSet(ignored...),
		Discard:    newTagSet(discard...),
		Keep:       newTagSet(keep...),
		InlineOnly: inlineOnly,
	}
}

// Render renders the children of n. The root span carries n's tag and
// attributes, or PseudoTag when n is not an element.
func (r *Renderer) Render(n *html.Node) *tablex.RichText {
	root := tablex.RichTextElement{Tag: tablex.PseudoTag}
	if n.Type == html.ElementNode {
		root.Tag = n.Data
		root.Attrs = attrMap(n)
	}
	var nodes []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		nodes = append(nodes, c)
	}
	return r.render(root, nodes)
}

// RenderNodes renders a run of sibling nodes, including the nodes
// themselves, under a pseudo root.
func (r *Renderer) RenderNodes(nodes []*html.Node) *tablex.RichText {
	return r.render(tablex.RichTextElement{Tag: tablex.PseudoTag}, nodes)
}

// Text renders the children of n as plain text.
func (r *Renderer) Text(n *html.Node) string {
	return r.Render(n).Text
}

func (r *Renderer) tracked(tag string) bool {
	if r.Keep[tag] {
		return true
	}
	return !r.Ignored[tag] && (!r.InlineOnly || inlineTags[tag])
}

type itemKind int

const (
	itemNode itemKind = iota
	itemLineBreak
	itemExit
)

type workItem struct {
	kind itemKind
	node *html.Node
}

// renderState is the output of a render in progress. Spans are opened with
// an unknown start; starts are resolved when the first character inside the
// span is written, so separators written before it stay outside.
type renderState struct {
	b    strings.Builder
	tree *tablex.SpanTree[tablex.RichTextElement]

	// open holds the ids of the spans being rendered, root first.
	// Spans from index unresolved on have no start yet.
	open       []int
	unresolved int

	// pending holds spans that closed without text while a separator was
	// waiting to be written. They are anchored after that separator, or
	// where it is dropped.
	pending []int

	lineHasContent bool
	pendingSpace   bool
	pendingBreak   bool
}

func (r *Renderer) render(root tablex.RichTextElement, nodes []*html.Node) *tablex.RichText {
	s := &renderState{tree: tablex.NewSpanTree(root)}
	s.open = []int{s.tree.RootID()}
	s.unresolved = 1

	stack := make([]workItem, 0, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		stack = append(stack, workItem{kind: itemNode, node: nodes[i]})
	}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch item.kind {
		case itemLineBreak:
			s.lineBreak()
		case itemExit:
			s.exit()
		case itemNode:
			stack = r.enter(s, item.node, stack)
		}
	}

	s.anchorPending()
	text := s.b.String()
	s.tree.Root().End = len(text)
	return &tablex.RichText{Text: text, Elements: s.tree}
}

// enter processes a node and pushes the work it schedules.
func (r *Renderer) enter(s *renderState, n *html.Node, stack []workItem) []workItem {
	switch n.Type {
	case html.TextNode:
		s.write(n.Data)
		return stack
	case html.DocumentNode:
		s.lineBreak()
		return pushChildren(stack, n)
	case html.ElementNode:
	default:
		return stack
	}

	tag := n.Data
	if r.Discard[tag] {
		return stack
	}
	if blockTags[tag] {
		s.lineBreak()
		stack = append(stack, workItem{kind: itemLineBreak})
	}
	if r.tracked(tag) {
		id := s.tree.AddNode(tablex.RichTextElement{Tag: tag, Attrs: attrMap(n)})
		s.tree.AddChild(s.open[len(s.open)-1], id)
		s.open = append(s.open, id)
		stack = append(stack, workItem{kind: itemExit})
	}
	return pushChildren(stack, n)
}

func pushChildren(stack []workItem, n *html.Node) []workItem {
	for c := n.LastChild; c != nil; c = c.PrevSibling {
		stack = append(stack, workItem{kind: itemNode, node: c})
	}
	return stack
}

func (s *renderState) lineBreak() {
	if s.lineHasContent {
		s.pendingBreak = true
	}
	s.pendingSpace = false
	s.lineHasContent = false
}

func (s *renderState) write(text string) {
	for _, c := range text {
		if isHTMLSpace(c) {
			if s.lineHasContent {
				s.pendingSpace = true
			}
			continue
		}
		switch {
		case s.pendingBreak && s.b.Len() > 0:
			s.b.WriteByte('\n')
		case s.pendingSpace:
			s.b.WriteByte(' ')
		}
		s.pendingBreak, s.pendingSpace = false, false
		s.resolve()
		s.b.WriteRune(c)
		s.lineHasContent = true
	}
}

// resolve sets the start of every open span still waiting for one.
func (s *renderState) resolve() {
	s.anchorPending()
	for _, id := range s.open[s.unresolved:] {
		s.tree.Get(id).Start = s.b.Len()
	}
	s.unresolved = len(s.open)
}

// anchorPending places the pending empty spans at the current offset.
func (s *renderState) anchorPending() {
	for _, id := range s.pending {
		el := s.tree.Get(id)
		el.Start, el.End = s.b.Len(), s.b.Len()
	}
	s.pending = s.pending[:0]
}

// separated reports whether a space or line break waits to be written.
func (s *renderState) separated() bool {
	return s.pendingSpace || (s.pendingBreak && s.b.Len() > 0)
}

// exit closes the innermost open span. A span that received no text is
// empty; its enclosing spans keep waiting for their first character.
func (s *renderState) exit() {
	last := len(s.open) - 1
	id := s.open[last]
	s.open = s.open[:last]

	if s.unresolved > last {
		s.anchorPending()
		s.tree.Get(id).End = s.b.Len()
		return
	}

	s.unresolved = min(s.unresolved, len(s.open))
	if s.separated() {
		s.pending = append(s.pending, id)
		return
	}
	s.anchorPending()
	el := s.tree.Get(id)
	el.Start, el.End = s.b.Len(), s.b.Len()
}

func isHTMLSpace(c rune) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

func attrMap(n *html.Node) map[string]string {
	if len(n.Attr) == 0 {
		return nil
	}
	attrs := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		key := a.Key
		if a.Namespace != "" {
			key = a.Namespace + ":" + a.Key
		}
		attrs[key] = a.Val
	}
	return attrs
}
