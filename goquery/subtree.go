package goquery

import (
	"github.com/fwojciec/tablex"
	"golang.org/x/net/html"
)

// contextNode is a DOM node selected for rendering. A container is only
// rendered through the children selected under it; other nodes are
// rendered with their whole DOM subtree.
type contextNode struct {
	node      *html.Node
	container bool
}

type contextTree = tablex.SpanTree[contextNode]

// locate selects the content around target. The before tree holds, for each
// ancestor below the html element, the children preceding the path to
// target, with the deeper level attached last. The after tree holds the
// siblings following target up to the first boundary element.
func (e *ContextExtractor) locate(target *html.Node) (before, after *contextTree, err error) {
	if target.Parent == nil {
		return nil, nil, tablex.Errorf(tablex.EMALFORMED, "Element has no parent.")
	}

	prev := -1
	el := target
	for parent := el.Parent; parent != nil; el, parent = parent, parent.Parent {
		if parent.Type == html.DocumentNode {
			break
		}
		if parent.Type != html.ElementNode {
			return nil, nil, tablex.Errorf(tablex.EMALFORMED, "Parent of an element must be an element.")
		}
		if parent.Data == "html" {
			break
		}

		var id int
		if before == nil {
			before = tablex.NewSpanTree(contextNode{node: parent, container: true})
			id = before.RootID()
		} else {
			id = before.AddNode(contextNode{node: parent, container: true})
		}
		for c := parent.FirstChild; c != nil && c != el; c = c.NextSibling {
			before.AddChild(id, before.AddNode(contextNode{node: c}))
		}
		if prev >= 0 {
			before.AddChild(id, prev)
		}
		prev = id
	}

	after = tablex.NewSpanTree(contextNode{node: target.Parent, container: true})
	for c := target.NextSibling; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && e.boundary[c.Data] {
			break
		}
		after.AddChild(after.RootID(), after.AddNode(contextNode{node: c}))
	}
	return before, after, nil
}

// entry is a node to flatten: either a node of the context tree (id >= 0)
// or a plain DOM node below a selected one.
type entry struct {
	node *html.Node
	id   int
}

// frame walks the children of one container or block element. Inline
// children accumulate in run until a block child or the end of the frame
// flushes them as one segment.
type frame struct {
	children []entry
	next     int
	run      []*html.Node
}

// flatten renders a context tree into an ordered list of non-trivial
// segments. Block elements split the content into separate segments and
// headings always form a segment of their own.
func (e *ContextExtractor) flatten(tree *contextTree) []*tablex.RichText {
	if tree == nil {
		return nil
	}

	var out []*tablex.RichText
	emit := func(rt *tablex.RichText) {
		if !rt.IsTrivial() {
			out = append(out, rt)
		}
	}
	flush := func(f *frame) {
		if len(f.run) > 0 {
			emit(e.renderer.RenderNodes(f.run))
			f.run = f.run[:0]
		}
	}

	var stack []*frame
	// open starts a frame over the children of ent, or renders ent directly
	// when it has none to walk.
	open := func(ent entry) {
		if ent.id >= 0 && tree.Get(ent.id).container {
			f := &frame{}
			for _, kid := range tree.Children(ent.id) {
				f.children = append(f.children, entry{node: tree.Get(kid).node, id: kid})
			}
			stack = append(stack, f)
			return
		}

		n := ent.node
		switch n.Type {
		case html.TextNode:
			emit(e.renderer.RenderNodes([]*html.Node{n}))
			return
		case html.ElementNode:
		default:
			return
		}
		switch {
		case e.discard[n.Data]:
		case e.headings[n.Data] || !blockTags[n.Data]:
			emit(e.renderer.Render(n))
		default:
			f := &frame{}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				f.children = append(f.children, entry{node: c, id: -1})
			}
			stack = append(stack, f)
		}
	}

	open(entry{node: tree.Root().node, id: tree.RootID()})
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		if f.next == len(f.children) {
			flush(f)
			stack = stack[:len(stack)-1]
			continue
		}
		ent := f.children[f.next]
		f.next++

		n := ent.node
		switch {
		case ent.id >= 0 && tree.Get(ent.id).container:
			flush(f)
			open(ent)
		case n.Type == html.TextNode:
			f.run = append(f.run, n)
		case n.Type != html.ElementNode:
		case blockTags[n.Data] || e.headings[n.Data]:
			flush(f)
			open(ent)
		case e.discard[n.Data]:
		default:
			f.run = append(f.run, n)
		}
	}
	return out
}
