package tablex

import (
	"iter"
	"slices"
)

// SpanTree is an append-only ordered tree stored as dense index arrays.
// Node ids are local to the tree that produced them; passing a foreign id
// panics.
type SpanTree[E any] struct {
	root     int
	nodes    []E
	children [][]int
}

// NewSpanTree creates a tree holding a single root node.
func NewSpanTree[E any](root E) *SpanTree[E] {
	t := &SpanTree[E]{}
	t.root = t.AddNode(root)
	return t
}

// AddNode stores a detached node and returns its id.
func (t *SpanTree[E]) AddNode(node E) int {
	id := len(t.nodes)
	t.nodes = append(t.nodes, node)
	t.children = append(t.children, nil)
	return id
}

// AddChild appends child to the children of parent. If child is the
// current root, parent becomes the new root.
func (t *SpanTree[E]) AddChild(parentID, childID int) {
	if childID == t.root {
		t.root = parentID
	}
	t.children[parentID] = append(t.children[parentID], childID)
}

// Get returns a pointer to the payload of a node.
func (t *SpanTree[E]) Get(id int) *E {
	return &t.nodes[id]
}

// Children returns the ordered child ids of a node.
func (t *SpanTree[E]) Children(id int) []int {
	return t.children[id]
}

// IsChild reports whether childID is a direct child of parentID.
func (t *SpanTree[E]) IsChild(parentID, childID int) bool {
	return slices.Contains(t.children[parentID], childID)
}

// RootID returns the id of the root node.
func (t *SpanTree[E]) RootID() int {
	return t.root
}

// Root returns a pointer to the root payload.
func (t *SpanTree[E]) Root() *E {
	return &t.nodes[t.root]
}

// Len returns the number of stored nodes, attached or not.
func (t *SpanTree[E]) Len() int {
	return len(t.nodes)
}

// Preorder yields node ids in pre-order, starting at the root.
func (t *SpanTree[E]) Preorder() iter.Seq[int] {
	return func(yield func(int) bool) {
		stack := []int{t.root}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(id) {
				return
			}
			kids := t.children[id]
			for i := len(kids) - 1; i >= 0; i-- {
				stack = append(stack, kids[i])
			}
		}
	}
}

// Update applies fn to every stored payload.
func (t *SpanTree[E]) Update(fn func(*E)) {
	for i := range t.nodes {
		fn(&t.nodes[i])
	}
}

// Clone returns a copy of the tree structure. Payloads are copied by value.
func (t *SpanTree[E]) Clone() *SpanTree[E] {
	c := &SpanTree[E]{
		root:     t.root,
		nodes:    slices.Clone(t.nodes),
		children: make([][]int, len(t.children)),
	}
	for i, kids := range t.children {
		c.children[i] = slices.Clone(kids)
	}
	return c
}

// MergeSubtreeNoRoot splices the children of other's root, with their
// descendants, under targetID. Offsets are not adjusted; the caller shifts
// them beforehand.
func (t *SpanTree[E]) MergeSubtreeNoRoot(targetID int, other *SpanTree[E]) {
	remap := t.copyNodes(other, false)
	for _, kid := range other.children[other.root] {
		t.children[targetID] = append(t.children[targetID], remap[kid])
	}
}

// MergeSubtree splices other's whole tree, root included, under targetID.
func (t *SpanTree[E]) MergeSubtree(targetID int, other *SpanTree[E]) {
	remap := t.copyNodes(other, true)
	t.children[targetID] = append(t.children[targetID], remap[other.root])
}

// copyNodes appends other's nodes to t and rebuilds their child lists,
// returning the id mapping. The root of other is skipped unless withRoot.
func (t *SpanTree[E]) copyNodes(other *SpanTree[E], withRoot bool) []int {
	remap := make([]int, len(other.nodes))
	for id, node := range other.nodes {
		if id == other.root && !withRoot {
			continue
		}
		remap[id] = t.AddNode(node)
	}
	for id, kids := range other.children {
		if id == other.root && !withRoot {
			continue
		}
		for _, kid := range kids {
			t.children[remap[id]] = append(t.children[remap[id]], remap[kid])
		}
	}
	return remap
}
