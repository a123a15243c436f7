// Package syntax implements the ordered rooted trees that morphological
// derivations operate on.
//
// A tree starts out as bare category labels produced by grammar expansion.
// Reduplication wraps one constituent with a reduplicant phrase, and
// vocabulary insertion attaches features and a phonological exponent to
// each leaf cycle by cycle. Every variant-producing step deep-copies the
// tree first: trees never share nodes.
package syntax

import "strings"

// Node is one node of a syntactic tree. Branches carry a label and one or
// two children; leaves carry a label and, once lexicalized, the features
// and phonological exponent of their vocabulary entry.
type Node struct {
	Label    string
	Features []string // exponent features, attached at insertion
	Phon     string   // phonological exponent, empty until lexicalized
	Lexical  bool     // true once an exponent has been attached
	Due      int      // insertion cycle this leaf is due at (0 = not scheduled)
	Children []*Node  // nil for leaves
}

// NewLeaf creates a terminal node.
func NewLeaf(label string) *Node {
	return &Node{Label: label}
}

// NewBranch creates an internal node over the given children.
func NewBranch(label string, children ...*Node) *Node {
	return &Node{Label: label, Children: children}
}

// IsLeaf reports whether the node is terminal.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Clone returns a deep copy sharing nothing with the original.
func (n *Node) Clone() *Node {
	c := &Node{
		Label:   n.Label,
		Phon:    n.Phon,
		Lexical: n.Lexical,
		Due:     n.Due,
	}
	if n.Features != nil {
		c.Features = append([]string(nil), n.Features...)
	}
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, ch := range n.Children {
			c.Children[i] = ch.Clone()
		}
	}
	return c
}

// Walk visits every node in preorder, passing each node and its depth
// below the receiver (the receiver itself has depth 0).
func (n *Node) Walk(visit func(node *Node, depth int)) {
	n.walk(visit, 0)
}

func (n *Node) walk(visit func(*Node, int), depth int) {
	visit(n, depth)
	for _, c := range n.Children {
		c.walk(visit, depth+1)
	}
}

// Height returns the number of edges on the longest path from the
// receiver down to a leaf. A leaf has height 0.
func (n *Node) Height() int {
	h := 0
	for _, c := range n.Children {
		if ch := c.Height() + 1; ch > h {
			h = ch
		}
	}
	return h
}

// Leaves returns the terminal nodes in left-to-right order.
func (n *Node) Leaves() []*Node {
	var out []*Node
	n.Walk(func(node *Node, _ int) {
		if node.IsLeaf() {
			out = append(out, node)
		}
	})
	return out
}

// Find returns the first node with the given label in preorder, or nil.
// A branch label is seen before any label inside its subtree.
func (n *Node) Find(label string) *Node {
	var found *Node
	n.Walk(func(node *Node, _ int) {
		if found == nil && node.Label == label {
			found = node
		}
	})
	return found
}

// Lexicalize attaches an exponent to a leaf. The feature slice is copied.
func (n *Node) Lexicalize(features []string, phon string) {
	n.Features = append([]string(nil), features...)
	n.Phon = phon
	n.Lexical = true
}

// Word returns the flat phonological word: every lexicalized leaf's
// exponent concatenated in left-to-right order.
func (n *Node) Word() string {
	var b strings.Builder
	n.Walk(func(node *Node, _ int) {
		if node.IsLeaf() && node.Lexical {
			b.WriteString(node.Phon)
		}
	})
	return b.String()
}

// String renders the tree in labeled bracket notation, e.g. "[S [T root]]".
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	if n.IsLeaf() {
		b.WriteString(n.Label)
		return
	}
	b.WriteByte('[')
	b.WriteString(n.Label)
	for _, c := range n.Children {
		b.WriteByte(' ')
		c.write(b)
	}
	b.WriteByte(']')
}
