// Package redup implements reduplicant injection: wrapping a targeted
// constituent of an expanded tree with a reduplicant phrase ahead of
// vocabulary insertion.
//
// The reduplicant leaf carries no exponent of its own at this point; its
// phonological content is computed during insertion by copying from the
// first sister spelled out before it.
package redup

import (
	"errors"
	"fmt"

	"github.com/pflow-xyz/go-morph/phono"
	"github.com/pflow-xyz/go-morph/syntax"
)

const (
	// Label is the reduplicant morpheme label.
	Label = "RED"
	// PhraseLabel labels the injected phrase dominating the reduplicant
	// and the constituent it copies from.
	PhraseLabel = "REDP"
)

// Environment gates whether a reduplication target applies.
type Environment string

const (
	// Unconditioned applies regardless of the root's shape.
	Unconditioned Environment = ""
	// VowelInitial applies only when the root exponent begins with a vowel.
	VowelInitial Environment = "VOWEL"
)

// Valid reports whether e is a known environment.
func (e Environment) Valid() bool {
	return e == Unconditioned || e == VowelInitial
}

// Satisfied evaluates the environment against the root's exponent.
func (e Environment) Satisfied(rootPhon string) bool {
	if e == Unconditioned {
		return true
	}
	return e == VowelInitial && phono.VowelInitial(rootPhon)
}

// Target names a node the reduplicant phrase may dominate.
type Target struct {
	Label       string
	Environment Environment
	Epenthesis  string // segment appended to the reduplicant's content
}

// Variant is one reduplicated tree together with the target it came from.
type Variant struct {
	Target Target
	Tree   *syntax.Node
}

var ErrTargetMissing = errors.New("redup: target label not in tree")

// Inject produces one independent tree per satisfied target, each a deep
// copy of base with the target's constituent replaced by
// [REDP RED <constituent>]. A phrase target is its own constituent; a bare
// morpheme's constituent is the phrase immediately dominating it, which
// keeps the reduplicant one cycle shallower than the morphemes it copies
// from. Targets whose environment is not satisfied by the root exponent
// yield no variant; a target label absent from the tree is a
// configuration error.
func Inject(base *syntax.Node, targets []Target, rootPhon string) ([]Variant, error) {
	var out []Variant
	for _, t := range targets {
		if !t.Environment.Satisfied(rootPhon) {
			continue
		}
		tree := base.Clone()
		node, parent := locate(tree, t.Label)
		if node == nil {
			return nil, fmt.Errorf("%w: %q", ErrTargetMissing, t.Label)
		}
		if node.IsLeaf() && parent != nil {
			node = parent
		}
		wrap(node)
		out = append(out, Variant{Target: t, Tree: tree})
	}
	return out, nil
}

// locate returns the first node labeled label in preorder and its parent.
func locate(root *syntax.Node, label string) (node, parent *syntax.Node) {
	var walk func(n, p *syntax.Node)
	walk = func(n, p *syntax.Node) {
		if node != nil {
			return
		}
		if n.Label == label {
			node, parent = n, p
			return
		}
		for _, c := range n.Children {
			walk(c, n)
		}
	}
	walk(root, nil)
	return node, parent
}

// wrap turns n into [REDP RED <n's former subtree>] in place.
func wrap(n *syntax.Node) {
	inner := &syntax.Node{
		Label:    n.Label,
		Features: n.Features,
		Phon:     n.Phon,
		Lexical:  n.Lexical,
		Due:      n.Due,
		Children: n.Children,
	}
	n.Label = PhraseLabel
	n.Features = nil
	n.Phon = ""
	n.Lexical = false
	n.Due = 0
	n.Children = []*syntax.Node{syntax.NewLeaf(Label), inner}
}
