package grammar

import (
	"fmt"
	"sort"

	"github.com/pflow-xyz/go-morph/syntax"
)

// Expand derives the fully expanded tree for the start label. It
// repeatedly locates, in preorder, a leaf whose label has a rule and
// splices that rule's right-hand side in as children, until no such leaf
// remains. Termination follows from the acyclicity of the rule table:
// every splice expands one placeholder for good.
//
// Every rule must fire at least once; a rule whose label never appears in
// the tree is a configuration error.
func Expand(start string, rules Rules) (*syntax.Node, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if _, ok := rules[start]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoStartRule, start)
	}

	root := syntax.NewLeaf(start)
	used := make(map[string]bool, len(rules))
	for {
		n := nextPlaceholder(root, rules)
		if n == nil {
			break
		}
		used[n.Label] = true
		for _, c := range rules[n.Label] {
			n.Children = append(n.Children, syntax.NewLeaf(c.Label))
		}
	}

	var unused []string
	for label := range rules {
		if !used[label] {
			unused = append(unused, label)
		}
	}
	if len(unused) > 0 {
		sort.Strings(unused)
		return nil, fmt.Errorf("%w: %q", ErrRuleUnused, unused[0])
	}
	return root, nil
}

// nextPlaceholder returns the first leaf in preorder whose label has a
// rule, or nil once the tree is fully expanded.
func nextPlaceholder(root *syntax.Node, rules Rules) *syntax.Node {
	var found *syntax.Node
	root.Walk(func(n *syntax.Node, _ int) {
		if found == nil && n.IsLeaf() {
			if _, ok := rules[n.Label]; ok {
				found = n
			}
		}
	})
	return found
}
