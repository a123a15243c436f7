// Package grammar implements phrase-structure rule tables and their
// expansion into syntactic trees.
package grammar

import (
	"errors"
	"fmt"
)

// Child is one right-hand-side symbol of a phrase-structure rule. A
// nonterminal child is expanded by its own rule; a terminal child stays a
// leaf forever.
type Child struct {
	Label       string
	Nonterminal bool
}

// Rules maps each nonterminal label to its ordered right-hand side of one
// or two children.
type Rules map[string][]Child

var (
	ErrNoRules     = errors.New("grammar: empty rule table")
	ErrArity       = errors.New("grammar: rule needs one or two children")
	ErrEmptyLabel  = errors.New("grammar: empty label")
	ErrMarking     = errors.New("grammar: child marking disagrees with rule table")
	ErrNoStartRule = errors.New("grammar: start label has no rule")
	ErrRuleUnused  = errors.New("grammar: rule label never found in tree")
)

// Validate checks rule arity and child marking against the table itself.
func (r Rules) Validate() error {
	if len(r) == 0 {
		return ErrNoRules
	}
	for label, children := range r {
		if label == "" {
			return ErrEmptyLabel
		}
		if len(children) < 1 || len(children) > 2 {
			return fmt.Errorf("%w: %q has %d", ErrArity, label, len(children))
		}
		for _, c := range children {
			if c.Label == "" {
				return fmt.Errorf("%w: rule %q", ErrEmptyLabel, label)
			}
			if _, ok := r[c.Label]; ok != c.Nonterminal {
				return fmt.Errorf("%w: %q -> %q", ErrMarking, label, c.Label)
			}
		}
	}
	return nil
}
