// Package lexicon holds the vocabulary catalog and the cyclic bottom-up
// insertion engine that lexicalizes syntactic trees and carries each
// derivation through phonological adjustment.
package lexicon

// Entry is one vocabulary item: the features and the phonological
// exponent a morpheme receives at insertion.
type Entry struct {
	Features []string
	Phon     string
}

// Group holds the competing entries for one morpheme label, in table
// order.
type Group struct {
	Label   string
	Entries []Entry
}

// Catalog is the whole vocabulary table, one group per label in table
// order. Competing entries within a group fan out into combinations.
type Catalog []Group

// Set is one combination: exactly one entry per label.
type Set map[string]Entry

// Combinations materializes the cross product of competing entries, one
// Set per combination. Groups cycle with the last-listed group varying
// fastest. An empty catalog yields a single empty combination.
func (c Catalog) Combinations() []Set {
	total := 1
	for _, g := range c {
		total *= len(g.Entries)
	}
	if total == 0 {
		return nil
	}
	out := make([]Set, 0, total)
	idx := make([]int, len(c))
	for {
		set := make(Set, len(c))
		for i, g := range c {
			set[g.Label] = g.Entries[idx[i]]
		}
		out = append(out, set)
		i := len(c) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(c[i].Entries) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			return out
		}
	}
}

// Labels returns the group labels in table order.
func (c Catalog) Labels() []string {
	out := make([]string, len(c))
	for i, g := range c {
		out[i] = g.Label
	}
	return out
}
