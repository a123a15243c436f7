package phono

import "github.com/pflow-xyz/go-morph/syntax"

// segment maps one lexicalized leaf's exponent into the flat word.
type segment struct {
	leaf  *syntax.Node
	runes []rune
	start int // rune offset of the exponent within the flat word
}

// layout projects the tree onto its flat phonological word. Leaves with a
// null exponent own no phonemes and are skipped.
func layout(root *syntax.Node) ([]segment, []rune) {
	var segs []segment
	var word []rune
	for _, leaf := range root.Leaves() {
		if !leaf.Lexical || leaf.Phon == "" {
			continue
		}
		r := []rune(leaf.Phon)
		segs = append(segs, segment{leaf: leaf, runes: r, start: len(word)})
		word = append(word, r...)
	}
	return segs, word
}

// owner returns the index of the segment containing rune offset off.
func owner(segs []segment, off int) int {
	for i := len(segs) - 1; i >= 0; i-- {
		if off >= segs[i].start {
			return i
		}
	}
	return -1
}

// Rewrite performs one full pass of the rule table over the tree and
// reports whether any exponent changed. Matches are located in the flat
// word as it stood at the start of the pass; rules apply in table order,
// matches left to right. A leaf whose exponent was already rewritten
// during the pass is left alone until the next pass.
//
// When the matched phoneme ends its leaf, the match straddles a morpheme
// boundary: the Before edit lands on that leaf's final phoneme and the
// After edit on the first phoneme of the next leaf, each applied
// independently. Otherwise both phonemes sit in one leaf and are edited
// together, the After offset shifted by the length of the Before segment.
func Rewrite(root *syntax.Node, rules Rules) bool {
	segs, word := layout(root)
	if len(segs) == 0 {
		return false
	}
	touched := make(map[*syntax.Node]bool)
	changed := false
	for _, rule := range rules {
		if rule.Environment == "" {
			continue
		}
		for _, m := range indicesOf(word, []rune(rule.Environment)) {
			i := owner(segs, m)
			seg := segs[i]
			local := m - seg.start

			if local == len(seg.runes)-1 {
				if !touched[seg.leaf] {
					edited := spliceRune(seg.runes, local, rule.Before)
					changed = setPhon(seg.leaf, edited) || changed
					touched[seg.leaf] = true
				}
				if i+1 < len(segs) && !touched[segs[i+1].leaf] {
					next := segs[i+1]
					edited := spliceRune(next.runes, 0, rule.After)
					changed = setPhon(next.leaf, edited) || changed
					touched[next.leaf] = true
				}
				continue
			}

			if touched[seg.leaf] {
				continue
			}
			out := spliceRune(seg.runes, local, rule.Before)
			after := local + len([]rune(rule.Before))
			if after < len(out) {
				out = spliceRune(out, after, rule.After)
			}
			changed = setPhon(seg.leaf, out) || changed
			touched[seg.leaf] = true
		}
	}
	return changed
}

// spliceRune returns a copy of rs with the rune at i replaced by repl,
// which may be empty (deletion) or hold several runes.
func spliceRune(rs []rune, i int, repl string) []rune {
	out := make([]rune, 0, len(rs)+len(repl))
	out = append(out, rs[:i]...)
	out = append(out, []rune(repl)...)
	out = append(out, rs[i+1:]...)
	return out
}

func setPhon(leaf *syntax.Node, runes []rune) bool {
	s := string(runes)
	if s == leaf.Phon {
		return false
	}
	leaf.Phon = s
	return true
}

// indicesOf returns every start offset of env in word, overlapping
// occurrences included.
func indicesOf(word, env []rune) []int {
	var out []int
	if len(env) == 0 {
		return out
	}
	for i := 0; i+len(env) <= len(word); i++ {
		match := true
		for j, r := range env {
			if word[i+j] != r {
				match = false
				break
			}
		}
		if match {
			out = append(out, i)
		}
	}
	return out
}
