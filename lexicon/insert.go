package lexicon

import (
	"errors"
	"fmt"

	"github.com/pflow-xyz/go-morph/phono"
	"github.com/pflow-xyz/go-morph/redup"
	"github.com/pflow-xyz/go-morph/syntax"
)

// DefaultRoot is the label of the vowel-bearing root morpheme unless a
// configuration names another.
const DefaultRoot = "V"

// Scope controls how much of the copy source a reduplicant copies.
type Scope string

const (
	// ScopeFull copies the source exponent whole.
	ScopeFull Scope = ""
	// ScopeBisyllabic stops copying once the second vowel is consumed.
	ScopeBisyllabic Scope = "bisyllabic"
)

// Valid reports whether s is a known scope.
func (s Scope) Valid() bool {
	return s == ScopeFull || s == ScopeBisyllabic
}

// Options configure one insertion run.
type Options struct {
	Rules       phono.Rules       // adjustment rules applied after the last cycle
	Scope       Scope             // reduplicant copy scope
	Epenthesis  string            // segment appended to reduplicant content
	Environment redup.Environment // reduplication environment in force
	Root        string            // vowel-bearing root label, DefaultRoot when empty
}

var (
	ErrNoCycles      = errors.New("lexicon: tree too shallow for an insertion cycle")
	ErrDuplicateLeaf = errors.New("lexicon: duplicate insertion-eligible leaf label")
	ErrNoCopySource  = errors.New("lexicon: reduplicant due before any leaf is lexicalized")
	ErrNoProgress    = errors.New("lexicon: phonological adjustment made no progress")
)

// Insert spells the tree out bottom-up, one cycle per depth level. It
// returns one deep-copy snapshot per cycle, oldest first, plus a final
// snapshot with the phonological rules applied to fixpoint. The input
// tree and entry set are never modified.
//
// Each eligible leaf is due at cycle maxCycle-depth, where maxCycle is
// the tree height plus one, so the deepest leaves spell out first. When
// the reduplicant comes due its entry is computed before that cycle's
// insertions, by copying from the first lexicalized leaf in
// left-to-right order.
func Insert(root *syntax.Node, set Set, opts Options) ([]*syntax.Node, error) {
	rootLabel := opts.Root
	if rootLabel == "" {
		rootLabel = DefaultRoot
	}

	work := root.Clone()
	maxCycle := work.Height() + 1
	if maxCycle < 2 {
		return nil, ErrNoCycles
	}

	var redLeaf *syntax.Node
	seen := make(map[string]bool)
	var dupErr error
	work.Walk(func(n *syntax.Node, depth int) {
		if !n.IsLeaf() {
			return
		}
		if _, ok := set[n.Label]; !ok && n.Label != redup.Label {
			return
		}
		if seen[n.Label] && dupErr == nil {
			dupErr = fmt.Errorf("%w: %q", ErrDuplicateLeaf, n.Label)
		}
		seen[n.Label] = true
		n.Due = maxCycle - depth
		if n.Label == redup.Label {
			redLeaf = n
		}
	})
	if dupErr != nil {
		return nil, dupErr
	}

	snapshots := make([]*syntax.Node, 0, maxCycle)
	var redEntry Entry
	for cycle := 1; cycle < maxCycle; cycle++ {
		if redLeaf != nil && redLeaf.Due == cycle {
			e, err := reduplicantEntry(work, opts, rootLabel)
			if err != nil {
				return nil, err
			}
			redEntry = e
		}
		for _, leaf := range work.Leaves() {
			if leaf.Due != cycle {
				continue
			}
			entry := redEntry
			if leaf.Label != redup.Label {
				entry = set[leaf.Label]
			}
			leaf.Lexicalize(entry.Features, entry.Phon)
		}
		snapshots = append(snapshots, work.Clone())
	}

	adjusted := work.Clone()
	for opts.Rules.Matches(adjusted.Word()) {
		if !phono.Rewrite(adjusted, opts.Rules) {
			return nil, fmt.Errorf("%w: %q", ErrNoProgress, adjusted.Word())
		}
	}
	snapshots = append(snapshots, adjusted)
	return snapshots, nil
}

// reduplicantEntry derives the reduplicant's entry from the first
// lexicalized leaf. Epenthesis under the vowel-initial environment is
// gated on the copy source being the vowel-initial root; unconditioned
// epenthesis always applies.
func reduplicantEntry(work *syntax.Node, opts Options, rootLabel string) (Entry, error) {
	var src *syntax.Node
	for _, leaf := range work.Leaves() {
		if leaf.Lexical {
			src = leaf
			break
		}
	}
	if src == nil {
		return Entry{}, ErrNoCopySource
	}
	content := copyExponent(src.Phon, opts.Scope)
	if opts.Epenthesis != "" {
		if opts.Environment == redup.VowelInitial {
			if src.Label == rootLabel && phono.VowelInitial(src.Phon) {
				content += opts.Epenthesis
			}
		} else {
			content += opts.Epenthesis
		}
	}
	return Entry{Phon: content}, nil
}

// copyExponent applies the copy scope to the source exponent. The
// bisyllabic template keeps the onset after the first vowel and closes
// on the second vowel.
func copyExponent(phon string, scope Scope) string {
	if scope != ScopeBisyllabic {
		return phon
	}
	var out []rune
	vowels := 0
	for _, r := range phon {
		out = append(out, r)
		if phono.IsVowel(r) {
			vowels++
			if vowels == 2 {
				break
			}
		}
	}
	return string(out)
}
