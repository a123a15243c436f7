// Package derive orchestrates whole derivation runs: one grammar
// expansion, reduplicant injection per applicable target, vocabulary
// insertion over every entry combination, and collection of the
// resulting snapshots and final words under deterministic labels.
package derive

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pflow-xyz/go-morph/grammar"
	"github.com/pflow-xyz/go-morph/lexicon"
	"github.com/pflow-xyz/go-morph/phono"
	"github.com/pflow-xyz/go-morph/redup"
	"github.com/pflow-xyz/go-morph/syntax"
)

// Config is the complete input of one run.
type Config struct {
	Start      string // start label for grammar expansion
	Root       string // vowel-bearing root label, lexicon.DefaultRoot when empty
	Grammar    grammar.Rules
	Vocabulary lexicon.Catalog
	Phono      phono.Rules
	Targets    []redup.Target
	Scope      lexicon.Scope
}

// Kind distinguishes base spell-outs from reduplicated ones.
type Kind string

const (
	KindBase  Kind = "base"
	KindRedup Kind = "redup"
)

// Derivation is one spelled-out word together with its cycle snapshots.
type Derivation struct {
	Index       int // global 0-based position in report order
	Kind        Kind
	Combination int // vocabulary combination ordinal
	Variant     int // reduplication variant ordinal within the combination
	Target      redup.Target
	Snapshots   []*syntax.Node
	Word        string
}

// SnapshotName returns the deterministic artifact label of snapshot i.
// The adjusted snapshot at the end of the sequence carries the FINAL
// marker.
func (d *Derivation) SnapshotName(i int) string {
	var name string
	if d.Kind == KindRedup {
		name = fmt.Sprintf("redup_word_%02d_variant_%02d_step_%02d", d.Index, d.Variant, i)
	} else {
		name = fmt.Sprintf("base_word_%02d_step_%02d", d.Index, i)
	}
	if i == len(d.Snapshots)-1 {
		name += "_FINAL"
	}
	return name
}

// Result is a completed run, base derivations first, reduplicated after.
// TargetCount records how many reduplication targets were configured,
// which can exceed the number of reduplicated derivations when
// environments go unsatisfied.
type Result struct {
	Derivations []*Derivation
	BaseCount   int
	TargetCount int
}

// Words returns the final words in derivation order.
func (r *Result) Words() []string {
	out := make([]string, len(r.Derivations))
	for i, d := range r.Derivations {
		out[i] = d.Word
	}
	return out
}

var (
	ErrNoStart     = errors.New("derive: no start label configured")
	ErrNoRootEntry = errors.New("derive: vocabulary combination lacks the root label")
)

// job is one independent derivation to spell out.
type job struct {
	index       int
	kind        Kind
	combination int
	variant     int
	target      redup.Target
	tree        *syntax.Node
	set         lexicon.Set
}

// plan expands the grammar once and enumerates every derivation: one per
// vocabulary combination, then one per combination and satisfied target.
// The reduplication environment in force is the last non-empty one in the
// target table and the epenthetic segment is the last row's, matching the
// table semantics of the flat-file format.
func plan(cfg *Config) ([]job, int, lexicon.Options, error) {
	var opts lexicon.Options
	if cfg.Start == "" {
		return nil, 0, opts, ErrNoStart
	}
	base, err := grammar.Expand(cfg.Start, cfg.Grammar)
	if err != nil {
		return nil, 0, opts, err
	}
	rootLabel := cfg.Root
	if rootLabel == "" {
		rootLabel = lexicon.DefaultRoot
	}
	opts = lexicon.Options{
		Rules:       cfg.Phono,
		Scope:       cfg.Scope,
		Epenthesis:  effectiveEpenthesis(cfg.Targets),
		Environment: effectiveEnvironment(cfg.Targets),
		Root:        rootLabel,
	}

	combos := cfg.Vocabulary.Combinations()
	jobs := make([]job, 0, len(combos))
	n := 0
	for c, set := range combos {
		jobs = append(jobs, job{index: n, kind: KindBase, combination: c, tree: base, set: set})
		n++
	}
	baseCount := n

	if len(cfg.Targets) > 0 {
		needRoot := false
		for _, t := range cfg.Targets {
			if t.Environment != redup.Unconditioned {
				needRoot = true
			}
		}
		for c, set := range combos {
			// The root exponent gates vowel-initial rows, so its absence
			// only matters when such a row exists.
			root, ok := set[rootLabel]
			if !ok && needRoot {
				return nil, 0, opts, fmt.Errorf("%w: %q", ErrNoRootEntry, rootLabel)
			}
			variants, err := redup.Inject(base, cfg.Targets, root.Phon)
			if err != nil {
				return nil, 0, opts, err
			}
			for v, variant := range variants {
				jobs = append(jobs, job{
					index:       n,
					kind:        KindRedup,
					combination: c,
					variant:     v,
					target:      variant.Target,
					tree:        variant.Tree,
					set:         set,
				})
				n++
			}
		}
	}
	return jobs, baseCount, opts, nil
}

func spell(j job, opts lexicon.Options) (*Derivation, error) {
	snaps, err := lexicon.Insert(j.tree, j.set, opts)
	if err != nil {
		return nil, err
	}
	return &Derivation{
		Index:       j.index,
		Kind:        j.kind,
		Combination: j.combination,
		Variant:     j.variant,
		Target:      j.target,
		Snapshots:   snaps,
		Word:        snaps[len(snaps)-1].Word(),
	}, nil
}

// Run executes every derivation sequentially in deterministic order.
func Run(cfg *Config) (*Result, error) {
	jobs, baseCount, opts, err := plan(cfg)
	if err != nil {
		return nil, err
	}
	out := make([]*Derivation, len(jobs))
	for i, j := range jobs {
		d, err := spell(j, opts)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return &Result{Derivations: out, BaseCount: baseCount, TargetCount: len(cfg.Targets)}, nil
}

// RunParallel spells derivations out across at most workers goroutines.
// Derivations are independent, so the result is identical to Run.
func RunParallel(cfg *Config, workers int) (*Result, error) {
	if workers <= 1 {
		return Run(cfg)
	}
	jobs, baseCount, opts, err := plan(cfg)
	if err != nil {
		return nil, err
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}
	out := make([]*Derivation, len(jobs))
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := w; i < len(jobs); i += workers {
				d, err := spell(jobs[i], opts)
				if err != nil {
					errs[w] = err
					return
				}
				out[i] = d
			}
		}(w)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return &Result{Derivations: out, BaseCount: baseCount, TargetCount: len(cfg.Targets)}, nil
}

// effectiveEnvironment returns the last non-empty environment across the
// target table.
func effectiveEnvironment(targets []redup.Target) redup.Environment {
	env := redup.Unconditioned
	for _, t := range targets {
		if t.Environment != redup.Unconditioned {
			env = t.Environment
		}
	}
	return env
}

// effectiveEpenthesis returns the last target row's epenthetic segment.
func effectiveEpenthesis(targets []redup.Target) string {
	if len(targets) == 0 {
		return ""
	}
	return targets[len(targets)-1].Epenthesis
}
