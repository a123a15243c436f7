package derive

import (
	"errors"
	"testing"

	"github.com/pflow-xyz/go-morph/grammar"
	"github.com/pflow-xyz/go-morph/lexicon"
	"github.com/pflow-xyz/go-morph/redup"
)

// spineConfig builds the minimal S -> T -> root pipeline.
func spineConfig() *Config {
	return &Config{
		Start: "S",
		Grammar: grammar.Rules{
			"S": {{Label: "T", Nonterminal: true}},
			"T": {{Label: "root"}},
		},
		Vocabulary: lexicon.Catalog{
			{Label: "root", Entries: []lexicon.Entry{{Phon: "apa"}}},
		},
	}
}

func TestRunBaseOnly(t *testing.T) {
	res, err := Run(spineConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Derivations) != 1 || res.BaseCount != 1 {
		t.Fatalf("got %d derivations (base %d), want 1 (base 1)",
			len(res.Derivations), res.BaseCount)
	}
	d := res.Derivations[0]
	if d.Word != "apa" || d.Kind != KindBase || d.Index != 0 {
		t.Errorf("derivation = %q/%s/%d, want apa/base/0", d.Word, d.Kind, d.Index)
	}
	if got := d.SnapshotName(0); got != "base_word_00_step_00" {
		t.Errorf("first snapshot name = %q", got)
	}
	last := len(d.Snapshots) - 1
	if got := d.SnapshotName(last); got != "base_word_00_step_02_FINAL" {
		t.Errorf("final snapshot name = %q", got)
	}
}

func TestRunWithReduplication(t *testing.T) {
	cfg := spineConfig()
	cfg.Targets = []redup.Target{{Label: "root"}}
	res, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	words := res.Words()
	if len(words) != 2 || words[0] != "apa" || words[1] != "apaapa" {
		t.Fatalf("words = %v, want [apa apaapa]", words)
	}
	if res.BaseCount != 1 {
		t.Errorf("BaseCount = %d, want 1", res.BaseCount)
	}
	d := res.Derivations[1]
	if d.Kind != KindRedup || d.Index != 1 || d.Variant != 0 {
		t.Errorf("redup derivation = %s/%d/%d, want redup/1/0", d.Kind, d.Index, d.Variant)
	}
	last := len(d.Snapshots) - 1
	if got := d.SnapshotName(last); got != "redup_word_01_variant_00_step_03_FINAL" {
		t.Errorf("final snapshot name = %q", got)
	}
}

func TestRunVowelEnvironmentPerCombination(t *testing.T) {
	cfg := spineConfig()
	cfg.Root = "root"
	cfg.Vocabulary = lexicon.Catalog{
		{Label: "root", Entries: []lexicon.Entry{{Phon: "apa"}, {Phon: "pata"}}},
	}
	cfg.Targets = []redup.Target{{Label: "root", Environment: redup.VowelInitial}}
	res, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Only the vowel-initial combination reduplicates.
	want := []string{"apa", "pata", "apaapa"}
	got := res.Words()
	if len(got) != len(want) {
		t.Fatalf("words = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("word %d = %q, want %q", i, got[i], want[i])
		}
	}
	if res.BaseCount != 2 {
		t.Errorf("BaseCount = %d, want 2", res.BaseCount)
	}
	if d := res.Derivations[2]; d.Index != 2 || d.Combination != 0 {
		t.Errorf("redup derivation index/combination = %d/%d, want 2/0", d.Index, d.Combination)
	}
}

func TestRunEffectiveEnvironmentAndEpenthesis(t *testing.T) {
	// The environment in force is the last non-empty one; the epenthetic
	// segment comes from the last row.
	cfg := spineConfig()
	cfg.Root = "root"
	cfg.Targets = []redup.Target{
		{Label: "root", Environment: redup.VowelInitial},
		{Label: "T", Epenthesis: "t"},
	}
	res, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	words := res.Words()
	want := []string{"apa", "apatapa", "apatapa"}
	if len(words) != len(want) {
		t.Fatalf("words = %v, want %v", words, want)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Errorf("word %d = %q, want %q", i, words[i], want[i])
		}
	}
	if res.Derivations[2].Variant != 1 {
		t.Errorf("second variant ordinal = %d, want 1", res.Derivations[2].Variant)
	}
}

func TestRunMissingRootEntry(t *testing.T) {
	// A vowel-initial row needs the root exponent; no group carries the
	// default root label.
	cfg := &Config{
		Start: "S",
		Grammar: grammar.Rules{
			"S": {{Label: "T", Nonterminal: true}},
			"T": {{Label: "k"}},
		},
		Vocabulary: lexicon.Catalog{
			{Label: "k", Entries: []lexicon.Entry{{Phon: "pa"}}},
		},
		Targets: []redup.Target{{Label: "T", Environment: redup.VowelInitial}},
	}
	_, err := Run(cfg)
	if !errors.Is(err, ErrNoRootEntry) {
		t.Fatalf("err = %v, want ErrNoRootEntry", err)
	}
}

func TestRunNoStart(t *testing.T) {
	if _, err := Run(&Config{}); !errors.Is(err, ErrNoStart) {
		t.Fatalf("err = %v, want ErrNoStart", err)
	}
}

func TestRunParallelMatchesSequential(t *testing.T) {
	cfg := &Config{
		Start: "S",
		Root:  "root",
		Grammar: grammar.Rules{
			"S": {{Label: "root"}, {Label: "T"}},
		},
		Vocabulary: lexicon.Catalog{
			{Label: "root", Entries: []lexicon.Entry{{Phon: "apa"}, {Phon: "ipa"}, {Phon: "pata"}}},
			{Label: "T", Entries: []lexicon.Entry{{Phon: ""}, {Phon: "ta"}}},
		},
		Targets: []redup.Target{{Label: "root", Environment: redup.VowelInitial}},
	}
	seq, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(seq.Derivations) != 10 || seq.BaseCount != 6 {
		t.Fatalf("got %d derivations (base %d), want 10 (base 6)",
			len(seq.Derivations), seq.BaseCount)
	}
	par, err := RunParallel(cfg, 3)
	if err != nil {
		t.Fatalf("RunParallel: %v", err)
	}
	if len(par.Derivations) != len(seq.Derivations) || par.BaseCount != seq.BaseCount {
		t.Fatalf("parallel shape %d/%d, sequential %d/%d",
			len(par.Derivations), par.BaseCount, len(seq.Derivations), seq.BaseCount)
	}
	for i := range seq.Derivations {
		s, p := seq.Derivations[i], par.Derivations[i]
		if s.Word != p.Word || s.Index != p.Index || s.Kind != p.Kind {
			t.Errorf("derivation %d: parallel %q/%s/%d, sequential %q/%s/%d",
				i, p.Word, p.Kind, p.Index, s.Word, s.Kind, s.Index)
		}
		if s.SnapshotName(len(s.Snapshots)-1) != p.SnapshotName(len(p.Snapshots)-1) {
			t.Errorf("derivation %d: snapshot names diverge", i)
		}
	}
}
