// Package results defines the structured output format for derivation runs
package results

import (
	"time"

	"github.com/google/uuid"

	"github.com/pflow-xyz/go-morph/derive"
	"github.com/pflow-xyz/go-morph/lexicon"
)

const SchemaVersion = "1.0.0"

// Run contains complete derivation run output
type Run struct {
	Version     string       `json:"version"`
	ID          string       `json:"id"`
	CreatedAt   time.Time    `json:"createdAt"`
	Source      string       `json:"source,omitempty"` // table directory or bundle path
	Scope       string       `json:"scope"`
	Tables      TableStats   `json:"tables"`
	Derivations []Derivation `json:"derivations"`
	Words       []string     `json:"words"`
}

// TableStats summarizes the loaded configuration
type TableStats struct {
	Rules      int `json:"rules"`
	Groups     int `json:"groups"`
	Entries    int `json:"entries"`
	PhonoRules int `json:"phonoRules"`
	Targets    int `json:"targets"`
}

// Derivation records one spelled-out word
type Derivation struct {
	Index       int    `json:"index"`
	Kind        string `json:"kind"` // base, redup
	Combination int    `json:"combination"`
	Variant     int    `json:"variant"`
	Target      string `json:"target,omitempty"`
	Word        string `json:"word"`
	Snapshots   int    `json:"snapshots"`
}

// New assembles a Run document from a completed derivation result
func New(source string, cfg *derive.Config, res *derive.Result) *Run {
	run := &Run{
		Version:   SchemaVersion,
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Source:    source,
		Scope:     scopeName(cfg.Scope),
		Tables:    statsOf(cfg),
		Words:     res.Words(),
	}
	for _, d := range res.Derivations {
		run.Derivations = append(run.Derivations, Derivation{
			Index:       d.Index,
			Kind:        string(d.Kind),
			Combination: d.Combination,
			Variant:     d.Variant,
			Target:      d.Target.Label,
			Word:        d.Word,
			Snapshots:   len(d.Snapshots),
		})
	}
	return run
}

func scopeName(s lexicon.Scope) string {
	if s == lexicon.ScopeFull {
		return "unconditioned"
	}
	return string(s)
}

func statsOf(cfg *derive.Config) TableStats {
	entries := 0
	for _, g := range cfg.Vocabulary {
		entries += len(g.Entries)
	}
	return TableStats{
		Rules:      len(cfg.Grammar),
		Groups:     len(cfg.Vocabulary),
		Entries:    entries,
		PhonoRules: len(cfg.Phono),
		Targets:    len(cfg.Targets),
	}
}
