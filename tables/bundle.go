package tables

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/pflow-xyz/go-morph/derive"
	"github.com/pflow-xyz/go-morph/grammar"
	"github.com/pflow-xyz/go-morph/lexicon"
	"github.com/pflow-xyz/go-morph/phono"
	"github.com/pflow-xyz/go-morph/redup"
)

// bundle is the YAML form of a whole configuration directory. Vocabulary
// groups stay a list so combination order survives the round trip; the
// grammar can be a map because the start label is explicit.
type bundle struct {
	Start         string              `yaml:"start"`
	Root          string              `yaml:"root,omitempty"`
	Scope         string              `yaml:"scope,omitempty"`
	Rules         map[string][]string `yaml:"rules"`
	Vocabulary    []bundleGroup       `yaml:"vocabulary"`
	Phono         []bundleRule        `yaml:"phono,omitempty"`
	Reduplication []bundleTarget      `yaml:"reduplication,omitempty"`
	Eval          []string            `yaml:"eval,omitempty"`
}

type bundleGroup struct {
	Label   string        `yaml:"label"`
	Entries []bundleEntry `yaml:"entries"`
}

type bundleEntry struct {
	Features []string `yaml:"features,omitempty"`
	Phon     string   `yaml:"phon"`
}

type bundleRule struct {
	Environment string `yaml:"environment"`
	Before      string `yaml:"before"`
	After       string `yaml:"after"`
}

type bundleTarget struct {
	Target      string `yaml:"target"`
	Environment string `yaml:"environment,omitempty"`
	Epenthesis  string `yaml:"epenthesis,omitempty"`
}

// LoadBundle reads one YAML document holding every table, returning the
// run config plus the optional evaluation word list.
func LoadBundle(path string) (*derive.Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("tables: %w", err)
	}
	var b bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, nil, fmt.Errorf("tables: %s: %w", path, err)
	}
	cfg, eval, err := b.config()
	if err != nil {
		return nil, nil, fmt.Errorf("tables: %s: %w", path, err)
	}
	return cfg, eval, nil
}

func (b *bundle) config() (*derive.Config, []string, error) {
	if b.Start == "" {
		return nil, nil, fmt.Errorf("missing start label")
	}
	rules := grammar.Rules{}
	for parent, labels := range b.Rules {
		if len(labels) < 1 || len(labels) > 2 {
			return nil, nil, fmt.Errorf("rule %q: want 1-2 children, got %d", parent, len(labels))
		}
		children := make([]grammar.Child, 0, len(labels))
		for _, l := range labels {
			children = append(children, grammar.Child{Label: l})
		}
		rules[parent] = children
	}
	for parent, children := range rules {
		for i, c := range children {
			if _, ok := rules[c.Label]; ok {
				children[i].Nonterminal = true
			}
		}
		rules[parent] = children
	}
	if _, ok := rules[b.Start]; !ok {
		return nil, nil, fmt.Errorf("start label %q has no rule", b.Start)
	}

	var catalog lexicon.Catalog
	for _, g := range b.Vocabulary {
		if g.Label == "" {
			return nil, nil, fmt.Errorf("vocabulary group with empty label")
		}
		if g.Label == redup.Label {
			return nil, nil, ErrReduplicantEntry
		}
		group := lexicon.Group{Label: g.Label}
		for _, e := range g.Entries {
			group.Entries = append(group.Entries, lexicon.Entry{
				Features: e.Features,
				Phon:     nfc(e.Phon),
			})
		}
		if len(group.Entries) == 0 {
			return nil, nil, fmt.Errorf("vocabulary group %q has no entries", g.Label)
		}
		catalog = append(catalog, group)
	}
	if len(catalog) == 0 {
		return nil, nil, fmt.Errorf("no vocabulary groups")
	}

	var phonoRules phono.Rules
	for i, r := range b.Phono {
		if r.Environment == "" {
			return nil, nil, fmt.Errorf("phono rule %d: empty environment", i)
		}
		phonoRules = append(phonoRules, phono.Rule{
			Environment: nfc(r.Environment),
			Before:      nfc(r.Before),
			After:       nfc(r.After),
		})
	}

	var targets []redup.Target
	for i, t := range b.Reduplication {
		if t.Target == "" {
			return nil, nil, fmt.Errorf("reduplication target %d: empty label", i)
		}
		env := redup.Environment(t.Environment)
		if !env.Valid() {
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownEnvironment, t.Environment)
		}
		targets = append(targets, redup.Target{
			Label:       t.Target,
			Environment: env,
			Epenthesis:  nfc(t.Epenthesis),
		})
	}

	scope, err := scopeOf(b.Scope)
	if err != nil {
		return nil, nil, err
	}

	cfg := &derive.Config{
		Start:      b.Start,
		Root:       b.Root,
		Grammar:    rules,
		Vocabulary: catalog,
		Phono:      phonoRules,
		Targets:    targets,
		Scope:      scope,
	}
	if err := crossCheck(cfg); err != nil {
		return nil, nil, err
	}
	var eval []string
	for _, w := range b.Eval {
		eval = append(eval, nfc(w))
	}
	return cfg, eval, nil
}

// WriteBundle exports a run config and its evaluation list as one YAML
// document, the inverse of LoadBundle.
func WriteBundle(path string, cfg *derive.Config, eval []string) error {
	b := bundle{
		Start: cfg.Start,
		Root:  cfg.Root,
		Scope: string(cfg.Scope),
		Rules: map[string][]string{},
		Eval:  eval,
	}
	parents := make([]string, 0, len(cfg.Grammar))
	for parent := range cfg.Grammar {
		parents = append(parents, parent)
	}
	sort.Strings(parents)
	for _, parent := range parents {
		labels := make([]string, 0, len(cfg.Grammar[parent]))
		for _, c := range cfg.Grammar[parent] {
			labels = append(labels, c.Label)
		}
		b.Rules[parent] = labels
	}
	for _, g := range cfg.Vocabulary {
		group := bundleGroup{Label: g.Label}
		for _, e := range g.Entries {
			group.Entries = append(group.Entries, bundleEntry{Features: e.Features, Phon: e.Phon})
		}
		b.Vocabulary = append(b.Vocabulary, group)
	}
	for _, r := range cfg.Phono {
		b.Phono = append(b.Phono, bundleRule{Environment: r.Environment, Before: r.Before, After: r.After})
	}
	for _, t := range cfg.Targets {
		b.Reduplication = append(b.Reduplication, bundleTarget{
			Target:      t.Label,
			Environment: string(t.Environment),
			Epenthesis:  t.Epenthesis,
		})
	}
	data, err := yaml.Marshal(&b)
	if err != nil {
		return fmt.Errorf("tables: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
