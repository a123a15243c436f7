// Package tables loads derivation configurations from the flat-file
// directory layout (comma-separated tables, one concern per file) or
// from a single YAML bundle.
package tables

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/pflow-xyz/go-morph/derive"
	"github.com/pflow-xyz/go-morph/grammar"
	"github.com/pflow-xyz/go-morph/lexicon"
	"github.com/pflow-xyz/go-morph/phono"
	"github.com/pflow-xyz/go-morph/redup"
)

// Table file names inside a configuration directory.
const (
	GrammarFile = "psr.txt"
	VocabFile   = "vi_rules.txt"
	PhonoFile   = "phono_rules.txt"
	TargetsFile = "red.txt"
	ScopeFile   = "scope.txt"
	EvalFile    = "eval.txt"
)

var (
	ErrDuplicateRule      = errors.New("duplicate grammar rule")
	ErrReduplicantEntry   = errors.New("vocabulary entry for the reduplicant label")
	ErrNonterminalEntry   = errors.New("vocabulary entry for a nonterminal label")
	ErrUnknownEnvironment = errors.New("unknown reduplication environment")
	ErrUnknownScope       = errors.New("unknown scope")
)

// row is one non-blank table line split into trimmed fields.
type row struct {
	line   int
	fields []string
}

func rows(data string) []row {
	var out []row
	for i, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		for j := range fields {
			fields[j] = strings.TrimSpace(fields[j])
		}
		out = append(out, row{line: i + 1, fields: fields})
	}
	return out
}

// nfc canonicalizes a phoneme string so combining marks compare equal
// across tables.
func nfc(s string) string {
	return norm.NFC.String(s)
}

// ParseGrammar reads phrase-structure rules, one `parent, child[, child]`
// row per line. A single-field first row names the start label and the
// rules after it may come in any order; without that header the first
// rule's parent is the start. A child is marked nonterminal when its
// label has a rule of its own; the prime suffix in category names is a
// naming convention, not syntax.
func ParseGrammar(data string) (string, grammar.Rules, error) {
	rules := grammar.Rules{}
	start := ""
	for i, r := range rows(data) {
		if i == 0 && len(r.fields) == 1 {
			start = r.fields[0]
			continue
		}
		if len(r.fields) < 2 || len(r.fields) > 3 {
			return "", nil, fmt.Errorf("line %d: want a parent and 1-2 children, got %d fields", r.line, len(r.fields))
		}
		parent := r.fields[0]
		if parent == "" {
			return "", nil, fmt.Errorf("line %d: empty parent label", r.line)
		}
		if _, ok := rules[parent]; ok {
			return "", nil, fmt.Errorf("line %d: %w: %q", r.line, ErrDuplicateRule, parent)
		}
		children := make([]grammar.Child, 0, 2)
		for _, f := range r.fields[1:] {
			if f == "" {
				return "", nil, fmt.Errorf("line %d: empty child label", r.line)
			}
			children = append(children, grammar.Child{Label: f})
		}
		rules[parent] = children
		if start == "" {
			start = parent
		}
	}
	if len(rules) == 0 {
		return "", nil, errors.New("no rules")
	}
	for parent, children := range rules {
		for i, c := range children {
			if _, ok := rules[c.Label]; ok {
				children[i].Nonterminal = true
			}
		}
		rules[parent] = children
	}
	return start, rules, nil
}

// ParseVocabulary reads vocabulary entries, one `label, feature..., phon`
// row per line (two fields minimum; the last field is the phonology).
// Repeated labels accumulate competing entries in file order. The
// reduplicant label never has a table entry; its content is computed at
// insertion time.
func ParseVocabulary(data string) (lexicon.Catalog, error) {
	var catalog lexicon.Catalog
	index := make(map[string]int)
	for _, r := range rows(data) {
		if len(r.fields) < 2 {
			return nil, fmt.Errorf("line %d: want label and phonology, got %d fields", r.line, len(r.fields))
		}
		label := r.fields[0]
		if label == "" {
			return nil, fmt.Errorf("line %d: empty label", r.line)
		}
		if label == redup.Label {
			return nil, fmt.Errorf("line %d: %w", r.line, ErrReduplicantEntry)
		}
		entry := lexicon.Entry{Phon: nfc(r.fields[len(r.fields)-1])}
		if len(r.fields) > 2 {
			entry.Features = append(entry.Features, r.fields[1:len(r.fields)-1]...)
		}
		i, ok := index[label]
		if !ok {
			i = len(catalog)
			index[label] = i
			catalog = append(catalog, lexicon.Group{Label: label})
		}
		catalog[i].Entries = append(catalog[i].Entries, entry)
	}
	if len(catalog) == 0 {
		return nil, errors.New("no entries")
	}
	return catalog, nil
}

// ParsePhono reads ordered phonological rules, one
// `environment, before, after` row per line. Before and after may be
// empty (deletion); the environment may not.
func ParsePhono(data string) (phono.Rules, error) {
	var out phono.Rules
	for _, r := range rows(data) {
		if len(r.fields) != 3 {
			return nil, fmt.Errorf("line %d: want environment, before, after, got %d fields", r.line, len(r.fields))
		}
		if r.fields[0] == "" {
			return nil, fmt.Errorf("line %d: empty environment", r.line)
		}
		out = append(out, phono.Rule{
			Environment: nfc(r.fields[0]),
			Before:      nfc(r.fields[1]),
			After:       nfc(r.fields[2]),
		})
	}
	return out, nil
}

// ParseTargets reads reduplication targets, one
// `label[, environment[, epenthesis]]` row per line. The file may be
// empty (no reduplication).
func ParseTargets(data string) ([]redup.Target, error) {
	var out []redup.Target
	for _, r := range rows(data) {
		if len(r.fields) > 3 {
			return nil, fmt.Errorf("line %d: want label, environment, epenthesis, got %d fields", r.line, len(r.fields))
		}
		if r.fields[0] == "" {
			return nil, fmt.Errorf("line %d: empty target label", r.line)
		}
		t := redup.Target{Label: r.fields[0]}
		if len(r.fields) > 1 {
			env := redup.Environment(r.fields[1])
			if !env.Valid() {
				return nil, fmt.Errorf("line %d: %w: %q", r.line, ErrUnknownEnvironment, r.fields[1])
			}
			t.Environment = env
		}
		if len(r.fields) > 2 {
			t.Epenthesis = nfc(r.fields[2])
		}
		out = append(out, t)
	}
	return out, nil
}

// ParseScope reads the copy-scope file: at most one value, empty or
// `unconditioned` for a full copy, `bisyllabic` for the two-vowel
// template.
func ParseScope(data string) (lexicon.Scope, error) {
	var value string
	seen := false
	for i, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if seen {
			return "", fmt.Errorf("line %d: more than one scope value", i+1)
		}
		value, seen = line, true
	}
	return scopeOf(value)
}

func scopeOf(value string) (lexicon.Scope, error) {
	switch value {
	case "", "unconditioned":
		return lexicon.ScopeFull, nil
	case string(lexicon.ScopeBisyllabic):
		return lexicon.ScopeBisyllabic, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScope, value)
	}
}

// ParseEval reads the reference word list, one word per line.
func ParseEval(data string) []string {
	var out []string
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, nfc(line))
	}
	return out
}

// LoadDirectory reads a configuration directory into a run config plus
// the optional evaluation word list. The grammar and vocabulary tables
// are required; the phonological, reduplication, and scope tables
// default to empty when absent.
func LoadDirectory(dir string) (*derive.Config, []string, error) {
	return load(func(name string, required bool) (string, error) {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if !required && errors.Is(err, os.ErrNotExist) {
				return "", nil
			}
			return "", fmt.Errorf("tables: %w", err)
		}
		return string(b), nil
	})
}

// LoadMap reads a configuration from in-memory tables keyed by file
// name, the form RPC clients send them in. Semantics match
// LoadDirectory; a missing key is a missing file.
func LoadMap(files map[string]string) (*derive.Config, []string, error) {
	return load(func(name string, required bool) (string, error) {
		data, ok := files[name]
		if !ok && required {
			return "", fmt.Errorf("tables: missing table %q", name)
		}
		return data, nil
	})
}

func load(read func(name string, required bool) (string, error)) (*derive.Config, []string, error) {
	fail := func(name string, err error) error {
		return fmt.Errorf("tables: %s: %w", name, err)
	}

	grammarData, err := read(GrammarFile, true)
	if err != nil {
		return nil, nil, err
	}
	start, rules, err := ParseGrammar(grammarData)
	if err != nil {
		return nil, nil, fail(GrammarFile, err)
	}

	vocabData, err := read(VocabFile, true)
	if err != nil {
		return nil, nil, err
	}
	catalog, err := ParseVocabulary(vocabData)
	if err != nil {
		return nil, nil, fail(VocabFile, err)
	}

	phonoData, err := read(PhonoFile, false)
	if err != nil {
		return nil, nil, err
	}
	phonoRules, err := ParsePhono(phonoData)
	if err != nil {
		return nil, nil, fail(PhonoFile, err)
	}

	targetData, err := read(TargetsFile, false)
	if err != nil {
		return nil, nil, err
	}
	targets, err := ParseTargets(targetData)
	if err != nil {
		return nil, nil, fail(TargetsFile, err)
	}

	scopeData, err := read(ScopeFile, false)
	if err != nil {
		return nil, nil, err
	}
	scope, err := ParseScope(scopeData)
	if err != nil {
		return nil, nil, fail(ScopeFile, err)
	}

	evalData, err := read(EvalFile, false)
	if err != nil {
		return nil, nil, err
	}

	cfg := &derive.Config{
		Start:      start,
		Grammar:    rules,
		Vocabulary: catalog,
		Phono:      phonoRules,
		Targets:    targets,
		Scope:      scope,
	}
	if err := crossCheck(cfg); err != nil {
		return nil, nil, err
	}
	return cfg, ParseEval(evalData), nil
}

// crossCheck enforces the constraints that span tables: morpheme labels
// and category labels stay distinct.
func crossCheck(cfg *derive.Config) error {
	for _, g := range cfg.Vocabulary {
		if _, ok := cfg.Grammar[g.Label]; ok {
			return fmt.Errorf("tables: %w: %q", ErrNonterminalEntry, g.Label)
		}
	}
	return nil
}
