package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pflow-xyz/go-morph/grammar"
	"github.com/pflow-xyz/go-morph/tables"
)

func cmdValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	dir := fs.String("dir", "", "Configuration table directory")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: morph validate -dir <tables>

Load the configuration tables and run the static checks: table
syntax, cross-table label consistency, and grammar expansion.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Example:
  morph validate -dir tables/
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" {
		fs.Usage()
		return fmt.Errorf("-dir required")
	}

	cfg, eval, err := tables.LoadDirectory(*dir)
	if err != nil {
		return err
	}

	present := func(name string) bool {
		_, err := os.Stat(filepath.Join(*dir, name))
		return err == nil
	}

	fmt.Printf("✓ %s: %d rules, start %q\n", tables.GrammarFile, len(cfg.Grammar), cfg.Start)

	entries := 0
	for _, g := range cfg.Vocabulary {
		entries += len(g.Entries)
	}
	fmt.Printf("✓ %s: %d groups, %d entries\n", tables.VocabFile, len(cfg.Vocabulary), entries)

	if present(tables.PhonoFile) {
		fmt.Printf("✓ %s: %d rules\n", tables.PhonoFile, len(cfg.Phono))
	} else {
		fmt.Printf("- %s: not present\n", tables.PhonoFile)
	}
	if present(tables.TargetsFile) {
		fmt.Printf("✓ %s: %d targets\n", tables.TargetsFile, len(cfg.Targets))
	} else {
		fmt.Printf("- %s: not present\n", tables.TargetsFile)
	}
	if present(tables.ScopeFile) {
		fmt.Printf("✓ %s: %s\n", tables.ScopeFile, scopeText(string(cfg.Scope)))
	} else {
		fmt.Printf("- %s: not present\n", tables.ScopeFile)
	}
	if present(tables.EvalFile) {
		fmt.Printf("✓ %s: %d reference words\n", tables.EvalFile, len(eval))
	} else {
		fmt.Printf("- %s: not present\n", tables.EvalFile)
	}

	tree, err := grammar.Expand(cfg.Start, cfg.Grammar)
	if err != nil {
		return err
	}
	fmt.Printf("✓ grammar expands to %d leaves\n", len(tree.Leaves()))
	fmt.Printf("✓ %d vocabulary combinations\n", len(cfg.Vocabulary.Combinations()))
	return nil
}

func scopeText(scope string) string {
	if scope == "" {
		return "unconditioned"
	}
	return scope
}
