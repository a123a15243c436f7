package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-morph/grammar"
	"github.com/pflow-xyz/go-morph/tables"
)

func cmdExpand(args []string) error {
	fs := flag.NewFlagSet("expand", flag.ExitOnError)
	dir := fs.String("dir", "", "Configuration table directory")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: morph expand -dir <tables>

Expand the phrase-structure rules and print the resulting tree in
labeled bracket notation, before any insertion takes place.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Example:
  morph expand -dir tables/
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" {
		fs.Usage()
		return fmt.Errorf("-dir required")
	}

	cfg, _, err := tables.LoadDirectory(*dir)
	if err != nil {
		return err
	}
	tree, err := grammar.Expand(cfg.Start, cfg.Grammar)
	if err != nil {
		return err
	}
	fmt.Println(tree.String())
	return nil
}
