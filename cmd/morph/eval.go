package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-morph/derive"
	"github.com/pflow-xyz/go-morph/report"
	"github.com/pflow-xyz/go-morph/tables"
)

func cmdEval(args []string) error {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	dir := fs.String("dir", "", "Configuration table directory")
	ref := fs.String("ref", "", "Reference word list (default: eval.txt in the table directory)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: morph eval -dir <tables> [options]

Run the derivation and diff the produced words against the reference
list, in both directions. Exits 1 when the lists disagree.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Against eval.txt inside the table directory
  morph eval -dir tables/

  # Against an explicit reference file
  morph eval -dir tables/ -ref golden_words.txt
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" {
		fs.Usage()
		return fmt.Errorf("-dir required")
	}

	cfg, reference, err := tables.LoadDirectory(*dir)
	if err != nil {
		return err
	}
	if *ref != "" {
		data, err := os.ReadFile(*ref)
		if err != nil {
			return fmt.Errorf("read reference: %w", err)
		}
		reference = tables.ParseEval(string(data))
	}
	if len(reference) == 0 {
		return fmt.Errorf("no reference words: add %s or pass -ref", tables.EvalFile)
	}

	res, err := derive.Run(cfg)
	if err != nil {
		return err
	}

	ev := report.Evaluate(res.Words(), reference)
	fmt.Print(report.FormatEvaluation(ev))
	if !ev.Passed() {
		os.Exit(1)
	}
	return nil
}
