package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-morph/tables"
)

func cmdBundle(args []string) error {
	fs := flag.NewFlagSet("bundle", flag.ExitOnError)
	dir := fs.String("dir", "", "Configuration table directory")
	out := fs.String("out", "", "Bundle file to write")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: morph bundle -dir <tables> -out <file.yaml>

Convert a table directory into a single YAML bundle, including the
evaluation word list when present. The bundle loads back with
derive -bundle.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Example:
  morph bundle -dir tables/ -out morph.yaml
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" || *out == "" {
		fs.Usage()
		return fmt.Errorf("-dir and -out required")
	}

	cfg, eval, err := tables.LoadDirectory(*dir)
	if err != nil {
		return err
	}
	if err := tables.WriteBundle(*out, cfg, eval); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "✓ bundled %s into %s\n", *dir, *out)
	return nil
}
