package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-morph/derive"
	"github.com/pflow-xyz/go-morph/tables"
)

func cmdWords(args []string) error {
	fs := flag.NewFlagSet("words", flag.ExitOnError)
	dir := fs.String("dir", "", "Configuration table directory")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: morph words -dir <tables>

Run the derivation and print the final words, one per line, in
derivation order.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Example:
  morph words -dir tables/
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
	res, err := derive.Run(cfg)
	if err != nil {
		return err
	}
	for _, w := range res.Words() {
		fmt.Println(w)
	}
	return nil
}
