package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pflow-xyz/go-morph/results"
)

func cmdRuns(args []string) error {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	db := fs.String("db", "", "SQLite store file")
	list := fs.Bool("list", false, "List stored runs (the default)")
	show := fs.String("show", "", "Print one run document as JSON")
	del := fs.String("delete", "", "Delete one run")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: morph runs -db <file> [options]

Inspect the run store written by derive -db.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Newest runs first
  morph runs -db runs.db -list

  # Full document of one run
  morph runs -db runs.db -show 7f3c...

  # Drop a run
  morph runs -db runs.db -delete 7f3c...
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *db == "" {
		fs.Usage()
		return fmt.Errorf("-db required")
	}
	if *list && (*show != "" || *del != "") {
		return fmt.Errorf("-list, -show and -delete are mutually exclusive")
	}

	store, err := results.Open(*db)
	if err != nil {
		return err
	}
	defer store.Close()

	switch {
	case *show != "":
		run, err := store.GetRun(*show)
		if err != nil {
			return err
		}
		text, err := results.ToJSON(run)
		if err != nil {
			return err
		}
		fmt.Println(text)
	case *del != "":
		if err := store.DeleteRun(*del); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ deleted %s\n", *del)
	default:
		summaries, err := store.ListRuns()
		if err != nil {
			return err
		}
		if len(summaries) == 0 {
			fmt.Println("no runs stored")
			return nil
		}
		for _, s := range summaries {
			source := s.Source
			if source == "" {
				source = "-"
			}
			fmt.Printf("%s  %s  %-13s  %3d words  %s\n",
				s.ID, s.CreatedAt.Format(time.RFC3339), s.Scope, s.Words, source)
		}
	}
	return nil
}
