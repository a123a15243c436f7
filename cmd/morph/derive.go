package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pflow-xyz/go-morph/derive"
	"github.com/pflow-xyz/go-morph/report"
	"github.com/pflow-xyz/go-morph/results"
	"github.com/pflow-xyz/go-morph/tables"
	"github.com/pflow-xyz/go-morph/visualization"
)

func cmdDerive(args []string) error {
	fs := flag.NewFlagSet("derive", flag.ExitOnError)
	dir := fs.String("dir", "", "Configuration table directory")
	bundlePath := fs.String("bundle", "", "YAML bundle instead of a table directory")
	out := fs.String("out", ".", "Output directory for artifacts")
	svg := fs.Bool("svg", false, "Write one SVG per derivation snapshot")
	jsonOut := fs.String("json", "", "Write the run document to this JSON file")
	db := fs.String("db", "", "Save the run to this SQLite store")
	parallel := fs.Int("parallel", 1, "Number of derivation workers")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: morph derive [options]

Run the derivation pipeline: grammar expansion, reduplication,
cyclic vocabulary insertion, and phonological adjustment. Writes
all_words.txt into the output directory.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Derive from a table directory
  morph derive -dir tables/ -out out/

  # Derive from a bundle, keeping snapshot trees as SVG
  morph derive -bundle morph.yaml -out out/ -svg

  # Record the run
  morph derive -dir tables/ -json run.json -db runs.db
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, _, err := loadConfig(*dir, *bundlePath)
	if err != nil {
		return err
	}

	res, err := derive.RunParallel(cfg, *parallel)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*out, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	wordsPath := filepath.Join(*out, "all_words.txt")
	if err := report.WriteWords(wordsPath, res); err != nil {
		return fmt.Errorf("write words: %w", err)
	}

	snapshots := 0
	if *svg {
		for _, d := range res.Derivations {
			for i, snap := range d.Snapshots {
				name := d.SnapshotName(i) + ".svg"
				if err := visualization.SaveSVG(snap, filepath.Join(*out, name)); err != nil {
					return fmt.Errorf("write %s: %w", name, err)
				}
				snapshots++
			}
		}
	}

	var run *results.Run
	if *jsonOut != "" || *db != "" {
		source := *dir
		if source == "" {
			source = *bundlePath
		}
		run = results.New(source, cfg, res)
	}
	if *jsonOut != "" {
		if err := results.WriteJSON(run, *jsonOut); err != nil {
			return fmt.Errorf("write run document: %w", err)
		}
	}
	if *db != "" {
		store, err := results.Open(*db)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.SaveRun(run); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stderr, "✓ %d words (%d base, %d reduplicated)\n",
		len(res.Derivations), res.BaseCount, len(res.Derivations)-res.BaseCount)
	fmt.Fprintf(os.Stderr, "  Words: %s\n", wordsPath)
	if *svg {
		fmt.Fprintf(os.Stderr, "  Snapshots: %d SVG files\n", snapshots)
	}
	if *jsonOut != "" {
		fmt.Fprintf(os.Stderr, "  Run document: %s\n", *jsonOut)
	}
	if *db != "" {
		fmt.Fprintf(os.Stderr, "  Stored run: %s\n", run.ID)
	}
	return nil
}

// loadConfig reads the configuration from a table directory or a YAML
// bundle. Exactly one source must be given.
func loadConfig(dir, bundle string) (*derive.Config, []string, error) {
	switch {
	case dir != "" && bundle != "":
		return nil, nil, fmt.Errorf("-dir and -bundle are mutually exclusive")
	case dir != "":
		return tables.LoadDirectory(dir)
	case bundle != "":
		return tables.LoadBundle(bundle)
	default:
		return nil, nil, fmt.Errorf("-dir or -bundle required")
	}
}
