package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/pflow-xyz/go-morph/derive"
	"github.com/pflow-xyz/go-morph/logger"
	"github.com/pflow-xyz/go-morph/report"
	"github.com/pflow-xyz/go-morph/tables"
)

// watchPatterns matches the file names a configuration is made of.
var watchPatterns = []string{"*.txt", "*.yaml"}

func cmdWatch(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	dir := fs.String("dir", "", "Configuration table directory")
	out := fs.String("out", ".", "Output directory for artifacts")
	debounce := fs.Duration("debounce", 250*time.Millisecond, "Quiet period before re-deriving")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: morph watch -dir <tables> [options]

Watch the table directory and re-derive whenever a table changes,
keeping all_words.txt in the output directory up to date. Stops on
interrupt.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Example:
  morph watch -dir tables/ -out out/
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" {
		fs.Usage()
		return fmt.Errorf("-dir required")
	}

	logger.Setup(logger.DefaultConfig())
	log := logger.ForComponent("watch")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(*out, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(*dir); err != nil {
		return err
	}

	rederive := func() {
		start := time.Now()
		cfg, _, err := tables.LoadDirectory(*dir)
		if err != nil {
			log.Error("load failed", "err", err)
			return
		}
		res, err := derive.Run(cfg)
		if err != nil {
			log.Error("derivation failed", "err", err)
			return
		}
		path := filepath.Join(*out, "all_words.txt")
		if err := report.WriteWords(path, res); err != nil {
			log.Error("write failed", "err", err)
			return
		}
		log.Info("derived", "words", len(res.Derivations), "elapsed", time.Since(start))
	}

	rederive()
	log.Info("watching", "dir", *dir, "out", *out)

	timer := time.NewTimer(*debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("stopped")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !matchesTables(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			log.Debug("change", "file", filepath.Base(ev.Name), "op", ev.Op.String())
			timer.Reset(*debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("watch error", "err", err)
		case <-timer.C:
			rederive()
		}
	}
}

// matchesTables reports whether a changed path looks like a
// configuration file.
func matchesTables(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range watchPatterns {
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}
	return false
}
