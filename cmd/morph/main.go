package main

import (
	"fmt"
	"os"

	"github.com/pflow-xyz/go-morph/rpc"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "derive":
		if err := cmdDerive(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "expand":
		if err := cmdExpand(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "words":
		if err := cmdWords(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "validate":
		if err := cmdValidate(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "eval":
		if err := cmdEval(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "watch":
		if err := cmdWatch(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "serve":
		if err := cmdServe(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "runs":
		if err := cmdRuns(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "bundle":
		if err := cmdBundle(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Printf("morph version %s\n", rpc.Version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`morph - table-driven word derivation engine

Usage:
  morph <command> [options]

Commands:
  derive     Run the derivation pipeline and write artifacts
  expand     Print the expanded syntactic tree
  words      Derive and print the final words
  validate   Check the configuration tables
  eval       Compare derived words against a reference list
  watch      Re-derive whenever the tables change
  serve      Answer derivations over JSON-RPC on stdio
  runs       Inspect stored runs
  bundle     Convert a table directory to a YAML bundle
  help       Show this help message
  version    Show version information

Examples:
  # Derive and write all_words.txt
  morph derive -dir tables/ -out out/

  # Quick look at the words
  morph words -dir tables/

  # Keep artifacts fresh while editing tables
  morph watch -dir tables/ -out out/

  # Check the produced words against eval.txt
  morph eval -dir tables/

For command-specific help, run:
  morph <command> --help`)
}
