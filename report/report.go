// Package report renders the final word list in the classic
// all_words.txt layout and diffs produced words against a reference
// list.
package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/pflow-xyz/go-morph/derive"
)

// Separator precedes the reduplicated section of the word list. It
// occupies a line of its own and does not consume a numbering slot.
const Separator = "--- reduplicated words ---"

// FormatWords renders one `N. word` line per derivation, numbered
// continuously from 0 across both sections. The separator appears
// whenever reduplication was configured, even when no variant survived
// its environment.
func FormatWords(res *derive.Result) string {
	var b strings.Builder
	for i, d := range res.Derivations {
		if res.TargetCount > 0 && i == res.BaseCount {
			b.WriteString(Separator)
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s\n", i, d.Word)
	}
	if res.TargetCount > 0 && len(res.Derivations) == res.BaseCount {
		b.WriteString(Separator)
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteWords writes the word list to path.
func WriteWords(path string, res *derive.Result) error {
	return os.WriteFile(path, []byte(FormatWords(res)), 0644)
}

// Evaluation is the two-way diff between produced and reference words.
type Evaluation struct {
	Extra   []string // produced but absent from the reference list
	Missing []string // in the reference list but never produced
}

// Passed reports whether both directions are empty.
func (e Evaluation) Passed() bool {
	return len(e.Extra) == 0 && len(e.Missing) == 0
}

// Evaluate diffs produced words against the reference list. Order is
// preserved and duplicates are reported per occurrence.
func Evaluate(produced, reference []string) Evaluation {
	var e Evaluation
	for _, w := range produced {
		if !contains(reference, w) {
			e.Extra = append(e.Extra, w)
		}
	}
	for _, w := range reference {
		if !contains(produced, w) {
			e.Missing = append(e.Missing, w)
		}
	}
	return e
}

func contains(words []string, w string) bool {
	for _, x := range words {
		if x == w {
			return true
		}
	}
	return false
}

// FormatEvaluation renders each non-empty diff direction under its
// header and ends with the success line when the evaluation passed. A
// passing evaluation prints the success line alone.
func FormatEvaluation(e Evaluation) string {
	var b strings.Builder
	if len(e.Extra) > 0 {
		b.WriteString("--- Words produced by script which are not evaluation file ---\n")
		for _, w := range e.Extra {
			b.WriteString(w)
			b.WriteByte('\n')
		}
	}
	if len(e.Missing) > 0 {
		b.WriteString("--- Words in evaluation file which are not produced by script ---\n")
		for _, w := range e.Missing {
			b.WriteString(w)
			b.WriteByte('\n')
		}
	}
	if e.Passed() {
		b.WriteString("success! Evaluation passed.\n")
	}
	return b.String()
}
