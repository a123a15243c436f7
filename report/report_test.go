package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pflow-xyz/go-morph/derive"
)

func result(baseCount, targetCount int, words ...string) *derive.Result {
	res := &derive.Result{BaseCount: baseCount, TargetCount: targetCount}
	for i, w := range words {
		res.Derivations = append(res.Derivations, &derive.Derivation{Index: i, Word: w})
	}
	return res
}

func TestFormatWordsBaseOnly(t *testing.T) {
	got := FormatWords(result(2, 0, "apa", "pata"))
	want := "0. apa\n1. pata\n"
	if got != want {
		t.Errorf("FormatWords = %q, want %q", got, want)
	}
}

func TestFormatWordsNumbersAcrossSeparator(t *testing.T) {
	got := FormatWords(result(2, 1, "apa", "pata", "apaapa"))
	want := "0. apa\n1. pata\n--- reduplicated words ---\n2. apaapa\n"
	if got != want {
		t.Errorf("FormatWords = %q, want %q", got, want)
	}
}

func TestFormatWordsTrailingSeparator(t *testing.T) {
	// Reduplication configured, no variant satisfied its environment.
	got := FormatWords(result(1, 1, "pata"))
	want := "0. pata\n--- reduplicated words ---\n"
	if got != want {
		t.Errorf("FormatWords = %q, want %q", got, want)
	}
}

func TestWriteWords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "all_words.txt")
	if err := WriteWords(path, result(1, 0, "apa")); err != nil {
		t.Fatalf("WriteWords: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "0. apa\n" {
		t.Errorf("file content = %q", data)
	}
}

func TestEvaluatePasses(t *testing.T) {
	e := Evaluate([]string{"apa", "apaapa"}, []string{"apa", "apaapa"})
	if !e.Passed() {
		t.Errorf("evaluation should pass: %+v", e)
	}
}

func TestEvaluateBothDirections(t *testing.T) {
	e := Evaluate([]string{"apa", "ataapa"}, []string{"apa", "apaapa"})
	if e.Passed() {
		t.Fatal("evaluation should fail")
	}
	if len(e.Extra) != 1 || e.Extra[0] != "ataapa" {
		t.Errorf("Extra = %v, want [ataapa]", e.Extra)
	}
	if len(e.Missing) != 1 || e.Missing[0] != "apaapa" {
		t.Errorf("Missing = %v, want [apaapa]", e.Missing)
	}
}

func TestEvaluateDuplicatesPerOccurrence(t *testing.T) {
	e := Evaluate([]string{"apa", "apa"}, nil)
	if len(e.Extra) != 2 {
		t.Errorf("Extra = %v, want two occurrences", e.Extra)
	}
}

func TestFormatEvaluation(t *testing.T) {
	passed := FormatEvaluation(Evaluate([]string{"apa"}, []string{"apa"}))
	if passed != "success! Evaluation passed.\n" {
		t.Errorf("passing evaluation output = %q, want the success line alone", passed)
	}

	failed := FormatEvaluation(Evaluate([]string{"x"}, []string{"y"}))
	if strings.Contains(failed, "success!") {
		t.Errorf("failing evaluation should not report success: %q", failed)
	}
	if !strings.Contains(failed, "--- Words produced by script which are not evaluation file ---\nx\n") {
		t.Errorf("missing extra section: %q", failed)
	}
	if !strings.Contains(failed, "--- Words in evaluation file which are not produced by script ---\ny\n") {
		t.Errorf("missing missing section: %q", failed)
	}
}

func TestFormatEvaluationSkipsEmptySection(t *testing.T) {
	out := FormatEvaluation(Evaluate([]string{"apa", "x"}, []string{"apa"}))
	if !strings.Contains(out, "--- Words produced by script which are not evaluation file ---\nx\n") {
		t.Errorf("missing extra section: %q", out)
	}
	if strings.Contains(out, "--- Words in evaluation file which are not produced by script ---") {
		t.Errorf("empty direction should print no header: %q", out)
	}
}
