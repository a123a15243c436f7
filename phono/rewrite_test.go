package phono

import (
	"testing"

	"github.com/pflow-xyz/go-morph/syntax"
)

// twoLeaf builds [W [A a] [B b]] with the given exponents attached.
func twoLeaf(phonA, phonB string) *syntax.Node {
	a := syntax.NewLeaf("A")
	a.Lexicalize(nil, phonA)
	b := syntax.NewLeaf("B")
	b.Lexicalize(nil, phonB)
	return syntax.NewBranch("W", a, b)
}

func oneLeaf(phon string) *syntax.Node {
	a := syntax.NewLeaf("A")
	a.Lexicalize(nil, phon)
	return syntax.NewBranch("W", a)
}

func TestMatches(t *testing.T) {
	rules := Rules{{Environment: "aa", Before: "a", After: "p"}}
	if !rules.Matches("apaapa") {
		t.Error("Matches should find aa in apaapa")
	}
	if rules.Matches("apa") {
		t.Error("Matches should not find aa in apa")
	}
	if (Rules{}).Matches("apa") {
		t.Error("empty rule table matches nothing")
	}
}

func TestVowels(t *testing.T) {
	for _, r := range "aeiou" {
		if !IsVowel(r) {
			t.Errorf("IsVowel(%q) = false", r)
		}
	}
	for _, r := range "ptkx" {
		if IsVowel(r) {
			t.Errorf("IsVowel(%q) = true", r)
		}
	}
	if !VowelInitial("apa") {
		t.Error("VowelInitial(apa) = false")
	}
	if VowelInitial("pa") || VowelInitial("") {
		t.Error("VowelInitial should be false for pa and the empty string")
	}
}

func TestRewriteBoundary(t *testing.T) {
	// aa straddles the morpheme boundary of apa+apa at offset 2
	tree := twoLeaf("apa", "apa")
	rules := Rules{{Environment: "aa", Before: "e", After: "o"}}

	if !Rewrite(tree, rules) {
		t.Fatal("Rewrite reported no change")
	}
	leaves := tree.Leaves()
	if leaves[0].Phon != "ape" {
		t.Errorf("first leaf = %q, want ape", leaves[0].Phon)
	}
	if leaves[1].Phon != "opa" {
		t.Errorf("second leaf = %q, want opa", leaves[1].Phon)
	}
	if w := tree.Word(); w != "apeopa" {
		t.Errorf("word = %q, want apeopa", w)
	}
	if rules.Matches(tree.Word()) {
		t.Error("environment should be gone after the pass")
	}
}

func TestRewriteInterior(t *testing.T) {
	tree := oneLeaf("tapa")
	rules := Rules{{Environment: "ap", Before: "b", After: "d"}}

	if !Rewrite(tree, rules) {
		t.Fatal("Rewrite reported no change")
	}
	if w := tree.Word(); w != "tbda" {
		t.Errorf("word = %q, want tbda", w)
	}
}

func TestRewriteInteriorMultiRuneBefore(t *testing.T) {
	// the After offset shifts by the length of the Before segment
	tree := oneLeaf("apa")
	rules := Rules{{Environment: "ap", Before: "xy", After: "q"}}

	Rewrite(tree, rules)
	if w := tree.Word(); w != "xyqa" {
		t.Errorf("word = %q, want xyqa", w)
	}
}

func TestRewriteDeletesFollowingPhoneme(t *testing.T) {
	tree := twoLeaf("apa", "apa")
	rules := Rules{{Environment: "aa", Before: "a", After: ""}}

	if !Rewrite(tree, rules) {
		t.Fatal("Rewrite reported no change")
	}
	leaves := tree.Leaves()
	if leaves[0].Phon != "apa" {
		t.Errorf("first leaf = %q, want apa (Before segment equals the phoneme)", leaves[0].Phon)
	}
	if leaves[1].Phon != "pa" {
		t.Errorf("second leaf = %q, want pa", leaves[1].Phon)
	}
}

func TestRewriteSkipsLeafTouchedThisPass(t *testing.T) {
	tree := oneLeaf("akaka")
	rules := Rules{{Environment: "ak", Before: "i", After: "t"}}

	Rewrite(tree, rules)
	if w := tree.Word(); w != "itaka" {
		t.Fatalf("after first pass word = %q, want itaka", w)
	}
	Rewrite(tree, rules)
	if w := tree.Word(); w != "itita" {
		t.Fatalf("after second pass word = %q, want itita", w)
	}
	if Rewrite(tree, rules) {
		t.Error("third pass should change nothing")
	}
}

func TestRewriteRuleOrderWithinPass(t *testing.T) {
	// the second rule's match falls on a leaf the first rule already edited
	tree := oneLeaf("apa")
	rules := Rules{
		{Environment: "ap", Before: "o", After: "k"},
		{Environment: "pa", Before: "m", After: "m"},
	}

	Rewrite(tree, rules)
	if w := tree.Word(); w != "oka" {
		t.Errorf("word = %q, want oka", w)
	}
}

func TestRewriteFixpointIdempotence(t *testing.T) {
	tree := twoLeaf("ape", "opa")
	rules := Rules{{Environment: "aa", Before: "e", After: "o"}}

	if Rewrite(tree, rules) {
		t.Error("Rewrite changed a tree with no environment match")
	}
	if w := tree.Word(); w != "apeopa" {
		t.Errorf("word = %q, want apeopa", w)
	}
}

func TestRewriteUnlexicalizedTree(t *testing.T) {
	tree := syntax.NewBranch("W", syntax.NewLeaf("A"))
	if Rewrite(tree, Rules{{Environment: "a", Before: "b", After: "c"}}) {
		t.Error("Rewrite changed a tree with no exponents")
	}
}
