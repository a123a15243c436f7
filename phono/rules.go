// Package phono implements the phonological rule table and the rewrite
// engine that adjusts fully lexicalized trees.
//
// A rule names an environment substring of the flat phonological word.
// Wherever the environment occurs, the first matched phoneme is rewritten
// to the rule's Before segment and the phoneme immediately after it to the
// After segment. One Rewrite call is a single pass; callers re-run it until
// no environment matches, since an edit can expose or remove matches.
package phono

import "strings"

// Rule rewrites the two phonemes at the start of one environment match.
type Rule struct {
	Environment string // substring of the flat word that triggers the rule
	Before      string // replaces the first matched phoneme
	After       string // replaces the following phoneme; empty deletes it
}

// Rules is an ordered rule table. Rules apply in table order.
type Rules []Rule

// Matches reports whether any rule environment occurs in the word.
func (rs Rules) Matches(word string) bool {
	for _, r := range rs {
		if r.Environment != "" && strings.Contains(word, r.Environment) {
			return true
		}
	}
	return false
}

const vowels = "aeiou"

// IsVowel reports whether r belongs to the vowel inventory {a,e,i,o,u}.
func IsVowel(r rune) bool {
	return strings.ContainsRune(vowels, r)
}

// VowelInitial reports whether s begins with a vowel.
func VowelInitial(s string) bool {
	for _, r := range s {
		return IsVowel(r)
	}
	return false
}
