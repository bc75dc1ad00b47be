package search

import (
	"strings"

	"github.com/mmcdole/avalon/internal/set"
)

// Tokenize returns the search tokens indexed for a name: the whole
// normalized name, every individual word, and every trailing run of two or
// more words that is shorter than the whole name.
//
// "Walk Away Now" yields {"walk away now", "walk", "away", "now", "away now"}.
// Only trailing runs are indexed so "search as you type" works from any word
// without storing every substring.
func Tokenize(text string) set.Set[string] {
	parts := strings.Fields(Normalize(text))
	if len(parts) == 0 {
		return set.Set[string]{}
	}

	var b set.Builder[string]
	b.Add(strings.Join(parts, " "))
	for _, p := range parts {
		b.Add(p)
	}
	for i := 1; i <= len(parts)-2; i++ {
		b.Add(strings.Join(parts[i:], " "))
	}
	return b.Build()
}
