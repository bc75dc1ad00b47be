package search

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func tokens(text string) []string {
	out := Tokenize(text).Slice()
	slices.Sort(out)
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"blank", "  \t ", []string{}},
		{"single word", "Reject", []string{"reject"}},
		{"two words", "Punk Rock", []string{"punk", "punk rock", "rock"}},
		{"three words", "Walk Away Now", []string{"away", "away now", "now", "walk", "walk away now"}},
		{"four words", "Hurry Up and Wait", []string{
			"and", "and wait", "hurry", "hurry up and wait", "up", "up and wait", "wait",
		}},
		{"repeated word", "New New", []string{"new", "new new"}},
		{"accents and spacing", "  Sigur   Rós ", []string{"ros", "sigur", "sigur ros"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tokens(tt.in)); diff != "" {
				t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestTokenizeCoversParts(t *testing.T) {
	got := Tokenize("The Time Of Your Life")
	assert.True(t, got.Contains("the time of your life"))
	for _, p := range []string{"the", "time", "of", "your", "life"} {
		assert.True(t, got.Contains(p), "missing part %q", p)
	}
	// Leading runs other than the full name are not indexed
	assert.False(t, got.Contains("the time"))
	assert.True(t, got.Contains("your life"))
}
