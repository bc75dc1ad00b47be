package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes text and drops nonspacing marks (accents, umlauts)
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

// StripAccents removes combining marks while preserving case.
// "Düsseldorf" becomes "Dusseldorf".
func StripAccents(text string) string {
	if text == "" {
		return ""
	}
	out, _, err := transform.String(stripMarks, text)
	if err != nil {
		// Only possible on invalid transformer state; fall back to raw text
		return text
	}
	return out
}

// Normalize converts text into its canonical search form: accents stripped
// and lowercased. The same function is applied to indexed names and to
// search terms so matching is case and accent insensitive.
func Normalize(text string) string {
	stripped := StripAccents(text)
	lower := strings.ToLower(stripped)
	if lower != stripped {
		// Lowercasing can introduce marks (U+0130 -> "i" + U+0307)
		lower = StripAccents(lower)
	}
	return lower
}

// searchable normalizes a search term and collapses runs of whitespace so
// it lines up with the space-joined tokens produced by Tokenize.
func searchable(term string) string {
	return strings.Join(strings.Fields(Normalize(term)), " ")
}
