// Package textnorm canonicalizes raw text into comparable word tokens.
package textnorm

import (
	"strings"
	"unicode"
)

// Clean lowercases text, drops every rune that is not a letter a-z or
// whitespace (punctuation, digits and apostrophes all go), and collapses
// runs of whitespace into single spaces.
func Clean(text string) string {
	lower := strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokens normalizes text and splits it into an ordered token sequence.
// Duplicates are preserved; position is the slice index. An empty or
// all-punctuation input yields an empty slice.
func Tokens(text string) []string {
	return strings.Fields(Clean(text))
}
