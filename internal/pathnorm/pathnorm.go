// Package pathnorm builds the lookup keys used by the song cache and the
// fuzzy matcher. Both functions are pure.
package pathnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Path folds Windows separators so that playlist entries and server paths
// share one key space.
func Path(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// Text lower-cases s, strips diacritics and drops everything outside
// [a-z0-9] and whitespace. "Café – Déjà Vu!" becomes "cafe  deja vu".
func Text(s string) string {
	if s == "" {
		return ""
	}

	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}
