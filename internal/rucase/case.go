// Package rucase provides Russian case folding for dictionary lookups.
//
// Folding lowercases every rune with standard Unicode mapping and merges
// ё into е, so that "Четвёртый", "ЧЕТВЕРТЫЙ" and "четвертый" share one key.
// Decomposed input (и + U+0306, е + U+0308) is composed first.
//
// All functions are safe for concurrent use.
package rucase

import (
	"strings"
	"unicode"
)

// Lower returns the folded lowercase form of r.
func Lower(r rune) rune {
	switch r {
	case 'Ё', 'ё':
		return 'е'
	default:
		return unicode.ToLower(r)
	}
}

// Fold returns s composed to NFC, trimmed of surrounding whitespace and
// folded rune by rune with Lower.
func Fold(s string) string {
	s = strings.TrimSpace(ComposeNFC(s))
	if isFolded(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		b.WriteRune(Lower(r))
	}
	return b.String()
}

// isFolded reports whether Fold would leave s unchanged.
func isFolded(s string) bool {
	for _, r := range s {
		if Lower(r) != r {
			return false
		}
	}
	return true
}
