package numtext

import (
	"errors"
	"fmt"
	"strings"

	"github.com/az-ai-labs/ru-numtext/internal/rucase"
)

// ErrUnknownNumeralWord is returned by WordValue and ParseSequence when a
// word is neither a cardinal nor a recognizable ordinal.
var ErrUnknownNumeralWord = errors.New("numtext: unknown numeral word")

// classify returns the category and value of an already folded word.
func classify(key string) (Category, int64) {
	if e, ok := cardinals[key]; ok {
		return e.category, e.value
	}
	if v, ok := ordinals[key]; ok {
		return OrdinalLiteral, v
	}
	if v, ok := deriveOrdinal(key); ok {
		return OrdinalDerived, v
	}
	return NotNumeral, 0
}

// normalizeOrdinal resolves a folded word to an ordinal value.
func normalizeOrdinal(key string) (int64, bool) {
	if v, ok := ordinals[key]; ok {
		return v, true
	}
	return deriveOrdinal(key)
}

// deriveOrdinal applies the first matching suffix rule and maps the
// resulting stem to a value.
func deriveOrdinal(key string) (int64, bool) {
	for _, rule := range suffixRules {
		if len(key) <= len(rule.suffix) || !strings.HasSuffix(key, rule.suffix) {
			continue
		}
		stem := key[:len(key)-len(rule.suffix)] + rule.replacement
		if v, ok := stems[stem]; ok {
			return v, true
		}
		if v, ok := irregular[stem]; ok {
			return v, true
		}
		return 0, false
	}
	return 0, false
}

// wordValue is the strict lookup behind WordValue.
func wordValue(word string) (int64, Category, error) {
	cat, v := classify(rucase.Fold(word))
	if cat == NotNumeral {
		return 0, NotNumeral, fmt.Errorf("%w: %q", ErrUnknownNumeralWord, word)
	}
	return v, cat, nil
}
