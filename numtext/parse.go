// Sequence composition for Russian numeral words.
package numtext

import (
	"errors"
	"fmt"
	"strings"

	"github.com/az-ai-labs/ru-numtext/internal/rucase"
)

// ErrOutOfRange is returned when a sequence would exceed MaxValue.
var ErrOutOfRange = errors.New("numtext: out of range")

// parseSequence composes words left to right.
//
// Every non-scale word adds its value to the pending group: place value is
// already carried by the word itself (триста=300, двадцать=20, пять=5).
// A scale word multiplies the pending group into the total and resets it;
// an empty group counts as 1, so a bare "тысяча" is 1000. No ordering of
// hundreds, tens and units is enforced: "три три" is 6.
func parseSequence(words []string) (int64, error) {
	var (
		total int64 // sum of groups already multiplied by a scale word
		group int64 // additive accumulator for the group under construction
	)

	for _, w := range words {
		val, cat, err := wordValue(w)
		if err != nil {
			return 0, err
		}

		if cat == Scale {
			if group == 0 {
				group = 1
			}
			if group > MaxValue/val {
				return 0, fmt.Errorf("%w: %q", ErrOutOfRange, w)
			}
			product := group * val
			if total > MaxValue-product {
				return 0, fmt.Errorf("%w: %q", ErrOutOfRange, w)
			}
			total += product
			group = 0
			continue
		}

		if group > MaxValue-val {
			return 0, fmt.Errorf("%w: %q", ErrOutOfRange, w)
		}
		group += val
	}

	if total > MaxValue-group {
		return 0, ErrOutOfRange
	}
	return total + group, nil
}

// parsePhrase is the lenient phrase probe used by the scanner: it reports
// false instead of returning an error.
func parsePhrase(phrase string) (int64, bool) {
	words := strings.Fields(phrase)
	if len(words) == 0 {
		return 0, false
	}
	found := false
	for _, w := range words {
		if cat, _ := classify(rucase.Fold(w)); cat != NotNumeral {
			found = true
			break
		}
	}
	if !found {
		return 0, false
	}
	v, err := parseSequence(words)
	if err != nil {
		return 0, false
	}
	return v, true
}
