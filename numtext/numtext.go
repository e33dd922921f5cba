// Package numtext recognizes Russian numeral phrases in running text and
// rewrites them as decimal digits.
//
// The package works at three levels:
//
//   - Word: IsNumeralWord, Classify, NormalizeOrdinal and WordValue decide
//     whether a single word is a cardinal ("двадцать", "тысячи") or an
//     ordinal in any gender, number or case ("первое", "сотым").
//   - Sequence: ParseSequence composes a list of numeral words into one
//     integer ("пять миллионов шестьсот тысяч" → 5600000).
//   - Text: ConvertText finds the longest numeral run starting at each word
//     and replaces it with its value, leaving everything else, including
//     whitespace, byte-for-byte unchanged:
//
//     "двадцать первое сентября" → "21 сентября"
//
// Matching is case-insensitive and treats ё and е as the same letter.
// Composition is permissive: words are summed within a group and groups are
// multiplied by scale words without checking grammatical order, so
// "один два три четыре" reads as 10.
//
// All functions and Converter methods are safe for concurrent use by
// multiple goroutines.
//
// Known limitations:
//
//   - Values are limited to math.MaxInt64; a run that would exceed it is
//     split at the longest prefix that fits.
//   - Words are separated by Unicode white space (unicode.IsSpace). The
//     ASCII separators U+001C through U+001F are not white space here, so
//     "один\x1fдва" is a single non-numeral token.
//   - Cardinal words are matched in the nominative forms only, except for
//     the scale nouns, which are matched in every case.
//   - Ordinals above 19th are recognized through a fixed stem table; compound
//     ordinals such as "двухтысячный" are not.
package numtext

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/az-ai-labs/ru-numtext/internal/rucase"
)

// ErrEmptyInput is returned by ParseSequence for an empty word list.
var ErrEmptyInput = errors.New("numtext: empty input")

// IsNumeralWord reports whether word is a cardinal or ordinal numeral word.
func IsNumeralWord(word string) bool {
	return isNumeralKey(rucase.Fold(word))
}

// Classify returns the lexical category of word and, unless the category
// is NotNumeral, its value.
func Classify(word string) (Category, int64) {
	return classify(rucase.Fold(word))
}

// NormalizeOrdinal returns the value of an ordinal word. Literal table forms
// ("третьего") are looked up directly; other forms are reduced by suffix
// stripping to a stem ("двадцатую" → "двадцат" → 20).
// The second result is false when word is not an ordinal.
func NormalizeOrdinal(word string) (int64, bool) {
	return normalizeOrdinal(rucase.Fold(word))
}

// WordValue returns the value of a single numeral word.
// Returns an error wrapping ErrUnknownNumeralWord if word is not a numeral.
func WordValue(word string) (int64, error) {
	v, _, err := wordValue(word)
	return v, err
}

// ParseSequence composes numeral words into one integer.
// Returns ErrEmptyInput for an empty list, an error wrapping
// ErrUnknownNumeralWord for a non-numeral word, and an error wrapping
// ErrOutOfRange if the value exceeds MaxValue.
func ParseSequence(words []string) (int64, error) {
	if len(words) == 0 {
		return 0, ErrEmptyInput
	}
	return parseSequence(words)
}

// ParsePhrase parses whitespace-separated numeral words.
// The second result is false for empty input, input with no numeral word,
// or input that does not parse.
func ParsePhrase(phrase string) (int64, bool) {
	return parsePhrase(phrase)
}

// Converter rewrites numeral runs in text. It owns a bounded phrase cache;
// the zero value is not usable, construct one with New.
type Converter struct {
	cache            *phraseCache
	splitPunctuation bool
	logger           *slog.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithCacheSize bounds the phrase cache to n entries. Zero or a negative n
// disables caching; results are identical either way.
func WithCacheSize(n int) Option {
	return func(c *Converter) {
		c.cache = newPhraseCache(n)
	}
}

// WithPunctuationSplit makes the converter separate punctuation from words,
// so "двадцать пять," becomes "25,". By default tokens are whitespace-delimited
// and a word with attached punctuation is not a numeral.
func WithPunctuationSplit(on bool) Option {
	return func(c *Converter) {
		c.splitPunctuation = on
	}
}

// WithLogger sets the logger for scan diagnostics. Accepted runs are logged
// at debug level, recovered faults at error level.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a Converter with a DefaultCacheSize phrase cache.
func New(opts ...Option) *Converter {
	c := &Converter{
		cache:  newPhraseCache(DefaultCacheSize),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert returns text with every numeral run replaced by its decimal value.
// Empty and all-whitespace input is returned unchanged. Convert never fails:
// text with no recognizable numerals comes back as is.
func (c *Converter) Convert(text string) string {
	out, _ := c.Rewrite(text)
	return out
}

// Rewrite returns the converted text together with the replacements that
// produced it, scanning text once.
func (c *Converter) Rewrite(text string) (string, []Replacement) {
	reps := c.Find(text)
	if len(reps) == 0 {
		return text, nil
	}
	return splice(text, reps), reps
}

// Find returns the numeral runs Convert would replace, in text order.
func (c *Converter) Find(text string) []Replacement {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return c.find(text, c.tokenize(text))
}

// CachedPhrases reports how many phrase results are currently cached.
func (c *Converter) CachedPhrases() int {
	return c.cache.len()
}

var defaultConverter = New()

// ConvertText rewrites text with a shared default Converter.
func ConvertText(text string) string {
	return defaultConverter.Convert(text)
}

// Find returns the numeral runs in text using the shared default Converter.
func Find(text string) []Replacement {
	return defaultConverter.Find(text)
}
