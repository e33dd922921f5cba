// Package tokenizer splits Russian text into tokens with byte offsets.
//
// Two tokenizations are provided, both lossless: the invariant
// s[t.Start:t.End] == t.Text holds for every token, and concatenating all
// token texts reconstructs the original string.
//
//   - Fields splits on whitespace only: every maximal run of non-space runes
//     is one Word token, every maximal run of space runes is one Space token.
//     Punctuation stays attached to the neighbouring word ("сентября.").
//
//   - WordTokens runs a rune-level scanner that separates words, numbers,
//     punctuation and symbols, so "двадцать," yields Word and Punctuation.
//
// All functions are safe for concurrent use by multiple goroutines.
package tokenizer

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// wordsPerTokenEstimate is the estimated ratio of total tokens to word tokens,
// used to pre-allocate the words slice in the Words convenience function.
const wordsPerTokenEstimate = 2

// TokenType classifies a token.
type TokenType int

const (
	Word        TokenType = iota // Letters (any script), including inner hyphens and apostrophes
	Number                       // Digits, with an optional decimal comma
	Punctuation                  // Punctuation marks: . , ! ? : ; ( ) etc.
	Space                        // Contiguous whitespace (spaces, tabs, newlines)
	Symbol                       // Everything else: emoji, mathematical symbols, etc.
)

// String returns the name of the token type.
func (t TokenType) String() string {
	switch t {
	case Word:
		return "Word"
	case Number:
		return "Number"
	case Punctuation:
		return "Punctuation"
	case Space:
		return "Space"
	case Symbol:
		return "Symbol"
	default:
		return fmt.Sprintf("TokenType(%d)", int(t))
	}
}

// Token represents a unit of text with its position and classification.
type Token struct {
	Text  string    // The token text
	Start int       // Byte offset in the original string (inclusive)
	End   int       // Byte offset in the original string (exclusive)
	Type  TokenType // Classification of the token
}

// String returns a debug representation, e.g. Word("сто")[0:6].
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)[%d:%d]", t.Type, t.Text, t.Start, t.End)
}

// Fields splits s into alternating non-space (Word) and space (Space) runs.
// Returns nil for empty input.
func Fields(s string) []Token {
	if s == "" {
		return nil
	}
	tokens := make([]Token, 0, len(s)/4+1)

	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		space := unicode.IsSpace(r)
		start := i
		i += size
		for i < len(s) {
			nr, ns := utf8.DecodeRuneInString(s[i:])
			if unicode.IsSpace(nr) != space {
				break
			}
			i += ns
		}
		typ := Word
		if space {
			typ = Space
		}
		tokens = append(tokens, Token{Text: s[start:i], Start: start, End: i, Type: typ})
	}
	return tokens
}

// WordTokens splits text into Word, Number, Punctuation, Space and Symbol
// tokens. Returns nil for empty input.
func WordTokens(s string) []Token {
	if s == "" {
		return nil
	}
	return wordTokens(s)
}

// Words returns only Word-type token texts from the text, as produced by
// WordTokens.
func Words(s string) []string {
	if s == "" {
		return nil
	}
	tokens := wordTokens(s)
	words := make([]string, 0, len(tokens)/wordsPerTokenEstimate)
	for _, t := range tokens {
		if t.Type == Word {
			words = append(words, t.Text)
		}
	}
	return words
}

// Join concatenates token texts. Join(Fields(s)) == s and
// Join(WordTokens(s)) == s for every s.
func Join(tokens []Token) string {
	n := 0
	for _, t := range tokens {
		n += len(t.Text)
	}
	b := make([]byte, 0, n)
	for _, t := range tokens {
		b = append(b, t.Text...)
	}
	return string(b)
}
