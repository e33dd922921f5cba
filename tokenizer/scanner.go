package tokenizer

import (
	"unicode"
	"unicode/utf8"
)

// wordTokens splits s into tokens using a rune-by-rune state machine.
// The caller guarantees s is non-empty.
//
// Rule priority (highest first):
//   - Whitespace runs
//   - Number (digits with an optional decimal comma)
//   - Word (letters, joined across a single hyphen or apostrophe)
//   - Punctuation (runs of '-' merge, everything else is one rune)
//   - Symbol fallback
func wordTokens(s string) []Token {
	tokens := make([]Token, 0, len(s)/4+1)

	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])

		if unicode.IsSpace(r) {
			start := i
			i += size
			for i < len(s) {
				nr, ns := utf8.DecodeRuneInString(s[i:])
				if !unicode.IsSpace(nr) {
					break
				}
				i += ns
			}
			tokens = append(tokens, Token{Text: s[start:i], Start: start, End: i, Type: Space})
			continue
		}

		if unicode.IsDigit(r) {
			tok := scanNumber(s, i)
			tokens = append(tokens, tok)
			i = tok.End
			continue
		}

		if unicode.IsLetter(r) {
			tok := scanWord(s, i)
			tokens = append(tokens, tok)
			i = tok.End
			continue
		}

		if unicode.IsPunct(r) {
			start := i
			i += size
			if r == '-' {
				for i < len(s) && s[i] == '-' {
					i++
				}
			}
			tokens = append(tokens, Token{Text: s[start:i], Start: start, End: i, Type: Punctuation})
			continue
		}

		tokens = append(tokens, Token{Text: s[i : i+size], Start: i, End: i + size, Type: Symbol})
		i += size
	}

	return tokens
}

// scanNumber reads a run of ASCII digits starting at pos, extended by a
// decimal comma when at least one digit follows it.
func scanNumber(s string, pos int) Token {
	i := pos
	for i < len(s) && isDigitByte(s[i]) {
		i++
	}
	if i == pos {
		// Non-ASCII digit (e.g. Arabic-Indic): consume one rune.
		_, size := utf8.DecodeRuneInString(s[pos:])
		i = pos + size
	}
	if i+1 < len(s) && s[i] == ',' && isDigitByte(s[i+1]) {
		i++
		for i < len(s) && isDigitByte(s[i]) {
			i++
		}
	}
	return Token{Text: s[pos:i], Start: pos, End: i, Type: Number}
}

// scanWord reads a word token starting at pos. A word is a run of letters
// that may continue across a single hyphen ("сорок-пятый") or apostrophe
// when a letter follows it.
func scanWord(s string, pos int) Token {
	i := consumeLetters(s, pos)

	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r != '-' && r != '\'' && r != '’' {
			break
		}
		next := i + size
		if next >= len(s) {
			break
		}
		nr, _ := utf8.DecodeRuneInString(s[next:])
		if !unicode.IsLetter(nr) {
			break
		}
		i = consumeLetters(s, next)
	}

	return Token{Text: s[pos:i], Start: pos, End: i, Type: Word}
}

// consumeLetters returns the offset just past the run of letters at pos.
func consumeLetters(s string, pos int) int {
	for pos < len(s) {
		r, size := utf8.DecodeRuneInString(s[pos:])
		if !unicode.IsLetter(r) {
			break
		}
		pos += size
	}
	return pos
}

// isDigitByte returns true for ASCII digit bytes.
func isDigitByte(b byte) bool {
	return b >= '0' && b <= '9'
}
