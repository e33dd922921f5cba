// Greedy longest-match scanning and text rewriting.
package numtext

import (
	"strconv"
	"strings"

	"github.com/az-ai-labs/ru-numtext/internal/rucase"
	"github.com/az-ai-labs/ru-numtext/tokenizer"
)

// maxRunWords bounds how far a single window may grow. It is a resource
// guard: probing is quadratic in the window length, so a run longer than
// this is knowingly split into consecutive replacements instead of being
// read as one number.
const maxRunWords = 1024

// Replacement describes one numeral run found in the input.
type Replacement struct {
	FirstToken int    `json:"first_token"` // Index of the first replaced token
	LastToken  int    `json:"last_token"`  // Index of the last replaced token (inclusive)
	Start      int    `json:"start"`       // Byte offset in the input (inclusive)
	End        int    `json:"end"`         // Byte offset in the input (exclusive)
	Text       string `json:"text"`        // Original surface text of the run
	Value      int64  `json:"value"`       // Resolved integer value
}

// candidate is a non-space token eligible to start or extend a run.
type candidate struct {
	tok int    // index into the token list
	key string // folded surface form
}

// tokenize splits s according to the converter's tokenization mode.
func (c *Converter) tokenize(s string) []tokenizer.Token {
	if c.splitPunctuation {
		return tokenizer.WordTokens(s)
	}
	return tokenizer.Fields(s)
}

// find scans tokens for numeral runs. A panic during the scan is recovered:
// runs accepted before it are still returned.
func (c *Converter) find(s string, tokens []tokenizer.Token) (reps []Replacement) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("numtext: scan aborted", "panic", r, "accepted", len(reps))
		}
	}()

	cands := make([]candidate, 0, len(tokens)/2+1)
	for i, t := range tokens {
		if t.Type != tokenizer.Space {
			cands = append(cands, candidate{tok: i, key: rucase.Fold(t.Text)})
		}
	}

	var phrase strings.Builder
	i := 0
	for i < len(cands) {
		best := -1
		var bestValue int64

		phrase.Reset()
		for j := i; j < len(cands) && j-i < maxRunWords; j++ {
			if !isNumeralKey(cands[j].key) {
				break
			}
			if j > i {
				phrase.WriteByte(' ')
			}
			phrase.WriteString(cands[j].key)

			// A failed probe does not end the window; only a word that is
			// not a numeral does.
			if v, ok := c.cache.parse(phrase.String()); ok {
				best, bestValue = j, v
			}
		}

		if best < 0 {
			i++
			continue
		}

		first, last := tokens[cands[i].tok], tokens[cands[best].tok]
		reps = append(reps, Replacement{
			FirstToken: cands[i].tok,
			LastToken:  cands[best].tok,
			Start:      first.Start,
			End:        last.End,
			Text:       s[first.Start:last.End],
			Value:      bestValue,
		})
		c.logger.Debug("numtext: run accepted", "text", s[first.Start:last.End], "value", bestValue)
		i = best + 1
	}
	return reps
}

// isNumeralKey reports whether an already folded word is a numeral word.
func isNumeralKey(key string) bool {
	if _, ok := cardinals[key]; ok {
		return true
	}
	_, ok := normalizeOrdinal(key)
	return ok
}

// splice writes s with every replacement's byte span substituted by the
// decimal form of its value. reps must be ordered and non-overlapping.
func splice(s string, reps []Replacement) string {
	var b strings.Builder
	b.Grow(len(s))
	var num [20]byte
	prev := 0
	for _, r := range reps {
		b.WriteString(s[prev:r.Start])
		b.Write(strconv.AppendInt(num[:0], r.Value, 10))
		prev = r.End
	}
	b.WriteString(s[prev:])
	return b.String()
}
