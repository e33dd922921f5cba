package datetime

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"time"

	"github.com/az-ai-labs/ru-numtext/internal/rucase"
	"github.com/az-ai-labs/ru-numtext/numtext"
	"github.com/az-ai-labs/ru-numtext/tokenizer"
)

// wordSpan is a non-space token with its byte offsets.
type wordSpan struct {
	text  string              // original case from source
	key   string              // folded form for matching
	typ   tokenizer.TokenType // token class
	start int                 // byte offset (inclusive)
	end   int                 // byte offset (exclusive)
}

// extract is the internal implementation of Extract.
func extract(s string, ref time.Time) []Result {
	const minCap = 4
	all := make([]Result, 0, len(s)/100+minCap)

	words := splitWords(s)
	used := make([]bool, len(words))

	all = appendNumeric(all, s, ref)
	all = appendMonthDates(all, s, words, used, ref)
	all = appendRelative(all, s, words, used, ref)

	if len(all) == 0 {
		return nil
	}

	all = resolveOverlaps(all)
	all = mergeAdjacent(all, s)
	return all
}

// splitWords returns the non-space tokens of s.
func splitWords(s string) []wordSpan {
	toks := tokenizer.WordTokens(s)
	words := make([]wordSpan, 0, len(toks)/2+1)
	for _, t := range toks {
		if t.Type == tokenizer.Space {
			continue
		}
		words = append(words, wordSpan{
			text:  t.Text,
			key:   rucase.Fold(t.Text),
			typ:   t.Type,
			start: t.Start,
			end:   t.End,
		})
	}
	return words
}

// ---------- appendNumeric ----------

// Capture group indices for date regexes (1-based submatch positions).
const (
	grpFirst  = 1
	grpSecond = 2
	grpThird  = 3
)

// appendNumeric matches ISO and dotted dates and HH:MM(:SS) times.
func appendNumeric(all []Result, s string, ref time.Time) []Result {
	all = appendRegexDate(all, s, reISO, grpFirst, grpSecond, grpThird) // YYYY-MM-DD
	all = appendRegexDate(all, s, reDot, grpThird, grpSecond, grpFirst) // DD.MM.YYYY
	all = appendTimeFmt(all, s, ref)
	return all
}

// appendRegexDate extracts dates from s using re whose capture groups at
// yearIdx, monthIdx, dayIdx (1-based) hold year, month, and day strings.
func appendRegexDate(all []Result, s string, re *regexp.Regexp, yearIdx, monthIdx, dayIdx int) []Result {
	for _, m := range re.FindAllStringSubmatchIndex(s, -1) {
		year, err1 := strconv.Atoi(s[m[yearIdx*2]:m[yearIdx*2+1]])
		month, err2 := strconv.Atoi(s[m[monthIdx*2]:m[monthIdx*2+1]])
		day, err3 := strconv.Atoi(s[m[dayIdx*2]:m[dayIdx*2+1]])
		if err1 != nil || err2 != nil || err3 != nil || month < minMonth || month > maxMonth {
			continue
		}
		if !validDate(year, time.Month(month), day) {
			continue
		}
		all = append(all, Result{
			Text:     s[m[0]:m[1]],
			Start:    m[0],
			End:      m[1],
			Type:     TypeDate,
			Time:     time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC),
			Explicit: HasYear | HasMonth | HasDay,
		})
	}
	return all
}

func appendTimeFmt(all []Result, s string, ref time.Time) []Result {
	for _, m := range reTime.FindAllStringSubmatchIndex(s, -1) {
		hour, _ := strconv.Atoi(s[m[2]:m[3]])
		mn, _ := strconv.Atoi(s[m[4]:m[5]])
		sec := 0
		explicit := HasHour | HasMinute
		if m[6] != -1 {
			sec, _ = strconv.Atoi(s[m[6]:m[7]])
			explicit |= HasSecond
		}
		if hour > maxHour {
			continue
		}

		all = append(all, Result{
			Text:     s[m[0]:m[1]],
			Start:    m[0],
			End:      m[1],
			Type:     TypeTime,
			Time:     time.Date(ref.Year(), ref.Month(), ref.Day(), hour, mn, sec, 0, time.UTC),
			Explicit: explicit,
		})
	}
	return all
}

// validDate reports whether the calendar date exists (rejects "30 февраля").
func validDate(year int, month time.Month, day int) bool {
	if year < minYear || year > maxYear || day < minDay || day > maxDay {
		return false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return t.Day() == day && t.Month() == month
}

// ---------- appendMonthDates ----------

// appendMonthDates matches "<day> <month> [<year> [года]]" around every
// month name. A day or year is either digits or a spelled numeral phrase.
func appendMonthDates(all []Result, s string, words []wordSpan, used []bool, ref time.Time) []Result {
	for i, w := range words {
		if used[i] || w.typ != tokenizer.Word {
			continue
		}
		mo, literal := monthForms[w.key]
		if !literal {
			var ok bool
			if mo, ok = monthByStem(w.key); !ok {
				continue
			}
		}

		first, last := i, i
		explicit := HasMonth
		day, year := 1, ref.Year()

		if d, j, ok := dayBefore(words, used, i); ok {
			day, first = d, j
			explicit |= HasDay
		}
		if y, j, ok := yearAfter(words, i); ok {
			year, last = y, j
			explicit |= HasYear
		}

		// A stem-only match needs a day or year next to it.
		if !literal && explicit == HasMonth {
			continue
		}
		if !validDate(year, mo, day) {
			continue
		}

		for k := first; k <= last; k++ {
			used[k] = true
		}
		start, end := words[first].start, words[last].end
		all = append(all, Result{
			Text:     s[start:end],
			Start:    start,
			End:      end,
			Type:     TypeDate,
			Time:     time.Date(year, mo, day, 0, 0, 0, 0, time.UTC),
			Explicit: explicit,
		})
	}
	return all
}

// dayBefore reads a day number ending right before words[i]. It returns
// the day and the index of its first word.
func dayBefore(words []wordSpan, used []bool, i int) (day, first int, ok bool) {
	j := i - 1
	if j < 0 || used[j] {
		return 0, 0, false
	}
	w := words[j]

	// "5-го", "21-е"
	if w.typ == tokenizer.Word && daySuffixes[w.key] && j >= 2 && !used[j-2] &&
		words[j-1].text == "-" && words[j-2].typ == tokenizer.Number &&
		words[j-2].end == words[j-1].start && words[j-1].end == w.start {
		if d, ok := smallNumber(words[j-2].text); ok && d >= minDay && d <= maxDay {
			return d, j - 2, true
		}
		return 0, 0, false
	}

	if w.typ == tokenizer.Number {
		if d, ok := smallNumber(w.text); ok && d >= minDay && d <= maxDay {
			return d, j, true
		}
		return 0, 0, false
	}

	k := numeralRunStart(words, used, j, maxDayWords)
	for f := k; f <= j; f++ {
		if v, err := numtext.ParseSequence(keys(words[f : j+1])); err == nil && v >= minDay && v <= maxDay {
			return int(v), f, true
		}
	}
	return 0, 0, false
}

// yearAfter reads a year starting right after words[i], with an optional
// trailing "года"/"г." marker. It returns the year and the index of its
// last word.
func yearAfter(words []wordSpan, i int) (year, last int, ok bool) {
	j := i + 1
	if j >= len(words) {
		return 0, 0, false
	}

	if words[j].typ == tokenizer.Number {
		if len(words[j].text) != 4 { //nolint:mnd
			return 0, 0, false
		}
		y, err := strconv.Atoi(words[j].text)
		if err != nil || y < minYear || y > maxYear {
			return 0, 0, false
		}
		return y, yearMarkerEnd(words, j), true
	}

	end := j
	for end < len(words) && end-j < maxYearWords && isNumeral(words[end]) {
		end++
	}
	for e := end; e > j; e-- {
		v, err := numtext.ParseSequence(keys(words[j:e]))
		if err != nil || v < minYear || v > maxYear {
			continue
		}
		last := yearMarkerEnd(words, e-1)
		if v < minWordYear && last == e-1 {
			continue
		}
		return int(v), last, true
	}
	return 0, 0, false
}

// yearMarkerEnd extends a year ending at words[j] over "года", "г." etc.
func yearMarkerEnd(words []wordSpan, j int) int {
	if j+1 >= len(words) || !yearMarkers[words[j+1].key] {
		return j
	}
	j++
	if words[j].key == "г" && j+1 < len(words) && words[j+1].text == "." && words[j+1].start == words[j].end {
		j++
	}
	return j
}

// ---------- appendRelative ----------

// appendRelative matches offsets ("через три дня", "неделю назад") and
// single relative words ("завтра").
func appendRelative(all []Result, s string, words []wordSpan, used []bool, ref time.Time) []Result {
	// Pass 1: "через [N] <unit>"
	for i := range words {
		if used[i] || words[i].key != wordAfter {
			continue
		}
		qty, unitIdx, ok := quantityForward(words, used, i+1)
		if !ok {
			continue
		}
		all = appendOffset(all, s, words, used, i, unitIdx, applyQuantityOffset(ref, qty, quantityUnits[words[unitIdx].key]))
	}

	// Pass 2: "[N] <unit> назад"
	for i := range words {
		if used[i] || words[i].key != wordBefore || i == 0 || used[i-1] {
			continue
		}
		unit, ok := quantityUnits[words[i-1].key]
		if !ok {
			continue
		}
		qty, first := quantityBackward(words, used, i-1)
		all = appendOffset(all, s, words, used, first, i, applyQuantityOffset(ref, -qty, unit))
	}

	// Pass 3: single words
	for i, w := range words {
		if used[i] {
			continue
		}
		if offset, ok := dayOffsets[w.key]; ok {
			all = appendOffset(all, s, words, used, i, i, ref.AddDate(0, 0, offset))
		}
	}
	return all
}

func appendOffset(all []Result, s string, words []wordSpan, used []bool, first, last int, t time.Time) []Result {
	for k := first; k <= last; k++ {
		used[k] = true
	}
	start, end := words[first].start, words[last].end
	return append(all, Result{
		Text:     s[start:end],
		Start:    start,
		End:      end,
		Type:     TypeDate,
		Time:     time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
		Explicit: HasYear | HasMonth | HasDay,
	})
}

// quantityForward reads "[N] <unit>" starting at words[j]. A missing
// quantity means one: "через неделю".
func quantityForward(words []wordSpan, used []bool, j int) (qty, unitIdx int, ok bool) {
	if j >= len(words) || used[j] {
		return 0, 0, false
	}
	if _, isUnit := quantityUnits[words[j].key]; isUnit {
		return 1, j, true
	}
	if words[j].typ == tokenizer.Number {
		n, ok := smallNumber(words[j].text)
		if !ok || j+1 >= len(words) || used[j+1] {
			return 0, 0, false
		}
		if _, isUnit := quantityUnits[words[j+1].key]; !isUnit {
			return 0, 0, false
		}
		return n, j + 1, true
	}

	end := j
	for end < len(words) && end-j < maxQtyWords && !used[end] && isNumeral(words[end]) {
		end++
	}
	if end == j || end >= len(words) || used[end] {
		return 0, 0, false
	}
	if _, isUnit := quantityUnits[words[end].key]; !isUnit {
		return 0, 0, false
	}
	v, err := numtext.ParseSequence(keys(words[j:end]))
	if err != nil || v <= 0 || v > maxYear {
		return 0, 0, false
	}
	return int(v), end, true
}

// quantityBackward reads the quantity written before the unit at
// words[u]. It returns one and u when there is none: "неделю назад".
func quantityBackward(words []wordSpan, used []bool, u int) (qty, first int) {
	j := u - 1
	if j < 0 || used[j] {
		return 1, u
	}
	if words[j].typ == tokenizer.Number {
		if n, ok := smallNumber(words[j].text); ok {
			return n, j
		}
		return 1, u
	}
	k := numeralRunStart(words, used, j, maxQtyWords)
	for f := k; f <= j; f++ {
		if v, err := numtext.ParseSequence(keys(words[f : j+1])); err == nil && v > 0 && v <= maxYear {
			return int(v), f
		}
	}
	return 1, u
}

// applyQuantityOffset moves ref by qty units; negative qty goes back.
func applyQuantityOffset(ref time.Time, qty int, unit qtyUnit) time.Time {
	switch unit {
	case qtyWeek:
		return ref.AddDate(0, 0, qty*daysPerWeek)
	case qtyMonth:
		return ref.AddDate(0, qty, 0)
	case qtyYear:
		return ref.AddDate(qty, 0, 0)
	default:
		return ref.AddDate(0, 0, qty)
	}
}

// ---------- overlap resolution and merging ----------

// resolveOverlaps removes overlapping results. When two results overlap,
// the longer match wins. Ties broken by earlier start position.
// Returns results sorted by Start offset.
func resolveOverlaps(results []Result) []Result {
	if len(results) <= 1 {
		return results
	}

	slices.SortFunc(results, func(a, b Result) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		return cmp.Compare(b.End-b.Start, a.End-a.Start)
	})

	out := make([]Result, 0, len(results))
	maxEnd := 0
	for _, r := range results {
		if r.Start >= maxEnd {
			out = append(out, r)
			if len(out) >= maxResults {
				break
			}
			maxEnd = r.End
		}
	}
	return out
}

// mergeAdjacent combines a date and a time separated by at most
// maxMergeGap bytes into one TypeDateTime result.
func mergeAdjacent(results []Result, s string) []Result {
	if len(results) < 2 { //nolint:mnd
		return results
	}

	out := make([]Result, 0, len(results))
	i := 0
	for i < len(results) {
		if i+1 < len(results) {
			a, b := results[i], results[i+1]
			gap := b.Start - a.End
			if gap >= 0 && gap <= maxMergeGap {
				if merged, ok := tryMerge(a, b, s); ok {
					out = append(out, merged)
					i += 2
					continue
				}
			}
		}
		out = append(out, results[i])
		i++
	}
	return out
}

// tryMerge merges a date result and a time result into a datetime result.
func tryMerge(a, b Result, s string) (Result, bool) {
	var dateR, timeR Result
	switch {
	case a.Type == TypeDate && b.Type == TypeTime:
		dateR, timeR = a, b
	case a.Type == TypeTime && b.Type == TypeDate:
		timeR, dateR = a, b
	default:
		return Result{}, false
	}

	start := min(dateR.Start, timeR.Start)
	end := max(dateR.End, timeR.End)
	return Result{
		Text:  s[start:end],
		Start: start,
		End:   end,
		Type:  TypeDateTime,
		Time: time.Date(
			dateR.Time.Year(), dateR.Time.Month(), dateR.Time.Day(),
			timeR.Time.Hour(), timeR.Time.Minute(), timeR.Time.Second(),
			0, time.UTC,
		),
		Explicit: dateR.Explicit | timeR.Explicit,
	}, true
}

// ---------- word helpers ----------

// isNumeral reports whether w is a spelled numeral word.
func isNumeral(w wordSpan) bool {
	return w.typ == tokenizer.Word && numtext.IsNumeralWord(w.key)
}

// numeralRunStart walks back from words[j] over at most limit unused
// numeral words and returns the index of the first one, or j+1 if
// words[j] is not a numeral.
func numeralRunStart(words []wordSpan, used []bool, j, limit int) int {
	k := j
	for k >= 0 && j-k < limit && !used[k] && isNumeral(words[k]) {
		k--
	}
	return k + 1
}

func keys(words []wordSpan) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.key
	}
	return out
}

// smallNumber parses a digit token of at most four digits.
func smallNumber(s string) (int, bool) {
	if s == "" || len(s) > 4 { //nolint:mnd
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
