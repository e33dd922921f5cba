package numtext

import (
	"strings"
	"testing"
)

// FuzzConvertText verifies that ConvertText never panics, is idempotent and
// leaves text without numeral runs untouched.
func FuzzConvertText(f *testing.F) {
	f.Add("")
	f.Add("сто двадцать пять")
	f.Add("привет сто двадцать пять потом проверка двадцать семь")
	f.Add("двадцать первое сентября")
	f.Add("миллиардный миллиардный миллиард")
	f.Add("Итого: двадцать пять, а не тридцать.")
	f.Add("  \t\n  ")
	f.Add("\xff\xfe")
	f.Add("пёрвый")
	f.Add(string([]byte{0x00}))

	f.Fuzz(func(t *testing.T, s string) {
		out := ConvertText(s)
		if again := ConvertText(out); again != out {
			t.Errorf("ConvertText not idempotent on %q: %q -> %q", s, out, again)
		}
		if len(Find(s)) == 0 && out != s {
			t.Errorf("ConvertText(%q) = %q with no runs found", s, out)
		}
	})
}

// FuzzConvertPunctuationSplit verifies the punctuation-aware mode never panics.
func FuzzConvertPunctuationSplit(f *testing.F) {
	f.Add("двадцать пять,")
	f.Add("«сто»")
	f.Add("3,14 и пять")
	f.Add("\xff")

	c := New(WithPunctuationSplit(true))
	f.Fuzz(func(t *testing.T, s string) {
		_ = c.Convert(s)
	})
}

// FuzzParseSequence verifies that results stay within [0, MaxValue].
func FuzzParseSequence(f *testing.F) {
	f.Add("сто двадцать пять")
	f.Add("миллиард миллиард миллиард")
	f.Add("тысяча тысяча тысяча тысяча тысяча тысяча тысяча")
	f.Add("кот")
	f.Add("")

	f.Fuzz(func(t *testing.T, s string) {
		v, err := ParseSequence(strings.Fields(s))
		if err == nil && (v < 0 || v > MaxValue) {
			t.Errorf("ParseSequence(%q) = %d, outside [0, MaxValue]", s, v)
		}
	})
}

// FuzzNormalizeOrdinal verifies that NormalizeOrdinal never panics.
func FuzzNormalizeOrdinal(f *testing.F) {
	f.Add("первый")
	f.Add("двадцатую")
	f.Add("ой")
	f.Add("\xff")

	f.Fuzz(func(t *testing.T, s string) {
		_, _ = NormalizeOrdinal(s)
		_, _ = Classify(s)
	})
}
