package datetime

import (
	"strings"
	"sync"
	"testing"
	"time"
)

var fuzzRef = time.Date(2026, 2, 20, 10, 30, 0, 0, time.UTC)

func FuzzExtract(f *testing.F) {
	seeds := []string{
		// Natural text
		"5 мая 2024 года",
		"двадцать первое сентября",
		"первого января две тысячи двадцать пятого года",
		"5-го марта",
		"в марте",
		"2020 г.",
		// Numeric
		"2026-03-05",
		"05.03.2026",
		"14:30",
		"09:05:22",
		// Relative
		"сегодня",
		"послезавтра",
		"через три дня",
		"две недели назад",
		"через неделю",
		// Combined
		"5 мая в 10:30",
		// Edge cases
		"",
		"абв где",
		"32 марта 2026",
		"25:99",
		"\xff\xfe",
		"\x00завтра\x00",
		"\xD0",
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, s string) {
		results := Extract(s, fuzzRef)

		prevEnd := 0
		for _, r := range results {
			if r.Start < 0 || r.End > len(s) || r.Start > r.End {
				t.Errorf("invalid offsets: Start=%d End=%d len=%d", r.Start, r.End, len(s))
				continue
			}
			if s[r.Start:r.End] != r.Text {
				t.Errorf("offset invariant: s[%d:%d]=%q != Text=%q", r.Start, r.End, s[r.Start:r.End], r.Text)
			}
			if r.Start < prevEnd {
				t.Errorf("overlapping results at %d", r.Start)
			}
			prevEnd = r.End

			if r.Type < TypeDate || r.Type > TypeDateTime {
				t.Errorf("invalid type: %d", r.Type)
			}
			if r.Time.Location() != time.UTC {
				t.Errorf("non-UTC time: %v", r.Time.Location())
			}
		}

		_, _ = Parse(s, fuzzRef)
	})
}

// TestOversizedInput verifies that inputs exceeding maxInputBytes are rejected.
func TestOversizedInput(t *testing.T) {
	huge := strings.Repeat("а", maxInputBytes/2+1)
	if got := Extract(huge, fuzzRef); got != nil {
		t.Errorf("want nil for oversized input, got %d results", len(got))
	}

	if _, err := Parse(huge, fuzzRef); err == nil {
		t.Error("Parse: want error for oversized input, got nil")
	}
}

// TestExactlyMaxInput verifies that inputs at exactly maxInputBytes are processed.
func TestExactlyMaxInput(t *testing.T) {
	date := "2026-03-05"
	input := date + strings.Repeat(" ", maxInputBytes-len(date))

	if len(input) != maxInputBytes {
		t.Fatalf("test setup: len=%d, want %d", len(input), maxInputBytes)
	}

	got := Extract(input, fuzzRef)
	if len(got) != 1 || got[0].Type != TypeDate {
		t.Errorf("want 1 TypeDate result for max-size input, got %v", got)
	}
}

// TestReDoSResistance verifies patterns complete quickly on adversarial input.
func TestReDoSResistance(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"repeated digits with dots", strings.Repeat("12.34.", 5000)},
		{"repeated colons", strings.Repeat("12:34:", 5000)},
		{"repeated dashes", strings.Repeat("2026-01-", 5000)},
		{"repeated month words", strings.Repeat("мая ", 5000)},
		{"repeated numerals", strings.Repeat("двадцать ", 5000)},
		{"repeated offsets", strings.Repeat("через ", 5000)},
		{"long digit sequence", strings.Repeat("1234567890", 5000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			_ = Extract(tt.input, fuzzRef)
			elapsed := time.Since(start)

			const maxDuration = 2 * time.Second
			if elapsed > maxDuration {
				t.Errorf("took %v, exceeds %v limit", elapsed, maxDuration)
			}
		})
	}
}

// TestConcurrentSafety verifies the package is safe for concurrent use.
func TestConcurrentSafety(t *testing.T) {
	inputs := []string{
		"5 мая 2024 года",
		"2026-03-05",
		"14:30",
		"завтра",
		"через три дня",
	}

	var wg sync.WaitGroup
	const goroutines = 100

	for range goroutines {
		wg.Go(func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("panic in concurrent call: %v", r)
				}
			}()
			for j := range 100 {
				_ = Extract(inputs[j%len(inputs)], fuzzRef)
			}
		})
	}

	wg.Wait()
}

// TestMalformedUTF8 verifies handling of invalid UTF-8 sequences.
func TestMalformedUTF8(t *testing.T) {
	inputs := []string{
		"\xFF\xFE мая 2026",
		"5 \xC0\x80 мая",
		"завтра\xFF",
		"\xD0", // truncated multibyte
		"5\x00мая\x002026",
	}

	for _, in := range inputs {
		t.Run("", func(t *testing.T) {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Extract(%q) panicked: %v", in, r)
				}
			}()
			_ = Extract(in, fuzzRef)
		})
	}
}
