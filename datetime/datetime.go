// Package datetime extracts Russian date and time expressions from text.
//
// Recognized forms:
//
//   - Month-based dates with spelled or digit days and years:
//     "двадцать первое сентября", "5 мая 2024 года",
//     "первого января две тысячи двадцать пятого года", "в марте".
//   - Numeric dates "05.03.2026" and "2026-03-05", clock times "10:30".
//   - Relative words: сегодня, завтра, вчера, послезавтра, позавчера.
//   - Offsets: "через три дня", "две недели назад", "через год".
//
// Spelled numbers are resolved with the numtext package, so every numeral
// form it accepts (cardinal or ordinal, any case) works as a day or year.
// Month names are matched by their inflected forms and, next to a day or
// year, by Russian Snowball stem.
//
// Two API layers are provided:
//
//   - Extract returns []Result with byte offsets for scanning running text.
//   - Parse returns a single Result for an isolated expression.
//
// Relative and partial expressions are resolved against a reference time.
// When ref is the zero value, time.Now().UTC() is used. Returned times are
// in UTC.
//
// All functions are safe for concurrent use by multiple goroutines.
//
// Known limitations:
//
//   - Weekday names and spelled clock times ("в семь вечера") are not
//     recognized.
//   - A day phrase is read backwards from the month over at most three
//     numeral words, so "пять первого мая" resolves to the sixth.
package datetime

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors returned by Parse.
var (
	ErrEmptyInput    = errors.New("datetime: empty input")
	ErrInputTooLarge = errors.New("datetime: input too large")
	ErrUnrecognized  = errors.New("datetime: unrecognized input")
)

// Type classifies the kind of expression that was parsed.
type Type int

const (
	TypeDate     Type = iota // Only date components (year, month, day)
	TypeTime                 // Only time components (hour, minute, second)
	TypeDateTime             // Both date and time components
)

var typeNames = [...]string{
	TypeDate:     "Date",
	TypeTime:     "Time",
	TypeDateTime: "DateTime",
}

var typeFromName = map[string]Type{
	"Date":     TypeDate,
	"Time":     TypeTime,
	"DateTime": TypeDateTime,
}

// String returns the name of the type.
func (t Type) String() string {
	if int(t) >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// MarshalJSON encodes the type as a JSON string (e.g. "Date").
func (t Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a JSON string (e.g. "Date") into a Type.
func (t *Type) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	tt, ok := typeFromName[s]
	if !ok {
		const maxErrLen = 50
		if len(s) > maxErrLen {
			s = s[:maxErrLen] + "..."
		}
		return fmt.Errorf("datetime: unknown type: %q", s)
	}
	*t = tt
	return nil
}

// Components is a bitmask indicating which fields were explicitly present
// in the input (vs. inferred from the reference time).
type Components uint8

const (
	HasYear Components = 1 << iota
	HasMonth
	HasDay
	HasHour
	HasMinute
	HasSecond
)

// String returns a debug representation of the bitmask, e.g. "YMD".
func (c Components) String() string {
	var parts []byte
	for _, f := range []struct {
		bit  Components
		name byte
	}{
		{HasYear, 'Y'}, {HasMonth, 'M'}, {HasDay, 'D'},
		{HasHour, 'h'}, {HasMinute, 'm'}, {HasSecond, 's'},
	} {
		if c&f.bit != 0 {
			parts = append(parts, f.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return string(parts)
}

// Result is a parsed expression with its position in the source text.
type Result struct {
	Text     string     `json:"text"`     // The matched substring
	Start    int        `json:"start"`    // Byte offset in the original string (inclusive)
	End      int        `json:"end"`      // Byte offset in the original string (exclusive)
	Type     Type       `json:"type"`     // Classification of the expression
	Time     time.Time  `json:"time"`     // Resolved point in time
	Explicit Components `json:"explicit"` // Which components came from input vs. ref
}

// String returns a debug representation, e.g. Date("5 мая")[0:9].
func (r Result) String() string {
	return fmt.Sprintf("%s(%q)[%d:%d]", r.Type, r.Text, r.Start, r.End)
}

// Extract finds all date and time spans in s, resolved against ref.
// Returns nil for empty or oversized input.
func Extract(s string, ref time.Time) []Result {
	if s == "" || len(s) > maxInputBytes {
		return nil
	}
	if ref.IsZero() {
		ref = time.Now().UTC()
	}
	return extract(s, ref)
}

// Parse parses a single expression from s and returns the first match.
func Parse(s string, ref time.Time) (Result, error) {
	if s == "" {
		return Result{}, ErrEmptyInput
	}
	if len(s) > maxInputBytes {
		return Result{}, fmt.Errorf("%w: %d bytes exceeds %d", ErrInputTooLarge, len(s), maxInputBytes)
	}
	if ref.IsZero() {
		ref = time.Now().UTC()
	}
	results := extract(s, ref)
	if len(results) == 0 {
		return Result{}, fmt.Errorf("%w: %q", ErrUnrecognized, truncate(s))
	}
	return results[0], nil
}

func truncate(s string) string {
	const maxErrLen = 50
	if len(s) <= maxErrLen {
		return s
	}
	return s[:maxErrLen] + "..."
}
