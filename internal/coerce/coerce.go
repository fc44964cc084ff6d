// Package coerce converts one raw string cell into a typed frame.Value.
//
// Checks run in fixed priority order; the first match wins:
//
//  1. empty            -> Null
//  2. "true"/"false"   -> Bool (case-insensitive)
//  3. numeric          -> Int or Float
//  4. date             -> Date (ISO, DD/MM/YYYY, DD-MM-YYYY)
//  5. anything else    -> Text, unmodified
//
// A failed parse is ordinary control flow, never an error: the value simply
// falls through to the next check. Because numbers are tried before dates,
// a bare year like "2024" coerces to a number; callers needing date
// semantics for bare years must pre-process.
package coerce

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tabular/pkg/frame"
)

// Options carry the caller-supplied locale hints. The zero value uses '.'
// as the decimal separator and treats ',' as a thousands separator.
type Options struct {
	// DecimalSeparator is the rune separating the integer and fractional
	// parts in the source data ("." or ","). Locale-ambiguous input that
	// does not come with this hint has undefined behavior: "1.234" parses
	// as an English decimal, never as German thousands.
	DecimalSeparator string
}

var numericRe = regexp.MustCompile(`^-?\d*\.?\d+$`)

// dateLayouts tried in order. ISO first so "2024-03-05" never matches the
// day-first layouts.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
}

// Value coerces one raw cell.
func Value(raw string, opt Options) frame.Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return frame.Null()
	}

	switch strings.ToLower(s) {
	case "true":
		return frame.BoolValue(true)
	case "false":
		return frame.BoolValue(false)
	}

	if v, ok := parseNumber(s, opt); ok {
		return v
	}

	if t, ok := parseDate(s); ok {
		return frame.DateValue(t)
	}

	return frame.TextValue(raw)
}

// parseNumber normalizes the configured decimal separator to '.', strips
// spaces and thousands separators, and accepts the result only if it
// matches the strict numeric shape and parses finite.
func parseNumber(s string, opt Options) (frame.Value, bool) {
	n := s
	if opt.DecimalSeparator == "," {
		// "1.234,56" style: dots group thousands, comma is decimal.
		n = strings.ReplaceAll(n, ".", "")
		n = strings.ReplaceAll(n, ",", ".")
	} else {
		n = strings.ReplaceAll(n, ",", "")
	}
	n = strings.ReplaceAll(n, " ", "")

	if !numericRe.MatchString(n) {
		return frame.Value{}, false
	}

	if !strings.Contains(n, ".") {
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return frame.IntValue(i), true
		}
		// Falls through for integers beyond int64 range.
	}
	f, err := strconv.ParseFloat(n, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return frame.Value{}, false
	}
	return frame.FloatValue(f), true
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
