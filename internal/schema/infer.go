package schema

import (
	"regexp"
	"time"

	"tabular/pkg/frame"
)

// Text sub-classification patterns. Currency accepts a leading or trailing
// symbol next to digits; percent is digits (with optional fraction) plus '%'.
var (
	currencyRe = regexp.MustCompile(`^[$€£¥]\s?-?\d[\d,.]*$|^-?\d[\d,.]*\s?[$€£¥]$`)
	percentRe  = regexp.MustCompile(`^[\d.]+%$`)
)

// dateStringLayouts cover date shapes the coercer does not claim, e.g.
// dotted European dates. datetimeLayouts cover timestamp strings.
var dateStringLayouts = []string{
	"2006/01/02",
	"02.01.2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04:05",
}

// low-cardinality reclassification thresholds: a pure-string column becomes
// category when distinct/nonNull < categoryMaxRatio over more than
// categoryMinValues non-null values.
const (
	categoryMaxRatio  = 0.1
	categoryMinValues = 10
)

// InferType aggregates one column's coerced values into a single DataType.
//
// Algorithm:
//  1. Nulls are dropped; an all-null column is declared String.
//  2. Each value lands in a primitive bucket (Boolean, Integer, Float,
//     Date) or, for text, a sub-classified bucket (Currency, Percent,
//     Date, DateTime, String).
//  3. Integer+Float collapse to Float (numeric widening).
//  4. A pure-string column with low distinct ratio becomes Category.
//  5. More than one surviving bucket means Mixed.
func InferType(values []frame.Value) DataType {
	buckets := make(map[DataType]struct{})

	nonNull := 0
	distinct := make(map[string]struct{})

	for _, v := range values {
		if v.IsNull() {
			continue
		}
		nonNull++

		switch v.Kind {
		case frame.KindBool:
			buckets[Boolean] = struct{}{}
		case frame.KindInt:
			buckets[Integer] = struct{}{}
		case frame.KindFloat:
			buckets[Float] = struct{}{}
		case frame.KindDate:
			buckets[Date] = struct{}{}
		case frame.KindText:
			bucket := classifyText(v.Text)
			buckets[bucket] = struct{}{}
			if bucket == String {
				distinct[v.Text] = struct{}{}
			}
		}
	}

	if nonNull == 0 {
		return String
	}

	// Numeric widening: a column mixing ints and floats is a float column.
	if _, hasInt := buckets[Integer]; hasInt {
		if _, hasFloat := buckets[Float]; hasFloat {
			delete(buckets, Integer)
		}
	}

	if len(buckets) > 1 {
		return Mixed
	}

	for t := range buckets {
		if t == String && nonNull > categoryMinValues {
			ratio := float64(len(distinct)) / float64(nonNull)
			if ratio < categoryMaxRatio {
				return Category
			}
		}
		return t
	}
	return String
}

func classifyText(s string) DataType {
	if currencyRe.MatchString(s) {
		return Currency
	}
	if percentRe.MatchString(s) {
		return Percent
	}
	for _, layout := range datetimeLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return DateTime
		}
	}
	for _, layout := range dateStringLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return Date
		}
	}
	return String
}
