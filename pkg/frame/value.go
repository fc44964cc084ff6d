// Package frame defines the engine's columnar in-memory table and the tagged
// cell value that every parser produces and every consumer reads.
//
// A cell is never an untyped any: it is a Value with an explicit Kind, so
// downstream code (inference, quality scoring, rendering) must handle each
// case and cannot silently misinterpret a payload.
package frame

import (
	"fmt"
	"strconv"
	"time"
)

// Kind discriminates the payload of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindDate
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDate:
		return "date"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is one typed cell. Only the field matching Kind is meaningful;
// the zero Value is Null.
type Value struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Float float64
	Time  time.Time
	Text  string
}

func Null() Value               { return Value{} }
func BoolValue(b bool) Value    { return Value{Kind: KindBool, Bool: b} }
func IntValue(i int64) Value    { return Value{Kind: KindInt, Int: i} }
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }
func DateValue(t time.Time) Value { return Value{Kind: KindDate, Time: t} }
func TextValue(s string) Value  { return Value{Kind: KindText, Text: s} }

// IsNull reports whether the cell holds no value.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Num returns the cell as a float64 when it is numeric (int or float).
func (v Value) Num() (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.Int), true
	case KindFloat:
		return v.Float, true
	default:
		return 0, false
	}
}

// Equal compares two values by kind and payload. Date comparison uses
// time.Time.Equal so equal instants in different locations match.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool == o.Bool
	case KindInt:
		return v.Int == o.Int
	case KindFloat:
		return v.Float == o.Float
	case KindDate:
		return v.Time.Equal(o.Time)
	case KindText:
		return v.Text == o.Text
	default:
		return false
	}
}

// String renders the cell for display and for distinct-value keying.
// Null renders as the empty string.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindDate:
		return v.Time.Format("2006-01-02")
	case KindText:
		return v.Text
	default:
		return ""
	}
}
