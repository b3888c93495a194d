package table

import (
	"math"
	"strconv"
)

// Kind identifies what a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindText
	KindNumber
)

// Value is a single cell. The zero Value is null.
type Value struct {
	Kind Kind
	Text string
	Num  float64
}

// Null returns an absent value.
func Null() Value { return Value{} }

// Text returns a text value.
func Text(s string) Value { return Value{Kind: KindText, Text: s} }

// Number returns a numeric value. NaN and infinities are kept as given.
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// IsNull reports whether the value is absent.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Float returns the numeric content of v. Text and null values report false.
func (v Value) Float() (float64, bool) {
	if v.Kind != KindNumber {
		return math.NaN(), false
	}
	return v.Num, true
}

// String renders the value for display; null renders as "".
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	default:
		return ""
	}
}

// key is the equality key used by joins and Distinct. Kinds never compare equal
// to each other, and null keys match each other.
func (v Value) key() string {
	switch v.Kind {
	case KindText:
		return "t" + v.Text
	case KindNumber:
		return "n" + strconv.FormatFloat(v.Num, 'g', -1, 64)
	default:
		return "0"
	}
}
