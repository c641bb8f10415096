// Package money holds the minor-unit amount type shared by payroll code.
//
// Every amount is an integer count of minor units (1/100 of the major unit)
// regardless of how many decimals the currency displays. Conversion from
// major units happens only at configuration and HTTP boundaries.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const MinorUnitsPerMajor = 100

var minorPerMajor = decimal.NewFromInt(MinorUnitsPerMajor)

// Cents is an amount in minor units.
type Cents int64

func (c Cents) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(c))
}

// Major returns the amount in major units, e.g. 12345 -> 123.45.
func (c Cents) Major() decimal.Decimal {
	return c.Decimal().Div(minorPerMajor)
}

func (c Cents) IsNegative() bool {
	return c < 0
}

func (c Cents) String() string {
	return c.Major().StringFixed(2)
}

// FromMajor converts a major-unit amount, rounding half up to a whole minor unit.
func FromMajor(major decimal.Decimal) Cents {
	return RoundHalfUp(major.Mul(minorPerMajor))
}

// ParseMajor parses "1234.56" style input.
func ParseMajor(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return FromMajor(d), nil
}

// RoundHalfUp rounds a minor-unit decimal to the nearest whole minor unit,
// halves away from zero.
func RoundHalfUp(minor decimal.Decimal) Cents {
	return Cents(minor.Round(0).IntPart())
}

// Ceil rounds a minor-unit decimal up to a whole minor unit.
func Ceil(minor decimal.Decimal) Cents {
	return Cents(minor.Ceil().IntPart())
}

// Floor rounds a minor-unit decimal down to a whole minor unit.
func Floor(minor decimal.Decimal) Cents {
	return Cents(minor.Floor().IntPart())
}

func Max(a, b Cents) Cents {
	if a > b {
		return a
	}
	return b
}

func Min(a, b Cents) Cents {
	if a < b {
		return a
	}
	return b
}
