// Package core provides the domain types of the assistant: money, user
// financial snapshots, response templates and conversation logs.
//
// This file contains money parsing and display helpers. Amounts are held as
// decimals so that percentages and totals never go through binary floats.
package core

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes every rendered amount.
const CurrencySymbol = "₹"

// Money is a rupee amount.
type Money struct {
	decimal.Decimal
}

// Rupees builds a Money from a whole number of rupees.
func Rupees(n int64) Money {
	return Money{Decimal: decimal.NewFromInt(n)}
}

// NewMoney wraps a decimal amount.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{Decimal: m.Decimal.Add(o.Decimal)}
}

// Sub returns m - o.
func (m Money) Sub(o Money) Money {
	return Money{Decimal: m.Decimal.Sub(o.Decimal)}
}

// String renders the amount with the currency symbol and thousands grouping,
// e.g. ₹8,500 or ₹1,234.5. At most three fractional digits are kept,
// rounded half away from zero, and trailing zeros are dropped.
func (m Money) String() string {
	d := m.Decimal.Round(3)
	neg := d.IsNegative()
	if neg {
		d = d.Neg()
	}
	whole := d.Truncate(0)
	frac := d.Sub(whole)

	s := humanize.Comma(whole.IntPart())
	if !frac.IsZero() {
		// frac is in (0, 1); "0.5" -> ".5"
		s += strings.TrimPrefix(frac.String(), "0")
	}
	if neg {
		return "-" + CurrencySymbol + s
	}
	return CurrencySymbol + s
}

// ParseAmount converts a human-entered amount into Money.
//
// It tolerates a leading currency symbol, thousands separators (commas) and
// surrounding whitespace. Negative values are rejected.
//
// Examples:
//
//	ParseAmount("8500")       -> ₹8,500
//	ParseAmount("₹8,500.50")  -> ₹8,500.5
//	ParseAmount("Rs 1,200")   -> ₹1,200
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, CurrencySymbol)
	s = strings.TrimPrefix(s, "Rs")
	s = strings.TrimPrefix(s, "INR")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return Money{Decimal: d}, nil
}

// Percent is a percentage rounded to one decimal place for display.
type Percent struct {
	decimal.Decimal
}

// PercentOf returns part/whole*100. A zero whole yields 0 rather than a
// division fault.
func PercentOf(part, whole decimal.Decimal) Percent {
	if whole.IsZero() {
		return Percent{Decimal: decimal.Zero}
	}
	return Percent{Decimal: part.Div(whole).Mul(decimal.NewFromInt(100))}
}

// String renders the value with exactly one decimal place, e.g. "24.3".
func (p Percent) String() string {
	return p.Decimal.Round(1).StringFixed(1)
}
