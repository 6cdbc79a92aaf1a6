// Package core holds the domain model: users, the ledger record kinds,
// the category catalog types, and money/date parsing.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a fixed-point monetary amount held as integer cents to avoid
// binary floating-point rounding error.
type Money struct {
	Cents int64
}

// ParseAmount converts a decimal form field into Money. A comma decimal
// separator is accepted alongside the dot; anything past the second
// fractional digit is rounded half away from zero. Returns ErrInvalidAmount
// on malformed input.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: d.Shift(2).Round(0).IntPart()}, nil
}

// Decimal returns the amount as a two-place decimal.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String renders the amount with exactly two fractional digits.
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}
