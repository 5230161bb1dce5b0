// Package types provides common value types.
package types

import (
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of fractional digits money is stored with (NUMERIC(14,2)).
const MoneyPlaces int32 = 2

// MaxQuantity bounds a single line or stock movement, in units.
const MaxQuantity int64 = 1_000_000_000

// MaxAmount is the largest amount a NUMERIC(14,2) column holds.
var MaxAmount = decimal.RequireFromString("999999999999.99")

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Round(MoneyPlaces), nil
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := NewMoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// RoundMoney rounds to the stored precision.
func RoundMoney(m Money) Money {
	return m.Round(MoneyPlaces)
}

// ExceedsMaxAmount reports whether m cannot be stored.
func ExceedsMaxAmount(m Money) bool {
	return m.Abs().GreaterThan(MaxAmount)
}

// LineTotal returns quantity x price rounded to the stored precision.
func LineTotal(quantity int64, price Money) Money {
	return RoundMoney(price.Mul(decimal.NewFromInt(quantity)))
}
