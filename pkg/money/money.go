// Package money holds the integer-cent arithmetic the pricing engine is
// built on. All monetary values are stored and computed as int64 cents;
// major-unit amounts only exist at the API boundary.
package money

import (
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// ToCents converts a major-unit amount (pesos, dollars) to integer cents,
// rounding half away from zero. The conversion goes through a decimal so
// inputs like 19.99 do not pick up binary float drift. Negative amounts
// are clamped to 0; a price can never legitimately be negative.
func ToCents(majorUnits float64) int64 {
	if majorUnits <= 0 {
		return 0
	}
	return decimal.NewFromFloat(majorUnits).Mul(oneHundred).Round(0).IntPart()
}

// FromCents converts integer cents back to a major-unit amount.
func FromCents(cents int64) float64 {
	f, _ := decimal.NewFromInt(cents).Div(oneHundred).Float64()
	return f
}

// RoundUpToIncrement returns the smallest multiple of incrementCents that
// is >= amountCents. An increment of 0 or less disables rounding and
// returns the amount unchanged. Negative amounts are clamped to 0.
func RoundUpToIncrement(amountCents, incrementCents int64) int64 {
	if amountCents < 0 {
		amountCents = 0
	}
	if incrementCents <= 0 {
		return amountCents
	}
	remainder := amountCents % incrementCents
	if remainder == 0 {
		return amountCents
	}
	return amountCents + incrementCents - remainder
}
