package domain

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// MoneyPlaces is the number of fractional digits kept for every amount.
const MoneyPlaces = 2

// MaxIntegerDigits bounds the integer part of amounts and balances. It matches
// the NUMERIC(20,2) balance column.
const MaxIntegerDigits = 18

// maxAmountText bounds the posted text before it is parsed.
const maxAmountText = 64

// MaxBalance is the largest balance a wallet can hold.
var MaxBalance = decimal.New(1, MaxIntegerDigits).Sub(decimal.New(1, -MoneyPlaces))

// ErrInvalidAmount is returned for amounts that are not finite positive numbers,
// that round to zero, or that are too large to store.
var ErrInvalidAmount = errors.New("amount must be a positive number")

// RoundMoney rounds half away from zero to two decimal places.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// NormalizeAmount rounds a posted amount and rejects anything not strictly
// positive or above MaxBalance. Magnitude is checked from the coefficient and
// exponent before rounding, so huge exponents are never expanded.
func NormalizeAmount(d decimal.Decimal) (decimal.Decimal, error) {
	exp := int64(d.Exponent())
	if exp < -MaxIntegerDigits || int64(d.NumDigits())+exp > MaxIntegerDigits {
		return decimal.Zero, ErrInvalidAmount
	}
	rounded := RoundMoney(d)
	if !rounded.IsPositive() || rounded.GreaterThan(MaxBalance) {
		return decimal.Zero, ErrInvalidAmount
	}
	return rounded, nil
}

// ParseAmount parses a decimal string ("100", "12.345") into a normalized amount.
func ParseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" || len(raw) > maxAmountText {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	return NormalizeAmount(d)
}

// MoneyJSON renders an amount as a bare JSON number with exactly two decimals.
func MoneyJSON(d decimal.Decimal) json.Number {
	return json.Number(RoundMoney(d).StringFixed(MoneyPlaces))
}
