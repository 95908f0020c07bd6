package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits every stored amount carries.
const Places = 2

// Zero is the normalized zero amount.
var Zero = decimal.Zero

// Normalize rounds the amount to two decimal places, half away from zero.
func Normalize(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(Places)
}

// NormalizePtr treats a missing amount as zero.
func NormalizePtr(amount *decimal.Decimal) decimal.Decimal {
	if amount == nil {
		return Zero
	}
	return Normalize(*amount)
}

// Mul returns normalize(price × qty).
func Mul(price decimal.Decimal, qty int) decimal.Decimal {
	return Normalize(Normalize(price).Mul(decimal.NewFromInt(int64(qty))))
}

// Add returns normalize(a + b).
func Add(a, b decimal.Decimal) decimal.Decimal {
	return Normalize(Normalize(a).Add(Normalize(b)))
}

// Sub returns normalize(a - b).
func Sub(a, b decimal.Decimal) decimal.Decimal {
	return Normalize(Normalize(a).Sub(Normalize(b)))
}

// Div returns normalize(a / n); a zero divisor yields zero.
func Div(a decimal.Decimal, n int64) decimal.Decimal {
	if n == 0 {
		return Zero
	}
	return Normalize(a.Div(decimal.NewFromInt(n)))
}

// Format renders the amount with exactly two fractional digits.
func Format(amount decimal.Decimal) string {
	return Normalize(amount).StringFixed(Places)
}

// Parse reads a decimal string and normalizes it.
func Parse(raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return Zero, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	return Normalize(value), nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(raw string) decimal.Decimal {
	value, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return value
}
