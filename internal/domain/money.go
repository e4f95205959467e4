package domain

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// maxAmountDigits is the integer digit count of the largest amount whose
// cents fit in an int64 (92,233,720,368,547,758.07).
const maxAmountDigits = 17

// ErrAmountOutOfRange is returned for amounts whose cents do not fit in
// an int64.
var ErrAmountOutOfRange = fmt.Errorf("monetary values must not exceed %s in magnitude",
	CentsToDollars(math.MaxInt64).StringFixed(2))

// HasCentPrecision reports whether d has at most 2 decimal places.
func HasCentPrecision(d decimal.Decimal) bool {
	if d.Exponent() >= -2 || d.IsZero() {
		return true
	}
	// A coefficient with fewer digits than the places past cents cannot be
	// a multiple of the power of ten it would need to be.
	if int(-d.Exponent())-2 > d.NumDigits() {
		return false
	}
	return d.Equal(d.Round(2))
}

// DollarsToCents converts a decimal dollar amount to int64 cents.
// It returns an error if d carries more than 2 decimal places rather
// than silently rounding, or if d is out of the int64 cents range.
// The magnitude is checked from the digit count first, so huge exponents
// are never expanded.
func DollarsToCents(d decimal.Decimal) (int64, error) {
	if d.NumDigits()+int(d.Exponent()) > maxAmountDigits {
		return 0, ErrAmountOutOfRange
	}
	if !HasCentPrecision(d) {
		return 0, errors.New("monetary values must have at most 2 decimal places")
	}
	cents := d.Shift(2).BigInt()
	if !cents.IsInt64() {
		return 0, ErrAmountOutOfRange
	}
	return cents.Int64(), nil
}

// CentsToDollars converts an int64 cents value to a decimal dollar amount.
func CentsToDollars(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}
