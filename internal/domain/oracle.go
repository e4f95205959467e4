package domain

import "github.com/shopspring/decimal"

// PriceOracle resolves the current per-share price of a symbol.
// Implementations must be total: an unrecognised symbol yields zero
// instead of an error.
type PriceOracle interface {
	Price(symbol string) decimal.Decimal
}
