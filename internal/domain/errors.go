package domain

import "errors"

// Sentinel errors for ledger operations. Operations wrap them with detail,
// so callers should match with errors.Is. The handler layer maps these to
// HTTP status codes.
var (
	ErrInvalidAmount      = errors.New("invalid_amount")
	ErrInvalidQuantity    = errors.New("invalid_quantity")
	ErrInsufficientFunds  = errors.New("insufficient_funds")
	ErrInsufficientShares = errors.New("insufficient_shares")
	ErrPriceUnavailable   = errors.New("price_unavailable")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
