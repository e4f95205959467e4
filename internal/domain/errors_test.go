package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Message: "amount must have at most 2 decimal places"}
	if err.Error() != "amount must have at most 2 decimal places" {
		t.Errorf("Error() = %q, want %q", err.Error(), "amount must have at most 2 decimal places")
	}
}

func TestValidationError_ImplementsError(t *testing.T) {
	var err error = &ValidationError{Message: "test"}
	if err == nil {
		t.Error("ValidationError should implement error interface")
	}
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	errs := []error{
		ErrInvalidAmount,
		ErrInvalidQuantity,
		ErrInsufficientFunds,
		ErrInsufficientShares,
		ErrPriceUnavailable,
	}
	for i := 0; i < len(errs); i++ {
		for j := i + 1; j < len(errs); j++ {
			if errors.Is(errs[i], errs[j]) {
				t.Errorf("sentinel errors %d and %d should be distinct", i, j)
			}
		}
	}
}

func TestSentinelErrors_SurviveWrapping(t *testing.T) {
	err := fmt.Errorf("%w: need 700, have 100", ErrInsufficientFunds)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("errors.Is(%v, ErrInsufficientFunds) = false, want true", err)
	}
}
