package domain

import (
	apperrors "github.com/uditmishra03/carthub/pkg/errors"
)

// Messages for cart invariant violations. They are safe to return to callers.
const (
	MsgQuantityNotPositive = "Quantity must be greater than 0"
	MsgQuantityTooLarge    = "Quantity is too large"
	MsgPriceNegative       = "Price must be greater than or equal to 0"
	MsgPriceTooLarge       = "Price is too large"
	MsgPricePrecision      = "Price must have at most 2 decimal places"
)

// ValidationError reports a violated cart invariant. It matches
// apperrors.ErrInvalidInput with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return apperrors.ErrInvalidInput
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}
