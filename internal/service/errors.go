package service

import (
	"errors"
	"fmt"
)

// Error taxonomy surfaced to the API layer. Handlers map these onto HTTP
// status codes with errors.Is/As; anything else is an internal failure.
var (
	// ErrValidation marks malformed or missing input. No mutation occurred.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a missing referenced entity. No mutation occurred.
	ErrNotFound = errors.New("not found")
	// ErrPreconditionFailed marks an operation whose domain precondition does
	// not hold, e.g. rating without a download or cancelling a free plan.
	ErrPreconditionFailed = errors.New("precondition failed")
	// ErrAlreadyExists marks a uniqueness conflict, e.g. duplicate email.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnauthorized marks failed credential checks.
	ErrUnauthorized = errors.New("unauthorized")
)

// InsufficientFundsError reports a debit that the wallet cannot cover. Both
// amounts are included so the client can show the shortfall.
type InsufficientFundsError struct {
	Required  float64
	Available float64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: required %.2f, available %.2f", e.Required, e.Available)
}

// validationErr wraps a human-readable message in ErrValidation.
func validationErr(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// preconditionErr wraps a human-readable message in ErrPreconditionFailed.
func preconditionErr(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrPreconditionFailed, fmt.Sprintf(format, args...))
}
