// Package apperrors holds the error taxonomy shared by every layer of the
// ledger service. Callers wrap these sentinels with github.com/pkg/errors and
// the HTTP layer maps them back with errors.Is.
package apperrors

import "github.com/pkg/errors"

var (
	ErrUnauthenticated = errors.New("user not authenticated")
	ErrValidation      = errors.New("invalid request data")
	ErrNotFound        = errors.New("transaction not found or unauthorized")
)

// ValidationError is an ErrValidation carrying a caller-facing message.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Validation returns an ErrValidation with msg as its message.
func Validation(msg string) error {
	return &ValidationError{Msg: msg}
}
