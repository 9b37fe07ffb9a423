package errors

import (
	"errors"
	"fmt"
)

// Outcome kinds - stable machine-readable identifiers shared by every operation
const (
	KindValidation   = "VALIDATION"
	KindNotFound     = "NOT_FOUND"
	KindPersistence  = "PERSISTENCE"
	KindUnexpected   = "UNEXPECTED"
	KindUnauthorized = "UNAUTHORIZED"
)

// Domain errors - Sentinel errors for use with errors.Is()
var (
	ErrNotFound     = errors.New("resource not found")
	ErrValidation   = errors.New("validation error")
	ErrPersistence  = errors.New("persistence error")
	ErrUnexpected   = errors.New("unexpected error")
	ErrUnauthorized = errors.New("unauthorized")
)

// Custom error type with context
type AppError struct {
	Kind      string
	Message   string
	Field     string
	Retryable bool
	Err       error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Constructors
func Validation(field, reason string) *AppError {
	return &AppError{Kind: KindValidation, Message: reason, Field: field, Err: ErrValidation}
}

func NotFound(msg string) *AppError {
	return &AppError{Kind: KindNotFound, Message: msg, Err: ErrNotFound}
}

func Persistence(msg string, retryable bool, err error) *AppError {
	return &AppError{Kind: KindPersistence, Message: msg, Retryable: retryable, Err: errors.Join(ErrPersistence, err)}
}

func Unexpected(msg string, err error) *AppError {
	return &AppError{Kind: KindUnexpected, Message: msg, Err: errors.Join(ErrUnexpected, err)}
}

func Unauthorized(msg string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: msg, Err: ErrUnauthorized}
}
