package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unified error code across the tokenizer suite.
type ErrorCode string

const (
	// ErrInvalidVocabSize indicates a training target vocabulary size of 256
	// or less, which leaves no room for merge tokens.
	ErrInvalidVocabSize ErrorCode = "INVALID_VOCAB_SIZE"

	// ErrInvalidToken indicates a decode id outside the known vocabulary and
	// special-token ranges.
	ErrInvalidToken ErrorCode = "INVALID_TOKEN"

	// ErrSpecialTokenCollision indicates a special token whose id overlaps
	// the merge-id space or another special token.
	ErrSpecialTokenCollision ErrorCode = "SPECIAL_TOKEN_COLLISION"

	// ErrMalformedModel indicates a truncated, corrupted, or
	// version-incompatible persisted model.
	ErrMalformedModel ErrorCode = "MALFORMED_MODEL"

	// ErrDisallowedSpecial indicates special-token text present in the input
	// while the encoding policy forbids it.
	ErrDisallowedSpecial ErrorCode = "DISALLOWED_SPECIAL"

	// ErrPermutationMismatch indicates a byte permutation that is not a
	// bijection over 0-255 or whose declared inverse is not an exact inverse.
	ErrPermutationMismatch ErrorCode = "PERMUTATION_MISMATCH"
)

// Error represents a structured error with code, message, and cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Errorf creates a new Error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// AsError extracts a *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsErrorCode reports whether err carries the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	if e, ok := AsError(err); ok {
		return e.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error, or "" if it is not a
// structured Error.
func GetErrorCode(err error) ErrorCode {
	if e, ok := AsError(err); ok {
		return e.Code
	}
	return ""
}
