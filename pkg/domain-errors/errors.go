// Package domainerrors provides coded errors shared by services and the
// HTTP transport. Services attach a Code describing the failure class;
// the transport maps codes to status codes in exactly one place.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain failure.
type Code string

const (
	// CodeNotFound marks an absent badge, user, award or criterion.
	CodeNotFound Code = "not_found"
	// CodeGone marks an award that exists but has been revoked.
	CodeGone Code = "gone"
	// CodeConflict marks a duplicate (user, badge) award attempt.
	CodeConflict Code = "conflict"
	// CodeValidation marks rejected input, e.g. a non-PNG badge image.
	CodeValidation Code = "validation"
	// CodeBadRequest marks a malformed request body or parameter.
	CodeBadRequest Code = "bad_request"
	// CodeNotConfigured marks a deployment-level gap, e.g. no issuer row.
	CodeNotConfigured Code = "not_configured"
	// CodeInternal marks unexpected failures that must not be masked.
	CodeInternal Code = "internal"
)

// Error is a coded domain error. It wraps an optional cause so callers can
// still use errors.Is/errors.As on the underlying failure.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a coded error without a cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap builds a coded error around an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// HasCode reports whether err or anything it wraps carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is a readability alias for HasCode.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf returns the code carried by err, or CodeInternal when err is not a
// coded error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
