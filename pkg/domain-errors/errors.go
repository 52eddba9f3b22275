// Package domainerrors defines the coded error taxonomy shared by services,
// stores, and the HTTP layer. Services translate infrastructure sentinels into
// these codes; the transport layer maps codes onto HTTP statuses.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a failure for callers. Codes are stable API: clients branch
// on them, so renaming one is a breaking change.
type Code string

const (
	// Ambient codes.
	CodeInternal           Code = "internal_error"
	CodeBadRequest         Code = "bad_request"
	CodeInvalidInput       Code = "invalid_input"
	CodeValidation         Code = "validation_failed"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeUnauthenticated    Code = "unauthenticated"
	CodeTimeout            Code = "timeout"
	CodeInvariantViolation Code = "invariant_violation"

	// Ledger-specific codes. Every failure mode of the ledger operations is
	// distinguishable by one of these.
	CodeUnauthorized        Code = "unauthorized"
	CodeNotTrusted          Code = "not_trusted"
	CodeIndexOutOfBounds    Code = "index_out_of_bounds"
	CodeAlreadyPaid         Code = "already_paid"
	CodeNotOriginalProvider Code = "not_original_provider"
	CodeDependencyFailed    Code = "dependency_failed"
)

// DomainError carries a code, a human-readable message, and an optional cause.
type DomainError struct {
	Code    Code
	Message string
	cause   error
}

// New builds a domain error with no underlying cause.
func New(code Code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error, preserving the
// cause for errors.Is / errors.As chains.
func Wrap(err error, code Code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, cause: err}
}

func (e *DomainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.cause
}

// HasCode reports whether err (or anything it wraps) is a domain error with
// the given code.
func HasCode(err error, code Code) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for errors
// that never passed through this package.
func CodeOf(err error) Code {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code onto the HTTP status the transport layer returns.
// Privilege failures are 403: the caller is authenticated, just not allowed.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeInvalidInput, CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeUnauthorized, CodeNotTrusted, CodeNotOriginalProvider:
		return http.StatusForbidden
	case CodeNotFound, CodeIndexOutOfBounds:
		return http.StatusNotFound
	case CodeConflict, CodeAlreadyPaid:
		return http.StatusConflict
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeDependencyFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
