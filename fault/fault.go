package fault

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a failure class. Codes are part of the wire contract and
// must remain stable.
type Code string

const (
	// CodeAuthentication covers missing, expired, or invalid tokens.
	CodeAuthentication Code = "AUTHENTICATION_ERROR"

	// CodePermissionDenied covers valid identities with insufficient rights.
	CodePermissionDenied Code = "PERMISSION_DENIED"

	// CodeValidation covers malformed or missing request arguments.
	CodeValidation Code = "VALIDATION_ERROR"

	// CodeService covers downstream 5xx responses and unexpected
	// downstream failures.
	CodeService Code = "SERVICE_ERROR"

	// CodeCircuitOpen is returned when a client's breaker is open and no
	// request was attempted.
	CodeCircuitOpen Code = "CIRCUIT_OPEN"

	// CodeTimeout covers requests that exceeded the configured deadline.
	CodeTimeout Code = "TIMEOUT"

	// CodeNotFound covers downstream 404 responses.
	CodeNotFound Code = "NOT_FOUND"

	// CodeInsufficientFunds is the business rule violation for withdrawals
	// and transfers exceeding the available balance.
	CodeInsufficientFunds Code = "INSUFFICIENT_FUNDS"

	// CodeBusinessRule covers downstream-reported domain violations that
	// have no more specific code.
	CodeBusinessRule Code = "BUSINESS_RULE_VIOLATION"

	// CodeInternal is the fail-closed classification for unexpected errors.
	CodeInternal Code = "INTERNAL_ERROR"
)

// Error is a classified gateway failure.
type Error struct {
	// Code is the stable failure class.
	Code Code

	// Message is a caller-safe description.
	Message string

	// Details carries structured context (field names, offending values,
	// downstream status). Never includes internal stack information.
	Details map[string]any

	// cause is the wrapped underlying error, if any.
	cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches two fault errors by code.
func (e *Error) Is(target error) bool {
	var fe *Error
	if errors.As(target, &fe) {
		return e.Code == fe.Code
	}
	return false
}

// WithDetails returns a copy of the error with details attached.
func (e *Error) WithDetails(details map[string]any) *Error {
	clone := *e
	clone.Details = details
	return &clone
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *Error) WithCause(err error) *Error {
	clone := *e
	clone.cause = err
	return &clone
}

// New creates a fault error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a fault error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Authentication creates an AUTHENTICATION_ERROR.
func Authentication(message string) *Error {
	return New(CodeAuthentication, message)
}

// PermissionDenied creates a PERMISSION_DENIED error.
func PermissionDenied(message string) *Error {
	return New(CodePermissionDenied, message)
}

// Validation creates a VALIDATION_ERROR naming the offending field.
func Validation(field, message string) *Error {
	e := New(CodeValidation, message)
	e.Details = map[string]any{"field": field}
	return e
}

// Service creates a SERVICE_ERROR wrapping a downstream failure.
func Service(message string, cause error) *Error {
	return New(CodeService, message).WithCause(cause)
}

// CircuitOpen creates a CIRCUIT_OPEN error for the named downstream service.
func CircuitOpen(service string) *Error {
	e := Newf(CodeCircuitOpen, "circuit breaker open for %s", service)
	e.Details = map[string]any{"service": service}
	return e
}

// Timeout creates a TIMEOUT error.
func Timeout(message string, cause error) *Error {
	return New(CodeTimeout, message).WithCause(cause)
}

// NotFound creates a NOT_FOUND error.
func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

// InsufficientFunds creates the insufficient-funds business rule error.
func InsufficientFunds(requested, available float64) *Error {
	e := New(CodeInsufficientFunds, "insufficient funds for requested amount")
	e.Details = map[string]any{
		"requested_amount": requested,
		"available_amount": available,
	}
	return e
}

// Internal creates the generic INTERNAL_ERROR. The cause is retained for
// logging but never serialized to callers.
func Internal(message string, cause error) *Error {
	return New(CodeInternal, message).WithCause(cause)
}

// From classifies an arbitrary error into a fault error. Already-classified
// errors pass through unchanged; everything else fails closed to
// INTERNAL_ERROR.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	return Internal("internal error", err)
}

// CodeOf returns the code of a classified error, or CodeInternal for
// unclassified errors.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	return From(err).Code
}

// IsCode reports whether err classifies to the given code.
func IsCode(err error, code Code) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Code == code
}

// Retryable reports whether a failure class may be retried. Only transient
// transport failures qualify; client errors, denials, and domain violations
// never do.
func Retryable(err error) bool {
	switch CodeOf(err) {
	case CodeTimeout:
		return true
	default:
		return false
	}
}

// HTTPStatus maps a failure class to its HTTP-equivalent status, for
// monitoring surfaces and HTTP hosts.
func HTTPStatus(code Code) int {
	switch code {
	case CodeAuthentication:
		return http.StatusUnauthorized
	case CodePermissionDenied:
		return http.StatusForbidden
	case CodeValidation, CodeBusinessRule, CodeInsufficientFunds:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeCircuitOpen, CodeService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
