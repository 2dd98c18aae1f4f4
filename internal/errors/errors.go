// Package errors provides typed errors for the finance tracker.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error cases.
var (
	// ErrNotFound indicates a resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates the caller is not authenticated.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("validation error")

	// ErrConflict indicates a resource conflict (e.g., duplicate).
	ErrConflict = errors.New("resource conflict")

	// ErrInternal indicates an internal server error.
	ErrInternal = errors.New("internal error")

	// ErrRateLimit indicates too many requests.
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrUnknownSymbol indicates the market data provider could not resolve a ticker.
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrDanglingReference indicates a commitment points at a loan that no longer exists.
	ErrDanglingReference = errors.New("dangling loan reference")

	// ErrInsufficientHistory indicates there is not enough data to fit a forecast.
	ErrInsufficientHistory = errors.New("insufficient history")

	// ErrUnreachableGoal indicates the retirement goal is not met within the simulation cap.
	ErrUnreachableGoal = errors.New("unreachable goal")

	// ErrInvalidRate indicates a negative interest rate.
	ErrInvalidRate = errors.New("invalid interest rate")

	// ErrInvalidElapsed indicates a negative elapsed period (dates out of order).
	ErrInvalidElapsed = errors.New("invalid elapsed period")
)

// AppError is a structured application error.
type AppError struct {
	// Type is the error type (sentinel error).
	Type error
	// Message is the user-facing error message.
	Message string
	// Details contains additional error details.
	Details map[string]any
	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error type.
func (e *AppError) Unwrap() error {
	return e.Type
}

// Is checks if this error matches the target.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Type, target)
}

// New creates a new AppError.
func New(errType error, message string) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message.
func Newf(errType error, format string, args ...any) *AppError {
	return New(errType, fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context.
func Wrap(errType error, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// WithDetails adds details to an AppError.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

// NotFound creates a not found error.
func NotFound(resource string) *AppError {
	return &AppError{
		Type:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NotFoundf creates a not found error with formatting.
func NotFoundf(format string, args ...any) *AppError {
	return &AppError{
		Type:    ErrNotFound,
		Message: fmt.Sprintf(format, args...),
	}
}

// Unauthorized creates an unauthorized error.
func Unauthorized(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return &AppError{
		Type:    ErrUnauthorized,
		Message: message,
	}
}

// Validation creates a validation error.
func Validation(message string) *AppError {
	return &AppError{
		Type:    ErrValidation,
		Message: message,
	}
}

// ValidationField creates a validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{
		Type:    ErrValidation,
		Message: message,
		Details: map[string]any{"field": field},
	}
}

// Conflict creates a conflict error.
func Conflict(message string) *AppError {
	return &AppError{
		Type:    ErrConflict,
		Message: message,
	}
}

// Internal creates an internal error.
func Internal(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrInternal,
		Message: message,
		Cause:   cause,
	}
}

// UnknownSymbol creates an unknown symbol error.
func UnknownSymbol(symbol string, cause error) *AppError {
	return &AppError{
		Type:    ErrUnknownSymbol,
		Message: fmt.Sprintf("cannot resolve symbol %s", symbol),
		Details: map[string]any{"symbol": symbol},
		Cause:   cause,
	}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized checks if an error is an unauthorized error.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsConflict checks if an error is a conflict error.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsInternal checks if an error is an internal error.
func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}

// IsUnknownSymbol checks if an error is an unknown symbol error.
func IsUnknownSymbol(err error) bool {
	return errors.Is(err, ErrUnknownSymbol)
}

// IsDanglingReference checks if an error is a dangling loan reference.
func IsDanglingReference(err error) bool {
	return errors.Is(err, ErrDanglingReference)
}

// IsInvalidElapsed checks if an error is a negative elapsed period.
func IsInvalidElapsed(err error) bool {
	return errors.Is(err, ErrInvalidElapsed)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUnknownSymbol):
		return 404
	case errors.Is(err, ErrUnauthorized):
		return 401
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidRate), errors.Is(err, ErrInvalidElapsed):
		return 400
	case errors.Is(err, ErrConflict), errors.Is(err, ErrDanglingReference):
		return 409
	case errors.Is(err, ErrInsufficientHistory), errors.Is(err, ErrUnreachableGoal):
		return 422
	case errors.Is(err, ErrRateLimit):
		return 429
	default:
		return 500
	}
}
