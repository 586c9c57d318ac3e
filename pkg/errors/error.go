// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown errors
//   - Shape errors (100-149): panel axes, alignment and table layout
//   - Configuration errors (150-199): invalid strategy or engine parameters
//   - Data errors (200-299): ingestion and query failures
//   - Indicator errors (300-399): insufficient rolling history
//   - Strategy errors (400-499): failures reported by user-supplied strategies
//   - Market data errors (700-799): market data fetching and writing
//
// Usage:
//
//	// Fail construction of a panel whose axes are wrong
//	err := errors.NewShapeErrorf(errors.ErrCodeInvalidAxis, "rows=%s cols=%s", rows, cols)
//
//	// Reject a strategy parameter
//	err := errors.NewConfigurationErrorf(errors.ErrCodeInvalidPeriod, "window must be positive, got %d", w)
//
//	// Check the taxonomy
//	if errors.IsShapeError(err) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error if it's an *Error type.
// Returns ErrCodeUnknown if the error is not an *Error type.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// NewShapeErrorf creates a shape error. The code must belong to the shape range.
func NewShapeErrorf(code ErrorCode, format string, args ...any) *Error {
	if !shapeCodes[code] {
		code = ErrCodeShapeMismatch
	}

	return Newf(code, "shape error: "+format, args...)
}

// NewConfigurationErrorf creates a configuration error. The code must belong to the configuration range.
func NewConfigurationErrorf(code ErrorCode, format string, args ...any) *Error {
	if !configurationCodes[code] {
		code = ErrCodeInvalidConfiguration
	}

	return Newf(code, "configuration error: "+format, args...)
}

// IsShapeError reports whether err is a panel shape or alignment failure.
func IsShapeError(err error) bool {
	return shapeCodes[GetCode(err)]
}

// IsConfigurationError reports whether err is an invalid strategy or engine parameter.
func IsConfigurationError(err error) bool {
	return configurationCodes[GetCode(err)]
}

// InsufficientHistoryWarning reports that a rolling window has fewer observations
// than it needs. It is never returned as a failure; the backtest engine logs it and
// the fill policy turns the missing cells into flat positions.
type InsufficientHistoryWarning struct {
	Required int    // Observations the window needs
	Actual   int    // Observations available
	Strategy string // Strategy that raised the warning
}

// NewInsufficientHistoryWarning creates a new InsufficientHistoryWarning.
func NewInsufficientHistoryWarning(required, actual int, strategy string) *InsufficientHistoryWarning {
	return &InsufficientHistoryWarning{
		Required: required,
		Actual:   actual,
		Strategy: strategy,
	}
}

// Error implements the error interface so the warning can be attached to log fields.
func (w *InsufficientHistoryWarning) Error() string {
	return fmt.Sprintf("[%d] insufficient history for %s: required %d observations, got %d",
		ErrCodeInsufficientHistory, w.Strategy, w.Required, w.Actual)
}

// IsInsufficientHistoryWarning checks the error chain for an InsufficientHistoryWarning.
func IsInsufficientHistoryWarning(err error) bool {
	var warning *InsufficientHistoryWarning

	return errors.As(err, &warning)
}
