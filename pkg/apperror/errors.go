// Package apperror provides a structured way to handle application errors
// with specific codes, severity levels, and additional details. It also
// includes utilities for mapping errors onto HTTP status codes.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a specific application error code.
type ErrorCode string

const (
	// Configuration
	CodeInvalidWeights      ErrorCode = "INVALID_WEIGHTS"
	CodeInvalidBudget       ErrorCode = "INVALID_BUDGET"
	CodeInvalidFraction     ErrorCode = "INVALID_FRACTION"
	CodeNegativeCoefficient ErrorCode = "NEGATIVE_COEFFICIENT"
	CodeInvalidMargin       ErrorCode = "INVALID_MARGIN"
	CodeInvalidAutonomy     ErrorCode = "INVALID_AUTONOMY"
	CodeMissingRate         ErrorCode = "MISSING_RATE"
	CodeInvalidConfig       ErrorCode = "INVALID_CONFIG"

	// Graph construction
	CodeEmptyGraph      ErrorCode = "EMPTY_GRAPH"
	CodeDuplicateNode   ErrorCode = "DUPLICATE_NODE"
	CodeDuplicateEdge   ErrorCode = "DUPLICATE_EDGE"
	CodeDanglingEdge    ErrorCode = "DANGLING_EDGE"
	CodeNegativeLength  ErrorCode = "NEGATIVE_LENGTH"
	CodeSelfLoop        ErrorCode = "SELF_LOOP"
	CodeInvalidNodeKind ErrorCode = "INVALID_NODE_KIND"
	CodeInvalidEdgeKind ErrorCode = "INVALID_EDGE_KIND"

	// Connectivity
	CodeNoPath        ErrorCode = "NO_PATH"
	CodeNodeNotFound  ErrorCode = "NODE_NOT_FOUND"
	CodeUnknownMetric ErrorCode = "UNKNOWN_METRIC"

	// Records
	CodeInvalidBuildingType ErrorCode = "INVALID_BUILDING_TYPE"
	CodeInvalidPriority     ErrorCode = "INVALID_PRIORITY"
	CodeInvalidInfraType    ErrorCode = "INVALID_INFRA_TYPE"
	CodeInvalidInfraState   ErrorCode = "INVALID_INFRA_STATE"
	CodeNegativeValue       ErrorCode = "NEGATIVE_VALUE"
	CodeDuplicateID         ErrorCode = "DUPLICATE_ID"

	// General
	CodeInternal        ErrorCode = "INTERNAL_ERROR"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	CodeNilInput        ErrorCode = "NIL_INPUT"
)

// Severity defines the criticality level of an error.
type Severity int

const (
	// SeverityWarning indicates a non-critical issue that can be ignored or automatically resolved.
	SeverityWarning Severity = iota
	// SeverityError indicates a standard error that requires attention.
	SeverityError
	// SeverityCritical indicates a severe error that might require immediate human intervention.
	SeverityCritical
)

// String returns the string representation of the Severity.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Error is a custom error type that includes an ErrorCode, message,
// an optional field, additional details, an underlying cause, and a severity level.
type Error struct {
	Code     ErrorCode      // Code is a unique identifier for the type of error.
	Message  string         // Message is a human-readable description of the error.
	Field    string         // Field indicates which input field caused the error, if applicable.
	Details  map[string]any // Details provides additional structured information about the error.
	Cause    error          // Cause is the underlying error that triggered this application error.
	Severity Severity       // Severity indicates the criticality level of the error.
}

// Error implements the error interface, returning a string representation of the error.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error, allowing for error chain introspection.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus maps an ErrorCode to an appropriate HTTP status code.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeInvalidWeights, CodeInvalidBudget, CodeInvalidFraction,
		CodeNegativeCoefficient, CodeInvalidMargin, CodeInvalidAutonomy,
		CodeMissingRate,
		CodeEmptyGraph, CodeDuplicateNode, CodeDuplicateEdge, CodeDanglingEdge,
		CodeNegativeLength, CodeSelfLoop, CodeInvalidNodeKind, CodeInvalidEdgeKind,
		CodeInvalidBuildingType, CodeInvalidPriority, CodeInvalidInfraType,
		CodeInvalidInfraState, CodeNegativeValue, CodeDuplicateID,
		CodeInvalidArgument, CodeNilInput, CodeUnknownMetric:
		return http.StatusBadRequest

	case CodeNoPath, CodeNodeNotFound:
		return http.StatusUnprocessableEntity

	case CodeNotFound:
		return http.StatusNotFound

	case CodeInvalidConfig:
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// New creates a new application error with the given code and message.
// The default severity is SeverityError.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Details:  make(map[string]any),
		Severity: SeverityError,
	}
}

// Newf creates a new application error with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// NewWithField creates a new application error with the given code, message, and field.
// The default severity is SeverityError.
func NewWithField(code ErrorCode, message, field string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Field:    field,
		Details:  make(map[string]any),
		Severity: SeverityError,
	}
}

// NewWarning creates a new application error with SeverityWarning.
func NewWarning(code ErrorCode, message string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Details:  make(map[string]any),
		Severity: SeverityWarning,
	}
}

// NewCritical creates a new application error with SeverityCritical.
func NewCritical(code ErrorCode, message string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Details:  make(map[string]any),
		Severity: SeverityCritical,
	}
}

// Wrap creates a new application error that wraps an existing error,
// providing additional context with a code and message.
// The default severity is SeverityError.
func Wrap(cause error, code ErrorCode, message string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Cause:    cause,
		Details:  make(map[string]any),
		Severity: SeverityError,
	}
}

// WithDetail attaches a structured detail to the error and returns it.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithField sets the offending field and returns the error.
func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

// Is reports whether target carries the same ErrorCode.
func (e *Error) Is(target error) bool {
	var appErr *Error
	if errors.As(target, &appErr) {
		return e.Code == appErr.Code
	}
	return false
}

// AsError extracts an *Error from err, if present.
func AsError(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the ErrorCode of err, or CodeInternal for non-application errors.
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsError(err); ok {
		return appErr.Code
	}
	return CodeInternal
}

// IsCode reports whether err carries the given application error code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// HTTPStatusOf returns the HTTP status for err, defaulting to 500.
func HTTPStatusOf(err error) int {
	if appErr, ok := AsError(err); ok {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}
