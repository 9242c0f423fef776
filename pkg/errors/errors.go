package errors

import (
	"fmt"
	"runtime"
	"time"
)

// AppError represents a standardized application error
type AppError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Component  string                 `json:"component"`
	Operation  string                 `json:"operation"`
	Cause      error                  `json:"cause,omitempty"`
	StackTrace string                 `json:"stack_trace,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
	Severity   Severity               `json:"severity"`
}

// Severity levels for errors
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// Error codes, grouped by the taxonomy a discovery/conformance run can hit.
const (
	// Malformed input: a log/OCEL/net could not be parsed or is missing
	// required structure (e.g. an event with no activity label).
	CodeMalformedInput = "MALFORMED_INPUT"

	// Schema violation: a reference into the log/OCEL points at
	// something that does not exist (dangling object id, unknown
	// object type, qualifier with no matching relationship).
	CodeSchemaViolation  = "SCHEMA_VIOLATION"
	CodeDanglingID       = "DANGLING_REFERENCE"
	CodeMissingAttribute = "MISSING_ATTRIBUTE"

	// Numeric: a computation hit an undefined or guarded numeric case
	// (division by zero denominator, NaN comparison in a threshold).
	CodeNumeric = "NUMERIC_ERROR"

	// Capacity: a caller-visible empty-result condition (no candidates
	// survived pruning, filtered DFG has no edges) reported as an error
	// only when a caller has asked to treat it as one.
	CodeCapacityEmpty = "CAPACITY_EMPTY_RESULT"

	// Model-validity: a Petri net fails a structural precondition for
	// replay or export (dangling silent transition, unreachable place,
	// unlabeled visible transition).
	CodeModelValidity = "MODEL_VALIDITY"

	// I/O: surfaced from PNML import/export.
	CodeIO = "IO_ERROR"

	// Configuration errors
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeConfigNotFound   = "CONFIG_NOT_FOUND"
	CodeConfigValidation = "CONFIG_VALIDATION_FAILED"
)

// New creates a new standardized error
func New(code, component, operation, message string) *AppError {
	_, file, line, _ := runtime.Caller(1)

	return &AppError{
		Code:       code,
		Message:    message,
		Component:  component,
		Operation:  operation,
		StackTrace: fmt.Sprintf("%s:%d", file, line),
		Metadata:   make(map[string]interface{}),
		Timestamp:  time.Now(),
		Severity:   SeverityMedium, // Default severity
	}
}

// NewCritical creates a critical error
func NewCritical(code, component, operation, message string) *AppError {
	err := New(code, component, operation, message)
	err.Severity = SeverityCritical
	return err
}

// NewWithSeverity creates an error with specific severity
func NewWithSeverity(severity Severity, code, component, operation, message string) *AppError {
	err := New(code, component, operation, message)
	err.Severity = severity
	return err
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %s: %v", e.Component, e.Operation, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s: %s", e.Component, e.Operation, e.Code, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Wrap wraps another error as the cause
func (e *AppError) Wrap(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithSeverity sets the severity level
func (e *AppError) WithSeverity(severity Severity) *AppError {
	e.Severity = severity
	return e
}

// IsCritical returns true if the error is critical
func (e *AppError) IsCritical() bool {
	return e.Severity == SeverityCritical
}

// IsRecoverable returns true if the error might be recoverable
func (e *AppError) IsRecoverable() bool {
	switch e.Severity {
	case SeverityCritical, SeverityHigh:
		return false
	default:
		return true
	}
}

// ToMap converts the error to a map for structured logging
func (e *AppError) ToMap() map[string]interface{} {
	result := map[string]interface{}{
		"error_code":      e.Code,
		"error_message":   e.Message,
		"error_component": e.Component,
		"error_operation": e.Operation,
		"error_severity":  string(e.Severity),
		"error_timestamp": e.Timestamp,
	}

	if e.StackTrace != "" {
		result["error_stack_trace"] = e.StackTrace
	}

	if e.Cause != nil {
		result["error_cause"] = e.Cause.Error()
	}

	for k, v := range e.Metadata {
		result[fmt.Sprintf("error_meta_%s", k)] = v
	}

	return result
}

// Convenience functions for common error types

// MalformedInputError creates a malformed-input error (parsing or
// structural failure in a log, OCEL, or net).
func MalformedInputError(component, operation, message string) *AppError {
	return New(CodeMalformedInput, component, operation, message)
}

// SchemaViolationError creates a schema-violation error (dangling
// reference, missing required label or attribute).
func SchemaViolationError(component, operation, message string) *AppError {
	return New(CodeSchemaViolation, component, operation, message)
}

// NumericError creates a numeric error (undefined ratio, NaN threshold
// comparison).
func NumericError(component, operation, message string) *AppError {
	return New(CodeNumeric, component, operation, message)
}

// CapacityError creates a capacity error (an empty-result condition a
// caller has chosen to treat as a failure).
func CapacityError(component, operation, message string) *AppError {
	return New(CodeCapacityEmpty, component, operation, message)
}

// ModelValidityError creates a model-validity error (a Petri net fails
// a structural precondition for replay or export).
func ModelValidityError(component, operation, message string) *AppError {
	return New(CodeModelValidity, component, operation, message)
}

// IOError creates an I/O error (PNML import/export failure).
func IOError(component, operation, message string) *AppError {
	return New(CodeIO, component, operation, message)
}

// ConfigError creates a configuration error
func ConfigError(operation, message string) *AppError {
	return New(CodeConfigInvalid, "config", operation, message)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// AsAppError converts an error to AppError if possible
func AsAppError(err error) (*AppError, bool) {
	appErr, ok := err.(*AppError)
	return appErr, ok
}

// WrapError wraps a standard error into an AppError
func WrapError(err error, component, operation, message string) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := AsAppError(err); ok {
		return appErr
	}

	return New(CodeMalformedInput, component, operation, message).Wrap(err)
}
