// Package errors defines the application error taxonomy. Every failure a
// pipeline can report maps to one ErrorType, and the envelope's error_type
// field is always one of these values.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies a failure for the result envelope.
type ErrorType string

const (
	ErrTypeUsage    ErrorType = "USAGE"
	ErrTypeInput    ErrorType = "INPUT"
	ErrTypeParsing  ErrorType = "PARSING"
	ErrTypeDelegate ErrorType = "DELEGATE"
	ErrTypeSummary  ErrorType = "SUMMARY"
	ErrTypeStorage  ErrorType = "STORAGE"
	ErrTypeConfig   ErrorType = "CONFIG"
	ErrTypeInternal ErrorType = "INTERNAL"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Helper functions for common error types

// NewUsageError reports a wrong command-line invocation.
func NewUsageError(message string) *AppError {
	return NewAppError(ErrTypeUsage, message, nil)
}

// NewInputError reports a missing, unreadable or empty input file.
func NewInputError(message string, cause error) *AppError {
	return NewAppError(ErrTypeInput, message, cause)
}

// NewParsingError reports malformed tabular content.
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewDelegateError reports a failure inside a delegate chart or report call.
func NewDelegateError(message string, cause error) *AppError {
	return NewAppError(ErrTypeDelegate, message, cause)
}

// NewSummaryError reports a failure while computing summary statistics.
func NewSummaryError(message string, cause error) *AppError {
	return NewAppError(ErrTypeSummary, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewInternalError wraps an unexpected failure that escaped the staged guards.
func NewInternalError(message string, cause error) *AppError {
	return NewAppError(ErrTypeInternal, message, cause)
}

// TypeOf returns the ErrorType of err. Errors that are not AppErrors,
// directly or through wrapping, report as INTERNAL.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrTypeInternal
}

// MessageOf returns the user-facing message of err: the AppError message
// chain for AppErrors, err.Error() otherwise.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Cause != nil {
			return fmt.Sprintf("%s: %v", appErr.Message, appErr.Cause)
		}
		return appErr.Message
	}
	return err.Error()
}
