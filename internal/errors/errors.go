package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies application errors so callers can branch on the
// failure class with errors.As without inspecting message strings.
type ErrorType string

const (
	ErrTypeInsufficientHistory ErrorType = "INSUFFICIENT_HISTORY"
	ErrTypeInsufficientData    ErrorType = "INSUFFICIENT_DATA"
	ErrTypeNotTrained          ErrorType = "NOT_TRAINED"
	ErrTypeValidation          ErrorType = "VALIDATION"
	ErrTypeParsing             ErrorType = "PARSING"
	ErrTypeStorage             ErrorType = "STORAGE"
	ErrTypeConfig              ErrorType = "CONFIG"
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

// IsType reports whether err (or anything it wraps) is an AppError of the
// given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// Helper constructors for the forecasting pipeline error taxonomy.

// NewInsufficientHistoryError indicates there were not enough prior
// observations to build any valid feature row.
func NewInsufficientHistoryError(message string) *AppError {
	return NewAppError(ErrTypeInsufficientHistory, message, nil)
}

// NewInsufficientDataError indicates the train/test split would leave an
// empty segment, or fewer rows than a stable fit needs.
func NewInsufficientDataError(message string) *AppError {
	return NewAppError(ErrTypeInsufficientData, message, nil)
}

// NewNotTrainedError indicates a forecast was requested before a fit
// completed.
func NewNotTrainedError(message string) *AppError {
	return NewAppError(ErrTypeNotTrained, message, nil)
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
