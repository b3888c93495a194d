package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeInputShape      ErrorType = "INPUT_SHAPE"
	ErrTypeDuplicateSample ErrorType = "DUPLICATE_SAMPLE"
	ErrTypeParsing         ErrorType = "PARSING"
	ErrTypeStorage         ErrorType = "STORAGE"
	ErrTypeValidation      ErrorType = "VALIDATION"
	ErrTypeConfig          ErrorType = "CONFIG"
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

// IsType reports whether err, or anything it wraps, is an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// Helper functions for common error types

// NewInputShapeError reports a sample table that lacks a column the pipeline reads,
// or whose columns cannot be merged without overwriting one another.
func NewInputShapeError(sample, message string) *AppError {
	return NewAppError(ErrTypeInputShape, message, nil).WithContext("sample", sample)
}

// NewMissingColumnError is the common InputShape case of a required column being absent.
func NewMissingColumnError(sample, column string) *AppError {
	return NewInputShapeError(sample, fmt.Sprintf("sample %q has no %q column", sample, column)).
		WithContext("column", column)
}

// NewDuplicateSampleError reports two inputs that normalize to the same sample name.
func NewDuplicateSampleError(name string, first, second string) *AppError {
	return NewAppError(ErrTypeDuplicateSample,
		fmt.Sprintf("sample name %q is produced by both %q and %q", name, first, second), nil).
		WithContext("sample", name)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError reports settings that fail validation after all
// configuration layers are applied.
func NewAppValidationError(message string, cause error) *AppError {
	return NewAppError(ErrTypeValidation, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
