package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeNotFound    ErrorType = "NOT_FOUND"
	ErrTypeDataQuality ErrorType = "DATA_QUALITY"
	ErrTypeInvariant   ErrorType = "INVARIANT"
	ErrTypeParsing     ErrorType = "PARSING"
	ErrTypeStorage     ErrorType = "STORAGE"
	ErrTypeValidation  ErrorType = "VALIDATION"
	ErrTypeConfig      ErrorType = "CONFIG"
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

// NewDataNotFoundError reports a missing input file.
func NewDataNotFoundError(path string, cause error) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("input data not found at %s", path), cause).
		WithContext("path", path)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewDataQualityError reports input data that cannot be scored as requested,
// such as quantile edges that collapse onto the same value.
func NewDataQualityError(message string) *AppError {
	return NewAppError(ErrTypeDataQuality, message, nil)
}

// NewInvariantError reports a computation whose preconditions do not hold.
func NewInvariantError(message string) *AppError {
	return NewAppError(ErrTypeInvariant, message, nil)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// TypeOf returns the ErrorType of the first AppError in err's chain, or ""
// when there is none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

func IsNotFound(err error) bool    { return TypeOf(err) == ErrTypeNotFound }
func IsDataQuality(err error) bool { return TypeOf(err) == ErrTypeDataQuality }
func IsInvariant(err error) bool   { return TypeOf(err) == ErrTypeInvariant }
func IsParsing(err error) bool     { return TypeOf(err) == ErrTypeParsing }
func IsStorage(err error) bool     { return TypeOf(err) == ErrTypeStorage }
func IsValidation(err error) bool  { return TypeOf(err) == ErrTypeValidation }
