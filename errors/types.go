package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// Hook payload errors
	ErrCodePayloadInvalid ErrorCode = "PAYLOAD_INVALID"

	// Session log errors
	ErrCodeSessionNotFound ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeSessionLocked   ErrorCode = "SESSION_LOCKED"
	ErrCodeSessionWrite    ErrorCode = "SESSION_WRITE"

	// Generation errors
	ErrCodeProviderUnavailable ErrorCode = "PROVIDER_UNAVAILABLE"
	ErrCodeProviderFailed      ErrorCode = "PROVIDER_FAILED"
	ErrCodeGenerationFailed    ErrorCode = "GENERATION_FAILED"

	// Post errors
	ErrCodePostWrite ErrorCode = "POST_WRITE"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// DiaryError represents a structured error with context
type DiaryError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *DiaryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DiaryError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *DiaryError) WithDetail(key string, value interface{}) *DiaryError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *DiaryError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new DiaryError
func New(code ErrorCode, message string) *DiaryError {
	return &DiaryError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a DiaryError
func Wrap(err error, code ErrorCode, message string) *DiaryError {
	return &DiaryError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific DiaryError code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	diaryErr, ok := err.(*DiaryError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	if diaryErr.Code == code {
		return true
	}
	// A DiaryError may wrap another DiaryError with a more specific code.
	return diaryErr.Cause != nil && Is(diaryErr.Cause, code)
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	diaryErr, ok := err.(*DiaryError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return diaryErr.Code
}
