package errors

import (
	"fmt"
)

// WatchError is the structured error type for snapwatch.
// It provides rich context for error handling, logging, and user presentation.
type WatchError struct {
	// Code is the unique error code (e.g., "ERR_201_DIRECTORY_UNAVAILABLE").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, Watch, Runtime).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *WatchError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *WatchError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with WatchError.
func (e *WatchError) Is(target error) bool {
	if t, ok := target.(*WatchError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *WatchError) WithDetail(key, value string) *WatchError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
// Returns the error for method chaining.
func (e *WatchError) WithSuggestion(suggestion string) *WatchError {
	e.Suggestion = suggestion
	return e
}

// New creates a new WatchError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *WatchError {
	return &WatchError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Newf creates a new WatchError with a formatted message.
func Newf(code string, cause error, format string, args ...any) *WatchError {
	return New(code, fmt.Sprintf(format, args...), cause)
}

// DirectoryUnavailable creates the error returned when a watch target cannot
// be monitored (missing volume, permissions, not a directory).
func DirectoryUnavailable(dir string, cause error) *WatchError {
	return New(ErrCodeDirUnavailable, fmt.Sprintf("directory unavailable: %s", dir), cause).
		WithDetail("dir", dir).
		WithSuggestion("check that the directory exists and is readable")
}
