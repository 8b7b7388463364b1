// Package errors provides structured error handling for snapwatch.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: Watch errors (directory, OS notification subsystem)
//   - 3XX: Runtime errors (lock, delivery)
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryWatch indicates directory-watch errors.
	CategoryWatch Category = "WATCH"
	// CategoryRuntime indicates process-level runtime errors.
	CategoryRuntime Category = "RUNTIME"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// Watch errors (200-299)
	ErrCodeDirUnavailable = "ERR_201_DIRECTORY_UNAVAILABLE"
	ErrCodeWatchInit      = "ERR_202_WATCH_INIT_FAILED"
	ErrCodeWatchInternal  = "ERR_203_WATCH_INTERNAL"

	// Runtime errors (300-399)
	ErrCodeAlreadyRunning = "ERR_301_ALREADY_RUNNING"
	ErrCodeLockFailed     = "ERR_302_LOCK_FAILED"
)

// categoryFromCode derives the category from the error code prefix.
func categoryFromCode(code string) Category {
	if len(code) < 5 {
		return CategoryRuntime
	}
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryWatch
	default:
		return CategoryRuntime
	}
}

// severityFromCode derives the severity from the error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeDirUnavailable, ErrCodeWatchInit, ErrCodeAlreadyRunning:
		return SeverityFatal
	case ErrCodeConfigNotFound:
		return SeverityWarning
	default:
		return SeverityError
	}
}
