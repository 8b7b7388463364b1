package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DerivesCategoryAndSeverity(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		category Category
		severity Severity
	}{
		{"config invalid", ErrCodeConfigInvalid, CategoryConfig, SeverityError},
		{"config not found", ErrCodeConfigNotFound, CategoryConfig, SeverityWarning},
		{"directory unavailable", ErrCodeDirUnavailable, CategoryWatch, SeverityFatal},
		{"watch init", ErrCodeWatchInit, CategoryWatch, SeverityFatal},
		{"watch internal", ErrCodeWatchInternal, CategoryWatch, SeverityError},
		{"already running", ErrCodeAlreadyRunning, CategoryRuntime, SeverityFatal},
		{"lock failed", ErrCodeLockFailed, CategoryRuntime, SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, "boom", nil)
			assert.Equal(t, tt.category, err.Category)
			assert.Equal(t, tt.severity, err.Severity)
		})
	}
}

func TestWatchError_Error(t *testing.T) {
	err := New(ErrCodeDirUnavailable, "directory unavailable: /shots", nil)
	assert.Equal(t, "[ERR_201_DIRECTORY_UNAVAILABLE] directory unavailable: /shots", err.Error())
}

func TestWatchError_Unwrap(t *testing.T) {
	cause := stderrors.New("permission denied")
	err := New(ErrCodeDirUnavailable, "directory unavailable", cause)

	assert.Equal(t, cause, stderrors.Unwrap(err))
	assert.True(t, stderrors.Is(err, cause))
}

func TestWatchError_IsMatchesByCode(t *testing.T) {
	// Given: two errors with the same code but different messages
	a := New(ErrCodeDirUnavailable, "one", nil)
	b := New(ErrCodeDirUnavailable, "two", nil)
	c := New(ErrCodeWatchInit, "three", nil)

	// Then: errors.Is matches on code only
	assert.True(t, stderrors.Is(a, b))
	assert.False(t, stderrors.Is(a, c))
}

func TestWatchError_WrappedThroughFmt(t *testing.T) {
	inner := DirectoryUnavailable("/shots", nil)
	outer := fmt.Errorf("start watcher: %w", inner)

	var we *WatchError
	require.True(t, stderrors.As(outer, &we))
	assert.Equal(t, ErrCodeDirUnavailable, we.Code)
}

func TestWatchError_WithDetailAndSuggestion(t *testing.T) {
	err := New(ErrCodeConfigInvalid, "bad poll interval", nil).
		WithDetail("field", "poll_interval").
		WithSuggestion("use a positive duration")

	assert.Equal(t, "poll_interval", err.Details["field"])
	assert.Equal(t, "use a positive duration", err.Suggestion)
}

func TestDirectoryUnavailable_CarriesDir(t *testing.T) {
	err := DirectoryUnavailable("/mnt/gone", stderrors.New("no such device"))

	assert.Equal(t, ErrCodeDirUnavailable, err.Code)
	assert.Equal(t, "/mnt/gone", err.Details["dir"])
	assert.NotEmpty(t, err.Suggestion)
}
