package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeConfig   ErrorType = "config"
	ErrorTypeIO       ErrorType = "io"
	ErrorTypePattern  ErrorType = "pattern"
	ErrorTypeWatch    ErrorType = "watch"
	ErrorTypeInternal ErrorType = "internal"
)

// Error codes shared across packages.
const (
	CodeWatchRootMissing = "WATCH_ROOT_MISSING"
	CodeInvalidConfig    = "INVALID_CONFIG"
	CodeRenameFailed     = "RENAME_FAILED"
	CodeWriteFailed      = "WRITE_FAILED"
	CodeMkdirFailed      = "MKDIR_FAILED"
	CodeStatFailed       = "STAT_FAILED"
	CodeOutsideRoot      = "OUTSIDE_ROOT"
	CodeWatcherFailed    = "WATCHER_FAILED"
	CodeLockHeld         = "LOCK_HELD"
	CodeNotProcessed     = "NOT_PROCESSED"
)

// ErrWatchRootMissing matches any error reporting a missing watch root.
var ErrWatchRootMissing = &RoutegenError{Type: ErrorTypeConfig, Code: CodeWatchRootMissing}

// RoutegenError is a structured error type with context.
type RoutegenError struct {
	Type    ErrorType
	Code    string
	Op      string
	Path    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *RoutegenError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	if e.Path != "" {
		parts = append(parts, e.Path)
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *RoutegenError) Unwrap() error {
	return e.Cause
}

// Is reports a match when type and code are equal.
func (e *RoutegenError) Is(target error) bool {
	var t *RoutegenError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithOp sets the operation that failed.
func (e *RoutegenError) WithOp(op string) *RoutegenError {
	e.Op = op

	return e
}

// WithPath sets the path the error refers to.
func (e *RoutegenError) WithPath(path string) *RoutegenError {
	e.Path = path

	return e
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *RoutegenError {
	return &RoutegenError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *RoutegenError {
	return &RoutegenError{
		Type:    ErrorTypeIO,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewWatchError creates a watcher error.
func NewWatchError(code, message string, cause error) *RoutegenError {
	return &RoutegenError{
		Type:    ErrorTypeWatch,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *RoutegenError {
	return &RoutegenError{
		Type:    ErrorTypeInternal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WatchRootMissing reports a watch root that does not exist at start-up.
func WatchRootMissing(path string) *RoutegenError {
	return NewConfigError(CodeWatchRootMissing, "watch directory does not exist").WithPath(path)
}

// IsConfigError checks if an error is configuration-related.
func IsConfigError(err error) bool {
	return isType(err, ErrorTypeConfig)
}

// IsIOError checks if an error is I/O-related.
func IsIOError(err error) bool {
	return isType(err, ErrorTypeIO)
}

func isType(err error, t ErrorType) bool {
	var re *RoutegenError
	if errors.As(err, &re) {
		return re.Type == t
	}

	return false
}
