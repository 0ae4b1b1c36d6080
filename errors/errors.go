// Package errors defines the coded error type returned by every namespace
// operation. Callers branch on the [ErrorCode] with [IsErrorCode] or with
// the standard errors.Is against the sentinel values.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

const (
	ErrUnknown ErrorCode = "UNKNOWN"

	// A path segment could not be resolved.
	ErrNotFound ErrorCode = "NOT_FOUND"
	// The resolved node is not the required Directory/Item/SymbolicLink.
	ErrWrongKind ErrorCode = "WRONG_KIND"
	// The mutation would clobber an existing node without overwrite.
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"
	// Malformed or empty path or name, or non-absolute where absolute is required.
	ErrInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// Root remove/rename/move or a source/destination nesting conflict.
	ErrIllegalStructuralEdit ErrorCode = "ILLEGAL_STRUCTURAL_EDIT"
	// A symbolic link chain loops back on itself.
	ErrCircularReference ErrorCode = "CIRCULAR_REFERENCE"
	// Non-recursive removal of a directory that still has children.
	ErrNotEmpty ErrorCode = "NOT_EMPTY"
	// A path continues below an item.
	ErrTraverseItem ErrorCode = "TRAVERSE_ITEM"
	// A path continues below a symbolic link that is not followed.
	ErrTraverseLink ErrorCode = "TRAVERSE_LINK"
)

// Sentinels for use with errors.Is. Matching is by code only.
var (
	ErrNodeNotFound          = &TreeError{Code: ErrNotFound}
	ErrNodeWrongKind         = &TreeError{Code: ErrWrongKind}
	ErrNodeExists            = &TreeError{Code: ErrAlreadyExists}
	ErrInvalid               = &TreeError{Code: ErrInvalidArgument}
	ErrIllegalEdit           = &TreeError{Code: ErrIllegalStructuralEdit}
	ErrCycle                 = &TreeError{Code: ErrCircularReference}
	ErrDirectoryNotEmpty     = &TreeError{Code: ErrNotEmpty}
	ErrCannotTraverseItem    = &TreeError{Code: ErrTraverseItem}
	ErrCannotTraverseSymlink = &TreeError{Code: ErrTraverseLink}
)

// TreeError represents a structured error with code and details
type TreeError struct {
	Code    ErrorCode
	Message string
	Path    string // offending path, if any
	Details map[string]any
	Wrapped error
}

// Error implements the error interface
func (e *TreeError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap implements the errors.Unwrap interface
func (e *TreeError) Unwrap() error {
	return e.Wrapped
}

// Is matches any *TreeError carrying the same code.
func (e *TreeError) Is(target error) bool {
	var targetErr *TreeError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new TreeError with the given code and message
func New(code ErrorCode, message string) *TreeError {
	return &TreeError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}
}

// Newf creates a new TreeError with a formatted message
func Newf(code ErrorCode, format string, args ...any) *TreeError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with a TreeError
func Wrap(err error, code ErrorCode, message string) *TreeError {
	if err == nil {
		return nil
	}
	e := New(code, message)
	e.Wrapped = err
	return e
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...any) *TreeError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithPath records the path the error is about.
func (e *TreeError) WithPath(path string) *TreeError {
	e.Path = path
	return e
}

// WithDetail adds a detail to the error
func (e *TreeError) WithDetail(key string, value any) *TreeError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var treeErr *TreeError
	if errors.As(err, &treeErr) {
		return treeErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a TreeError
func GetErrorCode(err error) ErrorCode {
	var treeErr *TreeError
	if errors.As(err, &treeErr) {
		return treeErr.Code
	}
	return ErrUnknown
}
