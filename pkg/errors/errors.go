package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Substitution record errors
	ErrInputParse  ErrorCode = "INPUT_PARSE"
	ErrInputOpen   ErrorCode = "INPUT_OPEN"
	ErrInputFormat ErrorCode = "INPUT_FORMAT"

	// Template errors
	ErrTemplateNotFound     ErrorCode = "TEMPLATE_NOT_FOUND"
	ErrTemplateSyntax       ErrorCode = "TEMPLATE_SYNTAX"
	ErrUndefinedPlaceholder ErrorCode = "UNDEFINED_PLACEHOLDER"
	ErrRender               ErrorCode = "RENDER"

	// Compilation errors
	ErrCompile         ErrorCode = "COMPILE"
	ErrCompilerMissing ErrorCode = "COMPILER_MISSING"

	// Workspace and filesystem errors
	ErrWorkspace ErrorCode = "WORKSPACE"
	ErrFileWrite ErrorCode = "FILE_WRITE"
	ErrDirCreate ErrorCode = "DIR_CREATE"
	ErrPlace     ErrorCode = "PLACE"

	// Run outcome
	ErrRecordsFailed ErrorCode = "RECORDS_FAILED"
)

// Detail keys shared by the packages that attach context to errors.
const (
	DetailSource   = "source"
	DetailLine     = "line"
	DetailKey      = "key"
	DetailExitCode = "exit_code"
	DetailLogPath  = "log_path"
	DetailPath     = "path"
)

// TexmergeError represents a structured error with code and details
type TexmergeError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *TexmergeError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *TexmergeError) Unwrap() error {
	return e.Wrapped
}

// Is matches any *TexmergeError carrying the same code
func (e *TexmergeError) Is(target error) bool {
	var targetErr *TexmergeError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new TexmergeError with the given code and message
func New(code ErrorCode, message string) *TexmergeError {
	return &TexmergeError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new TexmergeError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *TexmergeError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error. A nil err yields nil.
func Wrap(err error, code ErrorCode, message string) *TexmergeError {
	if err == nil {
		return nil
	}
	e := New(code, message)
	e.Wrapped = err
	return e
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *TexmergeError {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetail adds a detail to the error
func (e *TexmergeError) WithDetail(key string, value interface{}) *TexmergeError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *TexmergeError) WithDetails(details map[string]interface{}) *TexmergeError {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	return GetErrorCode(err) == code
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a TexmergeError
func GetErrorCode(err error) ErrorCode {
	var tmErr *TexmergeError
	if errors.As(err, &tmErr) {
		return tmErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a TexmergeError
func GetErrorDetails(err error) map[string]interface{} {
	var tmErr *TexmergeError
	if errors.As(err, &tmErr) {
		return tmErr.Details
	}
	return nil
}

// GetDetailString returns a string detail, or "" when absent.
func GetDetailString(err error, key string) string {
	if s, ok := GetErrorDetails(err)[key].(string); ok {
		return s
	}
	return ""
}

// GetDetailInt returns an int detail and whether it was present.
func GetDetailInt(err error, key string) (int, bool) {
	n, ok := GetErrorDetails(err)[key].(int)
	return n, ok
}

// IsFatal reports whether err should stop a whole batch run rather than a
// single record.
func IsFatal(err error) bool {
	switch GetErrorCode(err) {
	case ErrTemplateNotFound, ErrTemplateSyntax, ErrWorkspace, ErrConfigLoad, ErrConfigValid, ErrInputOpen, ErrInputFormat, ErrCompilerMissing:
		return true
	}
	return false
}

// Describe renders err for people: messages of the whole chain without
// the bracketed codes.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var tmErr *TexmergeError
	if !errors.As(err, &tmErr) {
		return err.Error()
	}
	if tmErr.Wrapped == nil {
		return tmErr.Message
	}
	return tmErr.Message + ": " + Describe(tmErr.Wrapped)
}
