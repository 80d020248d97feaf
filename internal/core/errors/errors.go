// Package errors provides the coded error type used across gatehouse.
//
// Every error that can reach an HTTP client carries an ErrorCode; the API
// layer maps codes to statuses with HTTPStatus and renders Data verbatim.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies an error class. Codes are part of the HTTP contract.
type ErrorCode string

// Identity and authorization codes.
const (
	CodeInvalidCredential       ErrorCode = "INVALID_CREDENTIAL"
	CodeSignupUserExists        ErrorCode = "SIGNUP_USER_EXISTS"
	CodeRoleAlreadyExists       ErrorCode = "ROLE_ALREADY_EXISTS"
	CodePermissionAlreadyExists ErrorCode = "PERMISSION_ALREADY_EXISTS"
	CodeInputPermissionNotFound ErrorCode = "INPUT_PERMISSION_NOT_FOUND"
	CodeInputRoleNotFound       ErrorCode = "INPUT_ROLE_NOT_FOUND"
	CodeUserIDNotFound          ErrorCode = "USER_ID_NOT_FOUND"
	CodeInvalidUserRoles        ErrorCode = "INVALID_USER_ROLES"
	CodeInvalidObjectID         ErrorCode = "INVALID_OBJECT_ID"
	CodeInvalidToken            ErrorCode = "INVALID_TOKEN"
	CodeTokenExpired            ErrorCode = "TOKEN_EXPIRED"
	CodeTokenRevoked            ErrorCode = "TOKEN_REVOKED"
)

// Generic codes.
const (
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeAlreadyExists   ErrorCode = "ALREADY_EXISTS"
	CodeInvalidRequest  ErrorCode = "INVALID_REQUEST"
	CodeValidationError ErrorCode = "VALIDATION_ERROR"
	CodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	CodeForbidden       ErrorCode = "FORBIDDEN"
	CodeRateLimited     ErrorCode = "RATE_LIMITED"
	CodeConfigError     ErrorCode = "CONFIG_ERROR"

	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeStorageError ErrorCode = "STORAGE_ERROR"
	CodeUnavailable  ErrorCode = "UNAVAILABLE"
	CodeTimeout      ErrorCode = "TIMEOUT"
	CodeWiring       ErrorCode = "WIRING_ERROR"
)

// Error is the coded error carried through services to the API layer.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
	// Data is rendered to clients as-is.
	Data any
	// Details are log-only context.
	Details map[string]string
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WithData returns a copy of e carrying data for the client.
func (e *Error) WithData(data any) *Error {
	cp := *e
	cp.Data = data
	return &cp
}

// WithDetail returns a copy of e with one more log detail.
func (e *Error) WithDetail(key, value string) *Error {
	cp := *e
	cp.Details = make(map[string]string, len(e.Details)+1)
	for k, v := range e.Details {
		cp.Details[k] = v
	}
	cp.Details[key] = value
	return &cp
}

// Status is the HTTP status for e's code.
func (e *Error) Status() int {
	return StatusFor(e.Code)
}

func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(err error, code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message, Cause: err}
}

func Wrapf(err error, code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

// GetCode extracts the code of err, or CodeInternal for foreign errors.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// IsCode reports whether err carries code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

var (
	Is = errors.Is
	As = errors.As
)
