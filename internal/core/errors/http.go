package errors

import "net/http"

var statusByCode = map[ErrorCode]int{
	CodeInvalidCredential:       http.StatusUnauthorized,
	CodeInvalidToken:            http.StatusUnauthorized,
	CodeTokenExpired:            http.StatusUnauthorized,
	CodeTokenRevoked:            http.StatusUnauthorized,
	CodeUnauthorized:            http.StatusUnauthorized,
	CodeForbidden:               http.StatusForbidden,
	CodeSignupUserExists:        http.StatusBadRequest,
	CodeRoleAlreadyExists:       http.StatusBadRequest,
	CodePermissionAlreadyExists: http.StatusBadRequest,
	CodeAlreadyExists:           http.StatusConflict,
	CodeInputPermissionNotFound: http.StatusNotFound,
	CodeInputRoleNotFound:       http.StatusNotFound,
	CodeInvalidUserRoles:        http.StatusBadRequest,
	CodeInvalidObjectID:         http.StatusBadRequest,
	CodeInvalidRequest:          http.StatusBadRequest,
	CodeValidationError:         http.StatusBadRequest,
	CodeUserIDNotFound:          http.StatusNotFound,
	CodeNotFound:                http.StatusNotFound,
	CodeRateLimited:             http.StatusTooManyRequests,
	CodeUnavailable:             http.StatusServiceUnavailable,
	CodeTimeout:                 http.StatusGatewayTimeout,
}

// StatusFor maps a code to an HTTP status; unknown codes are 500.
func StatusFor(code ErrorCode) int {
	if s, ok := statusByCode[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// HTTPStatus maps any error to an HTTP status.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return StatusFor(GetCode(err))
}

// APIError builds client-facing errors. It is exported to components
// through the core provider pool under the name "ApiError".
type APIError func(code ErrorCode, data any, message string) *Error

// NewAPIError returns the default APIError constructor. An empty message
// falls back to the sentinel text for code.
func NewAPIError() APIError {
	return func(code ErrorCode, data any, message string) *Error {
		if message == "" {
			message = string(code)
			for _, s := range sentinels {
				if s.Code == code {
					message = s.Message
					break
				}
			}
		}
		return &Error{Code: code, Message: message, Data: data}
	}
}

var sentinels = []*Error{
	ErrInvalidCredential, ErrSignupUserExists, ErrRoleAlreadyExists,
	ErrPermissionAlreadyExists, ErrInputPermissionNotFound, ErrInputRoleNotFound,
	ErrUserIDNotFound, ErrInvalidUserRoles, ErrInvalidObjectID, ErrInvalidToken,
	ErrTokenExpired, ErrTokenRevoked, ErrNotFound, ErrInvalidRequest,
	ErrUnauthorized, ErrRateLimited, ErrInternal, ErrStorageError, ErrUnavailable,
}
