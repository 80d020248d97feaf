package errors

// Sentinels for errors.Is checks. They carry no per-call context.
var (
	ErrInvalidCredential       = New(CodeInvalidCredential, "invalid credential")
	ErrSignupUserExists        = New(CodeSignupUserExists, "user already exists")
	ErrRoleAlreadyExists       = New(CodeRoleAlreadyExists, "role already exists")
	ErrPermissionAlreadyExists = New(CodePermissionAlreadyExists, "permission already exists")
	ErrInputPermissionNotFound = New(CodeInputPermissionNotFound, "permission not found")
	ErrInputRoleNotFound       = New(CodeInputRoleNotFound, "role not found")
	ErrUserIDNotFound          = New(CodeUserIDNotFound, "user not found")
	ErrInvalidUserRoles        = New(CodeInvalidUserRoles, "invalid user roles")
	ErrInvalidObjectID         = New(CodeInvalidObjectID, "invalid object id")
	ErrInvalidToken            = New(CodeInvalidToken, "invalid token")
	ErrTokenExpired            = New(CodeTokenExpired, "token expired")
	ErrTokenRevoked            = New(CodeTokenRevoked, "token revoked")

	ErrNotFound       = New(CodeNotFound, "resource not found")
	ErrInvalidRequest = New(CodeInvalidRequest, "invalid request")
	ErrUnauthorized   = New(CodeUnauthorized, "unauthorized")
	ErrRateLimited    = New(CodeRateLimited, "rate limit exceeded")
	ErrInternal       = New(CodeInternal, "internal error")
	ErrStorageError   = New(CodeStorageError, "storage error")
	ErrUnavailable    = New(CodeUnavailable, "service unavailable")
)

func IsNotFound(err error) bool {
	return IsCode(err, CodeNotFound) ||
		IsCode(err, CodeUserIDNotFound) ||
		IsCode(err, CodeInputRoleNotFound) ||
		IsCode(err, CodeInputPermissionNotFound)
}

func IsAuthError(err error) bool {
	return IsCode(err, CodeInvalidCredential) ||
		IsCode(err, CodeInvalidToken) ||
		IsCode(err, CodeTokenExpired) ||
		IsCode(err, CodeTokenRevoked) ||
		IsCode(err, CodeUnauthorized)
}

// IsRetryable reports whether a caller may try the same operation again.
func IsRetryable(err error) bool {
	switch GetCode(err) {
	case CodeUnavailable, CodeTimeout, CodeRateLimited:
		return true
	default:
		return false
	}
}
