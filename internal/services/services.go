// Package services implements the identity domain: authentication, user
// role assignment, and the role and permission catalogs.
package services

import (
	"time"

	coreerrors "gatehouse/internal/core/errors"
	corelog "gatehouse/internal/core/log"
	"gatehouse/internal/security"
)

// Names under which the service layer publishes its components.
const (
	AuthServiceName       = "AuthService"
	UserServiceName       = "UserService"
	RoleServiceName       = "RoleService"
	PermissionServiceName = "PermissionService"
)

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// TokenIssuer signs and parses access tokens.
type TokenIssuer interface {
	Issue(userID string, roles []string) (*security.Issued, error)
	Parse(token string) (*security.Claims, error)
	Expiry() time.Duration
}

// LoginLimiter tracks failed logins per account.
type LoginLimiter interface {
	Locked(key string) (bool, time.Duration)
	Fail(key string) bool
	Succeed(key string)
}

// base carries what every service shares.
type base struct {
	name   string
	apiErr coreerrors.APIError
	logger corelog.Logger
}

func newBase(name string, apiErr coreerrors.APIError, logger corelog.Logger) base {
	if apiErr == nil {
		apiErr = coreerrors.NewAPIError()
	}
	if logger == nil {
		logger = corelog.Default()
	}
	return base{name: name, apiErr: apiErr, logger: logger.WithField("service", name)}
}

// fail logs err against op and returns it unchanged. Client errors are
// logged at warn level, everything else at error level.
func (b base) fail(op string, err error) error {
	entry := b.logger.WithError(err).WithField("op", op)
	if coreerrors.HTTPStatus(err) >= 500 {
		entry.Errorf("%s.%s returned error", b.name, op)
	} else {
		entry.Warnf("%s.%s returned error", b.name, op)
	}
	return err
}
