package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	coreerrors "gatehouse/internal/core/errors"
	corelog "gatehouse/internal/core/log"
	"gatehouse/internal/models"
	"gatehouse/internal/repos"
	"gatehouse/internal/security"
)

// Login failure reasons carried in INVALID_CREDENTIAL data.
const (
	reasonUnknownUser   = "101"
	reasonWrongPassword = "102"
)

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	ID          string    `json:"_id"`
	AccessToken string    `json:"accessToken"`
	Expiry      time.Time `json:"expiry"`
}

type SignupInput struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// SignupResult is the new account merged with its first access token.
type SignupResult struct {
	AccessToken string    `json:"accessToken"`
	Expiry      time.Time `json:"expiry"`
	models.User
}

// AuthService issues and revokes access tokens.
type AuthService struct {
	base
	users  repos.IUserRepository
	roles  repos.IRoleRepository
	tokens repos.ITokenRepository
	hasher PasswordHasher
	issuer TokenIssuer
	guard  LoginLimiter
}

// AuthDeps groups the collaborators of AuthService. Guard may be nil.
type AuthDeps struct {
	Users  repos.IUserRepository
	Roles  repos.IRoleRepository
	Tokens repos.ITokenRepository
	Hasher PasswordHasher
	Issuer TokenIssuer
	Guard  LoginLimiter
	ApiErr coreerrors.APIError
	Logger corelog.Logger
}

func NewAuthService(d AuthDeps) *AuthService {
	return &AuthService{
		base:   newBase(AuthServiceName, d.ApiErr, d.Logger),
		users:  d.Users,
		roles:  d.Roles,
		tokens: d.Tokens,
		hasher: d.Hasher,
		issuer: d.Issuer,
		guard:  d.Guard,
	}
}

// Login matches in.Username against email or username and returns a
// signed token carrying the user's active role names.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	key := strings.ToLower(strings.TrimSpace(in.Username))
	if s.guard != nil {
		if locked, remaining := s.guard.Locked(key); locked {
			retry := int(math.Ceil(remaining.Seconds()))
			return nil, s.fail("Login", s.apiErr(coreerrors.CodeRateLimited,
				map[string]any{"retryAfter": retry},
				fmt.Sprintf("Too many failed login attempts, retry in %d seconds", retry)))
		}
	}

	user, err := s.users.FindByLogin(ctx, in.Username)
	if err != nil {
		if coreerrors.IsCode(err, coreerrors.CodeNotFound) {
			s.failedAttempt(key)
			return nil, s.fail("Login", s.invalidCredential(reasonUnknownUser))
		}
		return nil, s.fail("Login", err)
	}
	if !s.hasher.Compare(user.Password, in.Password) {
		s.failedAttempt(key)
		return nil, s.fail("Login", s.invalidCredential(reasonWrongPassword))
	}

	roleNames, err := s.activeRoleNames(ctx, user.RoleIDs)
	if err != nil {
		return nil, s.fail("Login", err)
	}
	issued, err := s.issue(ctx, user.ID, roleNames)
	if err != nil {
		return nil, s.fail("Login", err)
	}
	if s.guard != nil {
		s.guard.Succeed(key)
	}

	s.logger.WithField("user", user.ID).Debug("login succeeded")
	return &LoginResult{ID: user.ID, AccessToken: issued.AccessToken, Expiry: issued.Expiry}, nil
}

// Signup creates an active account and logs it in.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*SignupResult, error) {
	conflicts, err := s.users.FindConflicts(ctx, in.Email, in.Username)
	if err != nil {
		return nil, s.fail("Signup", err)
	}
	if len(conflicts) > 0 {
		return nil, s.fail("Signup", s.userExists(conflicts, in))
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, s.fail("Signup", err)
	}
	user := &models.User{
		Email:    in.Email,
		Username: in.Username,
		Password: hash,
		RoleIDs:  []string{},
		Status:   models.StatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if coreerrors.IsCode(err, coreerrors.CodeAlreadyExists) {
			err = s.apiErr(coreerrors.CodeSignupUserExists, nil, "")
		}
		return nil, s.fail("Signup", err)
	}

	issued, err := s.issue(ctx, user.ID, nil)
	if err != nil {
		return nil, s.fail("Signup", err)
	}
	s.logger.WithField("user", user.ID).Info("user signed up")
	return &SignupResult{AccessToken: issued.AccessToken, Expiry: issued.Expiry, User: *user}, nil
}

// Authenticate verifies token and checks it has not been revoked.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*security.Claims, error) {
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return nil, err
	}
	active, err := s.tokens.Active(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, s.apiErr(coreerrors.CodeTokenRevoked, nil, "")
	}
	return claims, nil
}

// Logout revokes token. Revoking an already revoked token fails with
// TOKEN_REVOKED.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.Authenticate(ctx, token)
	if err != nil {
		return s.fail("Logout", err)
	}
	if err := s.tokens.Revoke(ctx, claims.ID); err != nil {
		return s.fail("Logout", err)
	}
	s.logger.WithField("user", claims.Data.ID).Debug("token revoked")
	return nil
}

func (s *AuthService) issue(ctx context.Context, userID string, roles []string) (*security.Issued, error) {
	issued, err := s.issuer.Issue(userID, roles)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Save(ctx, issued.TokenID, userID, s.issuer.Expiry()); err != nil {
		return nil, err
	}
	return issued, nil
}

func (s *AuthService) activeRoleNames(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	roles, err := s.roles.ListByIDs(ctx, ids, models.StatusActive)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	return names, nil
}

func (s *AuthService) failedAttempt(key string) {
	if s.guard != nil && s.guard.Fail(key) {
		s.logger.WithField("login", key).Warn("login locked after repeated failures")
	}
}

func (s *AuthService) invalidCredential(reason string) error {
	return s.apiErr(coreerrors.CodeInvalidCredential, map[string]string{"errorCode": reason}, "")
}

func (s *AuthService) userExists(conflicts []*models.User, in SignupInput) error {
	var msgs []string
	for _, u := range conflicts {
		if u.Email == in.Email {
			msgs = append(msgs, fmt.Sprintf("The email %s already registered", in.Email))
		}
		if u.Username == in.Username {
			msgs = append(msgs, fmt.Sprintf("The username %s already registered", in.Username))
		}
	}
	return s.apiErr(coreerrors.CodeSignupUserExists, nil, strings.Join(msgs, "\r\n"))
}
