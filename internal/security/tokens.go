package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	coreerrors "gatehouse/internal/core/errors"
)

// DefaultTokenExpiry is the access token lifetime when none is configured.
const DefaultTokenExpiry = time.Hour

// TokenConfig configures Tokens.
type TokenConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

// ClaimsData is the identity payload of an access token.
type ClaimsData struct {
	ID    string   `json:"_id"`
	Roles []string `json:"roles,omitempty"`
}

// Claims are the JWT claims of an access token.
type Claims struct {
	Data ClaimsData `json:"data"`
	jwt.RegisteredClaims
}

// Issued is a freshly signed access token.
type Issued struct {
	AccessToken string
	TokenID     string
	Expiry      time.Time
}

// Tokens signs and verifies HS256 access tokens.
type Tokens struct {
	secret []byte
	expiry time.Duration
	issuer string
	now    func() time.Time
}

func NewTokens(cfg TokenConfig) (*Tokens, error) {
	if cfg.Secret == "" {
		return nil, coreerrors.New(coreerrors.CodeConfigError, "jwt secret is required")
	}
	if cfg.Expiry <= 0 {
		cfg.Expiry = DefaultTokenExpiry
	}
	return &Tokens{
		secret: []byte(cfg.Secret),
		expiry: cfg.Expiry,
		issuer: cfg.Issuer,
		now:    time.Now,
	}, nil
}

// Expiry is the lifetime of issued tokens.
func (t *Tokens) Expiry() time.Duration { return t.expiry }

// Issue signs a token for userID. Roles are omitted when empty.
func (t *Tokens) Issue(userID string, roles []string) (*Issued, error) {
	now := t.now()
	expiresAt := now.Add(t.expiry)
	tokenID := uuid.NewString()

	claims := &Claims{
		Data: ClaimsData{ID: userID, Roles: roles},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        tokenID,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return nil, coreerrors.Wrap(err, coreerrors.CodeInternal, "sign access token")
	}
	return &Issued{AccessToken: signed, TokenID: tokenID, Expiry: expiresAt}, nil
}

// Parse verifies tokenString and returns its claims.
func (t *Tokens) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, coreerrors.Wrap(err, coreerrors.CodeTokenExpired, "access token expired")
		}
		return nil, coreerrors.Wrap(err, coreerrors.CodeInvalidToken, "invalid access token")
	}
	return claims, nil
}
