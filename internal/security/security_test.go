package security

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreerrors "gatehouse/internal/core/errors"
)

func TestHasher(t *testing.T) {
	h := NewHasher(4)
	hash, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, h.Compare(hash, "s3cret"))
	assert.False(t, h.Compare(hash, "wrong"))
	assert.False(t, h.Compare("not-a-hash", "s3cret"))
}

func TestHasherCostClamped(t *testing.T) {
	assert.Equal(t, DefaultBcryptCost, NewHasher(0).Cost())
	assert.Equal(t, 4, NewHasher(1).Cost())
	assert.Equal(t, 31, NewHasher(99).Cost())
}

func TestHasherRejectsLongPassword(t *testing.T) {
	_, err := NewHasher(4).Hash(strings.Repeat("x", 100))
	assert.True(t, coreerrors.IsCode(err, coreerrors.CodeValidationError))
}

func TestTokensRequireSecret(t *testing.T) {
	_, err := NewTokens(TokenConfig{})
	assert.True(t, coreerrors.IsCode(err, coreerrors.CodeConfigError))
}

func TestTokensIssueAndParse(t *testing.T) {
	tokens, err := NewTokens(TokenConfig{Secret: "k", Issuer: "gatehouse"})
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenExpiry, tokens.Expiry())

	issued, err := tokens.Issue("user-1", []string{"admin"})
	require.NoError(t, err)
	assert.NotEmpty(t, issued.TokenID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), issued.Expiry, 5*time.Second)

	claims, err := tokens.Parse(issued.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Data.ID)
	assert.Equal(t, []string{"admin"}, claims.Data.Roles)
	assert.Equal(t, issued.TokenID, claims.ID)
}

func TestTokensRejectForeignOrExpired(t *testing.T) {
	tokens, err := NewTokens(TokenConfig{Secret: "k", Expiry: time.Minute})
	require.NoError(t, err)
	other, err := NewTokens(TokenConfig{Secret: "different"})
	require.NoError(t, err)

	issued, err := other.Issue("user-1", nil)
	require.NoError(t, err)
	_, err = tokens.Parse(issued.AccessToken)
	assert.True(t, coreerrors.IsCode(err, coreerrors.CodeInvalidToken))

	issued, err = tokens.Issue("user-1", nil)
	require.NoError(t, err)
	tokens.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = tokens.Parse(issued.AccessToken)
	assert.True(t, coreerrors.IsCode(err, coreerrors.CodeTokenExpired))
}

func TestTokensRejectNoneAlgorithm(t *testing.T) {
	tokens, err := NewTokens(TokenConfig{Secret: "k"})
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Data: ClaimsData{ID: "x"}}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tokens.Parse(unsigned)
	assert.True(t, coreerrors.IsCode(err, coreerrors.CodeInvalidToken))
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestRateLimiterPerKey(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	rl := NewRateLimiter(RateLimitConfig{Rate: 2, Burst: 3, TTL: time.Minute})
	rl.now = clock.now

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "burst request %d", i+1)
	}
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"), "other keys have their own bucket")

	clock.advance(500 * time.Millisecond)
	assert.True(t, rl.Allow("10.0.0.1"), "one token refilled")
	assert.False(t, rl.Allow("10.0.0.1"))
}

func TestRateLimiterCleanup(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	rl := NewRateLimiter(RateLimitConfig{TTL: time.Minute})
	rl.now = clock.now

	rl.Allow("a")
	clock.advance(45 * time.Second)
	rl.Allow("b")
	clock.advance(30 * time.Second)

	assert.Equal(t, 1, rl.Cleanup())
	assert.Equal(t, 1, rl.Len())
}

func TestLoginGuard(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	g := NewLoginGuard(LoginGuardConfig{MaxFailures: 3, Window: time.Minute, LockDuration: 10 * time.Minute})
	g.now = clock.now

	assert.False(t, g.Fail("ada"))
	clock.advance(2 * time.Minute)
	assert.False(t, g.Fail("ada"), "old failures fall out of the window")
	assert.False(t, g.Fail("ada"))
	assert.True(t, g.Fail("ada"))

	locked, remaining := g.Locked("ada")
	assert.True(t, locked)
	assert.Equal(t, 10*time.Minute, remaining)

	locked, _ = g.Locked("grace")
	assert.False(t, locked)

	clock.advance(11 * time.Minute)
	locked, _ = g.Locked("ada")
	assert.False(t, locked)

	g.Fail("ada")
	g.Succeed("ada")
	assert.False(t, g.Fail("ada"))
	assert.False(t, g.Fail("ada"), "success reset the history")
}

func TestLoginGuardCleanupDropsStaleKeys(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	g := NewLoginGuard(LoginGuardConfig{MaxFailures: 2, Window: time.Minute, LockDuration: 10 * time.Minute})
	g.now = clock.now

	for i := 0; i < 1000; i++ {
		g.Fail(fmt.Sprintf("ghost-%d", i))
	}
	g.Fail("ada")
	assert.True(t, g.Fail("ada"))
	require.Equal(t, 1001, g.Len())

	clock.advance(2 * time.Minute)
	g.Fail("grace")
	assert.Equal(t, 1000, g.Cleanup(), "failures outside the window are dropped")
	assert.Equal(t, 2, g.Len(), "locked and recently failed keys survive")

	clock.advance(24 * time.Hour)
	assert.Equal(t, 2, g.Cleanup())
	assert.Zero(t, g.Len())
	locked, _ := g.Locked("ada")
	assert.False(t, locked)
}

func TestLoginGuardDisabled(t *testing.T) {
	g := NewLoginGuard(LoginGuardConfig{})
	for i := 0; i < 10; i++ {
		assert.False(t, g.Fail("ada"))
	}
	locked, _ := g.Locked("ada")
	assert.False(t, locked)

	var nilGuard *LoginGuard
	assert.False(t, nilGuard.Fail("ada"))
}
