package server

import (
	"gatehouse/internal/api"
	"gatehouse/internal/config/schema"
	coreerrors "gatehouse/internal/core/errors"
	corelog "gatehouse/internal/core/log"
	"gatehouse/internal/core/provider"
	"gatehouse/internal/security"
	"gatehouse/internal/storage/drivers"
	"gatehouse/internal/wiring"
)

// CoreProviders holds the process-wide capabilities published in the core
// pool. Every layer resolves against it first.
type CoreProviders struct {
	Logger     corelog.Logger
	Config     *schema.Root
	Hasher     *security.Hasher
	Tokens     *security.Tokens
	Validator  *api.Validator
	LoginGuard *security.LoginGuard
	// Limiter is nil when rate limiting is disabled.
	Limiter *security.RateLimiter
	Storage *drivers.Set
}

// NewCoreProviders builds the core capabilities from cfg.
func NewCoreProviders(cfg *schema.Root, logger corelog.Logger, storage *drivers.Set) (*CoreProviders, error) {
	tokens, err := security.NewTokens(security.TokenConfig{
		Secret: cfg.Security.JWT.Secret.Value(),
		Expiry: cfg.Security.JWT.Expiry,
		Issuer: cfg.Security.JWT.Issuer,
	})
	if err != nil {
		return nil, err
	}

	cp := &CoreProviders{
		Logger:    logger,
		Config:    cfg,
		Hasher:    security.NewHasher(cfg.Security.BcryptCost),
		Tokens:    tokens,
		Validator: api.NewValidator(),
		LoginGuard: security.NewLoginGuard(security.LoginGuardConfig{
			MaxFailures:  cfg.Security.LoginLock.MaxFailures,
			Window:       cfg.Security.LoginLock.Window,
			LockDuration: cfg.Security.LoginLock.Duration,
		}),
		Storage: storage,
	}
	if rl := cfg.Security.RateLimit; rl.Enabled {
		cp.Limiter = security.NewRateLimiter(security.RateLimitConfig{Rate: rl.Rate, Burst: rl.Burst, TTL: rl.TTL})
	}
	return cp, nil
}

// Pool publishes the capabilities under their provider names.
func (cp *CoreProviders) Pool() *wiring.Pool {
	return wiring.NewPool("core", map[string]any{
		provider.Log:         cp.Logger,
		provider.ApiError:    coreerrors.NewAPIError(),
		provider.Hasher:      cp.Hasher,
		provider.Tokens:      cp.Tokens,
		provider.Validator:   cp.Validator,
		provider.Config:      cp.Config,
		provider.Storage:     cp.Storage,
		provider.LoginGuard:  cp.LoginGuard,
		provider.RateLimiter: cp.Limiter,
	})
}
