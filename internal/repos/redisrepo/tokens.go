// Package redisrepo keeps the issued-token registry in redis.
package redisrepo

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	coreerrors "gatehouse/internal/core/errors"
	"gatehouse/internal/repos"
	"gatehouse/internal/storage/connmgr"
	"gatehouse/internal/wiring"
)

// Provider is the name redis drivers export their manager under.
const Provider = "Redis"

const tokenKeyPrefix = "gatehouse:token:"

// Acquirer hands out the live client.
type Acquirer interface {
	Acquire(ctx context.Context) (*goredis.Client, error)
}

type TokenRepository struct {
	db Acquirer
}

var _ repos.ITokenRepository = (*TokenRepository)(nil)

func NewTokenRepository(db Acquirer) *TokenRepository {
	return &TokenRepository{db: db}
}

func tokenKey(id string) string { return tokenKeyPrefix + id }

// Save records tokenID for userID until ttl elapses.
func (r *TokenRepository) Save(ctx context.Context, tokenID, userID string, ttl time.Duration) error {
	client, err := r.db.Acquire(ctx)
	if err != nil {
		return err
	}
	if err := client.Set(ctx, tokenKey(tokenID), userID, ttl).Err(); err != nil {
		return coreerrors.Wrap(err, coreerrors.CodeStorageError, "save token")
	}
	return nil
}

func (r *TokenRepository) Active(ctx context.Context, tokenID string) (bool, error) {
	client, err := r.db.Acquire(ctx)
	if err != nil {
		return false, err
	}
	n, err := client.Exists(ctx, tokenKey(tokenID)).Result()
	if err != nil {
		return false, coreerrors.Wrap(err, coreerrors.CodeStorageError, "check token")
	}
	return n > 0, nil
}

// Revoke forgets tokenID. Revoking an unknown token is not an error.
func (r *TokenRepository) Revoke(ctx context.Context, tokenID string) error {
	client, err := r.db.Acquire(ctx)
	if err != nil {
		return err
	}
	if err := client.Del(ctx, tokenKey(tokenID)).Err(); err != nil {
		return coreerrors.Wrap(err, coreerrors.CodeStorageError, "revoke token")
	}
	return nil
}

// Components declares the redis-backed repositories.
func Components() []wiring.Component {
	return []wiring.Component{{
		Name:     repos.TokenRepo,
		Requires: wiring.Requirement{Provider},
		Build: func(p wiring.Providers) (any, error) {
			m, err := wiring.Get[*connmgr.Manager[*goredis.Client]](p, Provider)
			if err != nil {
				return nil, err
			}
			return NewTokenRepository(m), nil
		},
	}}
}
