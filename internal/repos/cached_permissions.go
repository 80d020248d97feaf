package repos

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"gatehouse/internal/models"
)

const (
	activeCatalogKey   = "active"
	catalogLoadTimeout = 10 * time.Second
)

// CacheOption configures a CachedPermissions.
type CacheOption func(*CachedPermissions)

// WithHealthGate makes cache hits fail with the gate's error, so a cached
// catalog is never served while the backing store is unavailable.
func WithHealthGate(gate func(ctx context.Context) error) CacheOption {
	return func(c *CachedPermissions) { c.gate = gate }
}

// CachedPermissions serves the active permission catalog from memory for
// up to ttl. Concurrent misses share one storage query. Create through
// this repository drops the cached catalog, and a load that overlapped
// the drop is returned to its callers but never cached.
type CachedPermissions struct {
	inner IPermissionRepository
	cache *expirable.LRU[string, []*models.Permission]
	sf    singleflight.Group
	gen   atomic.Uint64
	gate  func(ctx context.Context) error
}

var _ IPermissionRepository = (*CachedPermissions)(nil)

func NewCachedPermissions(inner IPermissionRepository, ttl time.Duration, opts ...CacheOption) *CachedPermissions {
	c := &CachedPermissions{
		inner: inner,
		cache: expirable.NewLRU[string, []*models.Permission](1, nil, ttl),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CachedPermissions) Create(ctx context.Context, permission *models.Permission) error {
	err := c.inner.Create(ctx, permission)
	c.Invalidate()
	return err
}

func (c *CachedPermissions) FindActiveByName(ctx context.Context, name string) (*models.Permission, error) {
	return c.inner.FindActiveByName(ctx, name)
}

// List is cached only for the unfiltered active catalog.
func (c *CachedPermissions) List(ctx context.Context, filter PermissionFilter) ([]*models.Permission, error) {
	if filter.Name != "" || filter.Status != models.StatusActive {
		return c.inner.List(ctx, filter)
	}
	if cached, ok := c.cache.Get(activeCatalogKey); ok {
		if c.gate != nil {
			if err := c.gate(ctx); err != nil {
				return nil, err
			}
		}
		return cached, nil
	}

	// The load is shared by every waiting caller, so it is detached from
	// the first caller's cancellation.
	detached := context.WithoutCancel(ctx)
	v, err, _ := c.sf.Do(activeCatalogKey, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(detached, catalogLoadTimeout)
		defer cancel()
		gen := c.gen.Load()
		list, err := c.inner.List(loadCtx, filter)
		if err != nil {
			return nil, err
		}
		if c.gen.Load() == gen {
			c.cache.Add(activeCatalogKey, list)
		}
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*models.Permission), nil
}

// Invalidate drops the cached catalog.
func (c *CachedPermissions) Invalidate() {
	c.gen.Add(1)
	c.sf.Forget(activeCatalogKey)
	c.cache.Purge()
}
