package pgrepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"gatehouse/internal/config/schema"
	"gatehouse/internal/core/provider"
	"gatehouse/internal/repos"
	"gatehouse/internal/storage/connmgr"
	"gatehouse/internal/wiring"
)

func acquirer(p wiring.Providers) (Acquirer, error) {
	return wiring.Get[*connmgr.Manager[*pgxpool.Pool]](p, Provider)
}

// Components declares the postgres-backed repositories.
func Components() []wiring.Component {
	return []wiring.Component{
		{
			Name:     repos.UserRepo,
			Requires: wiring.Requirement{Provider},
			Build: func(p wiring.Providers) (any, error) {
				db, err := acquirer(p)
				if err != nil {
					return nil, err
				}
				return NewUserRepository(db), nil
			},
		},
		{
			Name:     repos.RoleRepo,
			Requires: wiring.Requirement{Provider},
			Build: func(p wiring.Providers) (any, error) {
				db, err := acquirer(p)
				if err != nil {
					return nil, err
				}
				return NewRoleRepository(db), nil
			},
		},
		{
			Name:     repos.PermissionRepo,
			Requires: wiring.Requirement{Provider, provider.Config},
			Build: func(p wiring.Providers) (any, error) {
				db, err := acquirer(p)
				if err != nil {
					return nil, err
				}
				cfg, err := wiring.Get[*schema.Root](p, provider.Config)
				if err != nil {
					return nil, err
				}
				var repo repos.IPermissionRepository = NewPermissionRepository(db)
				if ttl := cfg.Storage.CatalogTTL; ttl > 0 {
					repo = repos.NewCachedPermissions(repo, ttl, repos.WithHealthGate(func(ctx context.Context) error {
						_, err := db.Acquire(ctx)
						return err
					}))
				}
				return repo, nil
			},
		},
	}
}
