package services

import (
	coreerrors "gatehouse/internal/core/errors"
	corelog "gatehouse/internal/core/log"
	"gatehouse/internal/core/provider"
	"gatehouse/internal/repos"
	"gatehouse/internal/wiring"
)

// Components declares the service layer. Each service is resolved
// against the core pool and the repository layer.
func Components() []wiring.Component {
	return []wiring.Component{
		{
			Name: AuthServiceName,
			Requires: wiring.Requirement{
				repos.UserRepo, repos.RoleRepo, repos.TokenRepo,
				provider.Hasher, provider.Tokens, provider.LoginGuard,
				provider.ApiError, provider.Log,
			},
			Build: func(p wiring.Providers) (any, error) {
				d := AuthDeps{}
				var err error
				if d.Users, err = wiring.Get[repos.IUserRepository](p, repos.UserRepo); err != nil {
					return nil, err
				}
				if d.Roles, err = wiring.Get[repos.IRoleRepository](p, repos.RoleRepo); err != nil {
					return nil, err
				}
				if d.Tokens, err = wiring.Get[repos.ITokenRepository](p, repos.TokenRepo); err != nil {
					return nil, err
				}
				if d.Hasher, err = wiring.Get[PasswordHasher](p, provider.Hasher); err != nil {
					return nil, err
				}
				if d.Issuer, err = wiring.Get[TokenIssuer](p, provider.Tokens); err != nil {
					return nil, err
				}
				if d.Guard, err = wiring.Get[LoginLimiter](p, provider.LoginGuard); err != nil {
					return nil, err
				}
				d.ApiErr, d.Logger = ambient(p)
				return NewAuthService(d), nil
			},
		},
		{
			Name: UserServiceName,
			Requires: wiring.Requirement{
				repos.UserRepo, repos.RoleRepo, repos.PermissionRepo,
				provider.ApiError, provider.Log,
			},
			Build: func(p wiring.Providers) (any, error) {
				users, err := wiring.Get[repos.IUserRepository](p, repos.UserRepo)
				if err != nil {
					return nil, err
				}
				roles, err := wiring.Get[repos.IRoleRepository](p, repos.RoleRepo)
				if err != nil {
					return nil, err
				}
				perms, err := wiring.Get[repos.IPermissionRepository](p, repos.PermissionRepo)
				if err != nil {
					return nil, err
				}
				apiErr, logger := ambient(p)
				return NewUserService(users, roles, perms, apiErr, logger), nil
			},
		},
		{
			Name:     RoleServiceName,
			Requires: wiring.Requirement{repos.RoleRepo, repos.PermissionRepo, provider.ApiError, provider.Log},
			Build: func(p wiring.Providers) (any, error) {
				roles, err := wiring.Get[repos.IRoleRepository](p, repos.RoleRepo)
				if err != nil {
					return nil, err
				}
				perms, err := wiring.Get[repos.IPermissionRepository](p, repos.PermissionRepo)
				if err != nil {
					return nil, err
				}
				apiErr, logger := ambient(p)
				return NewRoleService(roles, perms, apiErr, logger), nil
			},
		},
		{
			Name:     PermissionServiceName,
			Requires: wiring.Requirement{repos.PermissionRepo, provider.ApiError, provider.Log},
			Build: func(p wiring.Providers) (any, error) {
				perms, err := wiring.Get[repos.IPermissionRepository](p, repos.PermissionRepo)
				if err != nil {
					return nil, err
				}
				apiErr, logger := ambient(p)
				return NewPermissionService(perms, apiErr, logger), nil
			},
		},
	}
}

// ambient fetches the error constructor and logger every service takes.
// Both are in the requirement lists, so lookups cannot miss.
func ambient(p wiring.Providers) (coreerrors.APIError, corelog.Logger) {
	return wiring.MustGet[coreerrors.APIError](p, provider.ApiError),
		wiring.MustGet[corelog.Logger](p, provider.Log)
}
