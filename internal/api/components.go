package api

import (
	corelog "gatehouse/internal/core/log"
	"gatehouse/internal/core/provider"
	"gatehouse/internal/routing"
	"gatehouse/internal/security"
	"gatehouse/internal/services"
	"gatehouse/internal/wiring"
)

// Names of the handler groups.
const (
	AuthControllerName       = "AuthController"
	UserControllerName       = "UserController"
	RoleControllerName       = "RoleController"
	PermissionControllerName = "PermissionController"
	HealthControllerName     = "HealthController"
)

// Components declares the handler-group layer, resolved against the core
// pool and the service layer.
func Components() []wiring.Component {
	return []wiring.Component{
		{
			Name:     AuthControllerName,
			Requires: wiring.Requirement{services.AuthServiceName, provider.Validator, provider.RateLimiter, provider.Log},
			Build: func(p wiring.Providers) (any, error) {
				auth, err := wiring.Get[AuthAPI](p, services.AuthServiceName)
				if err != nil {
					return nil, err
				}
				rl, err := wiring.Get[*security.RateLimiter](p, provider.RateLimiter)
				if err != nil {
					return nil, err
				}
				var limiter Limiter
				if rl != nil {
					limiter = rl
				}
				return NewAuthController(auth, validatorFrom(p), limiter, logFrom(p)), nil
			},
		},
		{
			Name:     UserControllerName,
			Requires: wiring.Requirement{services.UserServiceName, provider.Log},
			Build: func(p wiring.Providers) (any, error) {
				users, err := wiring.Get[UserAPI](p, services.UserServiceName)
				if err != nil {
					return nil, err
				}
				return NewUserController(users, logFrom(p)), nil
			},
		},
		{
			Name:     RoleControllerName,
			Requires: wiring.Requirement{services.RoleServiceName, provider.Validator, provider.Log},
			Build: func(p wiring.Providers) (any, error) {
				roles, err := wiring.Get[RoleAPI](p, services.RoleServiceName)
				if err != nil {
					return nil, err
				}
				return NewRoleController(roles, validatorFrom(p), logFrom(p)), nil
			},
		},
		{
			Name:     PermissionControllerName,
			Requires: wiring.Requirement{services.PermissionServiceName, provider.Validator, provider.Log},
			Build: func(p wiring.Providers) (any, error) {
				perms, err := wiring.Get[PermissionAPI](p, services.PermissionServiceName)
				if err != nil {
					return nil, err
				}
				return NewPermissionController(perms, validatorFrom(p), logFrom(p)), nil
			},
		},
		{
			Name:     HealthControllerName,
			Requires: wiring.Requirement{provider.Storage, provider.Log},
			Build: func(p wiring.Providers) (any, error) {
				storage, err := wiring.Get[StorageHealth](p, provider.Storage)
				if err != nil {
					return nil, err
				}
				return NewHealthController(storage, logFrom(p)), nil
			},
		},
	}
}

// Groups converts the built handler layer into route collector input,
// keeping declaration order.
func Groups(layer wiring.LayerResult) []routing.NamedGroup {
	var out []routing.NamedGroup
	for _, n := range layer.Instances() {
		if g, ok := n.Instance.(routing.Group); ok {
			out = append(out, routing.NamedGroup{Name: n.Name, Group: g})
		}
	}
	return out
}

func validatorFrom(p wiring.Providers) *Validator {
	return wiring.MustGet[*Validator](p, provider.Validator)
}

func logFrom(p wiring.Providers) corelog.Logger {
	return wiring.MustGet[corelog.Logger](p, provider.Log)
}
