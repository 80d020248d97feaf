package memrepo

import (
	"gatehouse/internal/repos"
	"gatehouse/internal/wiring"
)

// Provider is the name the memory driver exports its *Store under.
const Provider = "Memory"

// Components declares the repositories backed by a *Store.
func Components() []wiring.Component {
	return []wiring.Component{
		{
			Name:     repos.UserRepo,
			Requires: wiring.Requirement{Provider},
			Build: func(p wiring.Providers) (any, error) {
				s, err := wiring.Get[*Store](p, Provider)
				if err != nil {
					return nil, err
				}
				return s.Users(), nil
			},
		},
		{
			Name:     repos.RoleRepo,
			Requires: wiring.Requirement{Provider},
			Build: func(p wiring.Providers) (any, error) {
				s, err := wiring.Get[*Store](p, Provider)
				if err != nil {
					return nil, err
				}
				return s.Roles(), nil
			},
		},
		{
			Name:     repos.PermissionRepo,
			Requires: wiring.Requirement{Provider},
			Build: func(p wiring.Providers) (any, error) {
				s, err := wiring.Get[*Store](p, Provider)
				if err != nil {
					return nil, err
				}
				return s.Permissions(), nil
			},
		},
	}
}
