package wiring

import (
	"reflect"
	"sort"

	coreerrors "gatehouse/internal/core/errors"
)

// Pool maps capability names to constructed implementations. A Pool is
// immutable once built; layers hand a fresh Pool to the next layer.
type Pool struct {
	name    string
	entries map[string]any
}

// NewPool copies entries into a new named pool.
func NewPool(name string, entries map[string]any) *Pool {
	p := &Pool{name: name, entries: make(map[string]any, len(entries))}
	for k, v := range entries {
		p.entries[k] = v
	}
	return p
}

// Name is the pool label used in logs.
func (p *Pool) Name() string {
	if p == nil {
		return ""
	}
	return p.name
}

// Lookup returns the implementation registered under name.
func (p *Pool) Lookup(name string) (any, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.entries[name]
	return v, ok
}

// Names returns the capability names in sorted order.
func (p *Pool) Names() []string {
	if p == nil {
		return nil
	}
	names := make([]string, 0, len(p.entries))
	for k := range p.entries {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

// Providers is the ordered view a component sees while being built.
// Earlier pools shadow later ones, so the core pool always wins.
type Providers struct {
	pools []*Pool
}

// NewProviders stacks pools; pass the core pool first.
func NewProviders(pools ...*Pool) Providers {
	return Providers{pools: pools}
}

// Lookup returns the first implementation registered under name.
func (ps Providers) Lookup(name string) (any, bool) {
	for _, p := range ps.pools {
		if v, ok := p.Lookup(name); ok {
			return v, true
		}
	}
	return nil, false
}

// Has reports whether any pool holds name.
func (ps Providers) Has(name string) bool {
	_, ok := ps.Lookup(name)
	return ok
}

// Get looks up name and asserts it to T.
func Get[T any](ps Providers, name string) (T, error) {
	var zero T
	v, ok := ps.Lookup(name)
	if !ok {
		return zero, coreerrors.Newf(coreerrors.CodeWiring, "provider %q not found", name)
	}
	typed, ok := v.(T)
	if !ok {
		return zero, coreerrors.Newf(coreerrors.CodeWiring,
			"provider %q is %T, want %s", name, v, reflect.TypeOf((*T)(nil)).Elem())
	}
	return typed, nil
}

// MustGet is Get for builders whose requirement manifest already names
// the provider; a miss there is a programming error.
func MustGet[T any](ps Providers, name string) T {
	v, err := Get[T](ps, name)
	if err != nil {
		panic(err)
	}
	return v
}
