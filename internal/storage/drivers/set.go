package drivers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gatehouse/internal/config/schema"
	coreerrors "gatehouse/internal/core/errors"
	corelog "gatehouse/internal/core/log"
	"gatehouse/internal/storage/connmgr"
	"gatehouse/internal/wiring"
)

// SeedPoolName labels the pool of driver exports.
const SeedPoolName = "storage"

// Parse splits a comma-separated driver list, trimming, lower-casing and
// dropping blanks and duplicates while keeping order.
func Parse(list string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, part := range strings.Split(list, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// Known lists the registered driver identifiers.
func Known() []string {
	names := make([]string, 0, len(builtin))
	for k := range builtin {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Set is the selected drivers, in configuration order.
type Set struct {
	drivers []Driver
	logger  corelog.Logger
}

// Open builds every driver named in cfg.Storage.Drivers. Unknown names are
// all reported together, and two drivers may not publish the same
// provider or repository. Nothing is connected until Start.
func Open(cfg *schema.Root, deps Deps) (*Set, error) {
	names := Parse(cfg.Storage.Drivers)
	if len(names) == 0 {
		return nil, coreerrors.New(coreerrors.CodeConfigError, "no database driver selected")
	}

	var unknown []string
	for _, name := range names {
		if _, ok := builtin[name]; !ok {
			unknown = append(unknown, fmt.Sprintf("%q", name))
		}
	}
	if len(unknown) > 0 {
		return nil, coreerrors.Newf(coreerrors.CodeConfigError,
			"database driver %s not found", strings.Join(unknown, ", "))
	}

	if deps.Logger == nil {
		deps.Logger = corelog.Default()
	}
	s := &Set{logger: corelog.Component(deps.Logger, "drivers")}
	for _, name := range names {
		d, err := builtin[name](cfg, deps)
		if err != nil {
			_ = s.Close()
			return nil, coreerrors.Wrapf(err, coreerrors.CodeConfigError, "open database driver %q", name)
		}
		s.drivers = append(s.drivers, d)
	}
	if err := s.checkConflicts(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// NewSet wraps already-built drivers.
func NewSet(logger corelog.Logger, drivers ...Driver) (*Set, error) {
	if logger == nil {
		logger = corelog.Default()
	}
	s := &Set{drivers: drivers, logger: logger}
	if err := s.checkConflicts(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Set) checkConflicts() error {
	owner := make(map[string]string)
	claim := func(driver, name string) error {
		if prev, ok := owner[name]; ok {
			return coreerrors.Newf(coreerrors.CodeConfigError,
				"database drivers %q and %q both provide %q", prev, driver, name)
		}
		owner[name] = driver
		return nil
	}
	for _, d := range s.drivers {
		for export := range d.Exports() {
			if err := claim(d.Name(), export); err != nil {
				return err
			}
		}
		for _, c := range d.Repositories() {
			if err := claim(d.Name(), c.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// Names returns the driver identifiers in order.
func (s *Set) Names() []string {
	out := make([]string, 0, len(s.drivers))
	for _, d := range s.drivers {
		out = append(out, d.Name())
	}
	return out
}

// Seed is the pool the repository layer resolves against.
func (s *Set) Seed() *wiring.Pool {
	entries := make(map[string]any)
	for _, d := range s.drivers {
		for k, v := range d.Exports() {
			entries[k] = v
		}
	}
	return wiring.NewPool(SeedPoolName, entries)
}

// RepositoryLayer collects every driver's repositories.
func (s *Set) RepositoryLayer() wiring.Layer {
	layer := wiring.Layer{Kind: wiring.KindRepository}
	for _, d := range s.drivers {
		layer.Components = append(layer.Components, d.Repositories()...)
	}
	return layer
}

// Start connects every driver. A failed initial connect is logged and
// left to the driver's retry loop.
func (s *Set) Start(ctx context.Context) {
	for _, d := range s.drivers {
		if err := d.Start(ctx); err != nil {
			s.logger.WithField("driver", d.Name()).WithError(err).Warn("initial connect failed, retrying in background")
		}
	}
}

// Status reports every driver's connection state.
func (s *Set) Status() []connmgr.Status {
	out := make([]connmgr.Status, 0, len(s.drivers))
	for _, d := range s.drivers {
		out = append(out, d.Status())
	}
	return out
}

// Ready reports whether every driver is ready.
func (s *Set) Ready() bool {
	for _, d := range s.drivers {
		if !d.Status().Ready {
			return false
		}
	}
	return true
}

// Close disconnects every driver.
func (s *Set) Close() error {
	var errs []error
	for _, d := range s.drivers {
		if err := d.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", d.Name(), err))
		}
	}
	return errors.Join(errs...)
}
