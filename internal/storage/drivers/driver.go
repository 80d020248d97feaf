// Package drivers turns the configured driver list into the storage seed
// pool and the repository layer of the wiring graph.
package drivers

import (
	"context"

	"gatehouse/internal/config/schema"
	corelog "gatehouse/internal/core/log"
	"gatehouse/internal/storage/connmgr"
	"gatehouse/internal/wiring"
)

// Driver is one selected storage backend.
type Driver interface {
	// Name is the identifier used in storage.drivers.
	Name() string
	// Exports are the providers published to the repository layer.
	Exports() map[string]any
	// Repositories are the components resolved against Exports.
	Repositories() []wiring.Component
	// Start connects. Failure is logged and retried in the background.
	Start(ctx context.Context) error
	Status() connmgr.Status
	Close() error
}

// Deps are the shared collaborators handed to every driver factory.
type Deps struct {
	Logger    corelog.Logger
	Metrics   *connmgr.Metrics
	Scheduler connmgr.Scheduler
}

func (d Deps) managerOptions() []connmgr.Option {
	opts := []connmgr.Option{connmgr.WithMetrics(d.Metrics)}
	if d.Logger != nil {
		opts = append(opts, connmgr.WithLogger(d.Logger))
	}
	if d.Scheduler != nil {
		opts = append(opts, connmgr.WithScheduler(d.Scheduler))
	}
	return opts
}

func managerConfig(name string, cfg schema.StorageConfig) connmgr.Config {
	return connmgr.Config{
		Name:              name,
		BaseWait:          cfg.Retry.BaseWait,
		Increment:         cfg.Retry.Increment,
		HeartbeatInterval: cfg.HeartbeatInterval,
		ProbeTimeout:      cfg.ProbeTimeout,
	}
}

// Factory builds a driver from configuration.
type Factory func(cfg *schema.Root, deps Deps) (Driver, error)

// managed adapts a connmgr.Manager to Driver.
type managed[H any] struct {
	name     string
	export   string
	manager  *connmgr.Manager[H]
	repos    []wiring.Component
	shutdown func()
}

func (d *managed[H]) Name() string { return d.name }

func (d *managed[H]) Exports() map[string]any {
	return map[string]any{d.export: d.manager}
}

func (d *managed[H]) Repositories() []wiring.Component { return d.repos }

func (d *managed[H]) Start(ctx context.Context) error { return d.manager.Connect(ctx) }

func (d *managed[H]) Status() connmgr.Status { return d.manager.Status() }

func (d *managed[H]) Close() error {
	err := d.manager.Disconnect()
	if d.shutdown != nil {
		d.shutdown()
	}
	return err
}
