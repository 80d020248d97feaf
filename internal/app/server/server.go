// Package server bootstraps gatehouse: it opens the storage drivers,
// assembles the wiring graph and serves the collected routes.
package server

import (
	"context"
	"time"

	"gatehouse/internal/api"
	"gatehouse/internal/config/schema"
	corelog "gatehouse/internal/core/log"
	"gatehouse/internal/routing"
	"gatehouse/internal/storage/drivers"
	"gatehouse/internal/wiring"
)

const limiterCleanupInterval = time.Minute

// App is a fully wired gatehouse process.
type App struct {
	cfg     *schema.Root
	logger  corelog.Logger
	core    *CoreProviders
	storage *drivers.Set
	result  *wiring.Result
	routes  []routing.Route
	http    *api.Server
}

func (a *App) Routes() []routing.Route { return a.routes }

func (a *App) Storage() *drivers.Set { return a.storage }

func (a *App) HTTP() *api.Server { return a.http }

// Components lists every wired component per layer.
func (a *App) Components() map[wiring.Kind][]string {
	out := make(map[wiring.Kind][]string, len(a.result.Layers))
	for _, l := range a.result.Layers {
		out[l.Kind] = append([]string(nil), l.Order...)
	}
	return out
}

// Start connects every storage driver and starts background upkeep. A
// driver that fails its first connect keeps retrying on its own.
func (a *App) Start(ctx context.Context) {
	a.storage.Start(ctx)
	if a.core.Limiter != nil {
		go a.core.Limiter.Run(ctx, limiterCleanupInterval)
	}
	go a.core.LoginGuard.Run(ctx, limiterCleanupInterval)
}

// Serve serves HTTP until ctx is done, then closes every driver.
func (a *App) Serve(ctx context.Context) error {
	defer func() {
		if err := a.storage.Close(); err != nil {
			a.logger.WithError(err).Warn("closing storage drivers")
		}
	}()
	return a.http.Serve(ctx)
}

// Run is Start followed by Serve.
func (a *App) Run(ctx context.Context) error {
	a.Start(ctx)
	return a.Serve(ctx)
}

// Close releases storage without serving. It is for callers that built
// an App but never ran it.
func (a *App) Close() error {
	return a.storage.Close()
}
