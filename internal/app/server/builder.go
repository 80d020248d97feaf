package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"gatehouse/internal/api"
	"gatehouse/internal/config/schema"
	coreerrors "gatehouse/internal/core/errors"
	corelog "gatehouse/internal/core/log"
	"gatehouse/internal/routing"
	"gatehouse/internal/services"
	"gatehouse/internal/storage/connmgr"
	"gatehouse/internal/storage/drivers"
	"gatehouse/internal/wiring"
)

// Builder assembles an App from configuration.
type Builder struct {
	cfg       *schema.Root
	logger    corelog.Logger
	scheduler connmgr.Scheduler
	registry  *prometheus.Registry
}

func NewBuilder(cfg *schema.Root) *Builder {
	return &Builder{cfg: cfg}
}

// WithLogger skips logger configuration from cfg.Log.
func (b *Builder) WithLogger(l corelog.Logger) *Builder {
	b.logger = l
	return b
}

// WithScheduler replaces the timer scheduler of every connection manager.
func (b *Builder) WithScheduler(s connmgr.Scheduler) *Builder {
	b.scheduler = s
	return b
}

// WithRegistry collects metrics into reg instead of a fresh registry.
func (b *Builder) WithRegistry(reg *prometheus.Registry) *Builder {
	b.registry = reg
	return b
}

// Build opens the storage drivers and resolves the whole wiring graph:
// repositories, then services, then handler groups. Any unmet requirement
// anywhere in the graph fails the build with a *wiring.Report and no route
// is bound. Nothing connects until App.Run.
func (b *Builder) Build() (*App, error) {
	logger := b.logger
	if logger == nil {
		l, err := corelog.Configure(corelog.Config{
			Level:  b.cfg.Log.Level,
			Format: b.cfg.Log.Format,
			Output: b.cfg.Log.Output,
			File:   b.cfg.Log.File,
		})
		if err != nil {
			return nil, coreerrors.Wrap(err, coreerrors.CodeConfigError, "configure logger")
		}
		logger = l
	}

	reg := b.registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	connMetrics, err := connmgr.NewMetrics(reg)
	if err != nil {
		return nil, err
	}
	wiringMetrics, err := wiring.NewMetrics(reg)
	if err != nil {
		return nil, err
	}
	httpMetrics, err := api.NewHTTPMetrics(reg)
	if err != nil {
		return nil, err
	}

	storage, err := drivers.Open(b.cfg, drivers.Deps{Logger: logger, Metrics: connMetrics, Scheduler: b.scheduler})
	if err != nil {
		logger.WithError(err).Error("storage drivers rejected")
		return nil, err
	}

	core, err := NewCoreProviders(b.cfg, logger, storage)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}

	assembler := wiring.NewAssembler(core.Pool(),
		wiring.WithLogger(corelog.Component(logger, "wiring")),
		wiring.WithMetrics(wiringMetrics),
	)
	result, err := assembler.Assemble(storage.Seed(),
		storage.RepositoryLayer(),
		wiring.Layer{Kind: wiring.KindService, Components: services.Components()},
		wiring.Layer{Kind: wiring.KindHandlerGroup, Components: api.Components()},
	)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}

	handlers, _ := result.Layer(wiring.KindHandlerGroup)
	routes := routing.Collect(b.cfg.Server.RoutePrefix, api.Groups(handlers)...)

	srv := api.NewServer(api.ServerConfig{
		Host:            b.cfg.Server.Host,
		Port:            b.cfg.Server.Port,
		ShutdownTimeout: b.cfg.Server.ShutdownTimeout,
	},
		api.WithServerLogger(logger),
		api.WithHTTPMetrics(httpMetrics),
		api.WithMetricsHandler(reg),
	)
	srv.BindRoutes(routes)

	return &App{
		cfg:     b.cfg,
		logger:  logger,
		core:    core,
		storage: storage,
		result:  result,
		routes:  routes,
		http:    srv,
	}, nil
}
