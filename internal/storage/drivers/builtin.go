package drivers

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"gatehouse/internal/config/schema"
	"gatehouse/internal/repos/memrepo"
	"gatehouse/internal/repos/pgrepo"
	"gatehouse/internal/repos/redisrepo"
	"gatehouse/internal/storage/connmgr"
	"gatehouse/internal/storage/postgres"
	"gatehouse/internal/storage/redis"
	"gatehouse/internal/wiring"
)

// Driver identifiers accepted in storage.drivers.
const (
	Postgres      = "postgres"
	Redis         = "redis"
	EmbeddedRedis = "embedded-redis"
	Memory        = "memory"
)

var builtin = map[string]Factory{
	Postgres:      newPostgres,
	Redis:         newRedis,
	EmbeddedRedis: newEmbeddedRedis,
	Memory:        newMemory,
}

func newPostgres(cfg *schema.Root, deps Deps) (Driver, error) {
	pc := cfg.Storage.Postgres
	connector, err := postgres.NewConnector(&postgres.Config{
		DSN:      pc.DSN.Value(),
		Database: pc.Database,
		MaxConns: pc.MaxConns,
		MinConns: pc.MinConns,
	})
	if err != nil {
		return nil, err
	}
	m := connmgr.New[*pgxpool.Pool](connector, managerConfig(Postgres, cfg.Storage), deps.managerOptions()...)
	return &managed[*pgxpool.Pool]{
		name:    Postgres,
		export:  pgrepo.Provider,
		manager: m,
		repos:   pgrepo.Components(),
	}, nil
}

func newRedis(cfg *schema.Root, deps Deps) (Driver, error) {
	rc := cfg.Storage.Redis
	connector, err := redis.NewConnector(redis.Config{
		Addr:     rc.Addr,
		Password: rc.Password.Value(),
		DB:       rc.DB,
		PoolSize: rc.PoolSize,
	})
	if err != nil {
		return nil, err
	}
	m := connmgr.New[*goredis.Client](connector, managerConfig(Redis, cfg.Storage), deps.managerOptions()...)
	return &managed[*goredis.Client]{
		name:    Redis,
		export:  redisrepo.Provider,
		manager: m,
		repos:   redisrepo.Components(),
	}, nil
}

func newEmbeddedRedis(cfg *schema.Root, deps Deps) (Driver, error) {
	connector := redis.NewEmbeddedConnector(cfg.Storage.Redis.DB)
	m := connmgr.New[*goredis.Client](connector, managerConfig(EmbeddedRedis, cfg.Storage), deps.managerOptions()...)
	return &managed[*goredis.Client]{
		name:     EmbeddedRedis,
		export:   redisrepo.Provider,
		manager:  m,
		repos:    redisrepo.Components(),
		shutdown: connector.Shutdown,
	}, nil
}

// memoryDriver has nothing to connect to and is always ready.
type memoryDriver struct {
	store *memrepo.Store
}

func newMemory(_ *schema.Root, _ Deps) (Driver, error) {
	return &memoryDriver{store: memrepo.NewStore()}, nil
}

func (d *memoryDriver) Name() string { return Memory }

func (d *memoryDriver) Exports() map[string]any {
	return map[string]any{memrepo.Provider: d.store}
}

func (d *memoryDriver) Repositories() []wiring.Component { return memrepo.Components() }

func (d *memoryDriver) Start(context.Context) error { return nil }

func (d *memoryDriver) Status() connmgr.Status {
	return connmgr.Status{Name: Memory, State: connmgr.StateConnected.String(), Ready: true}
}

func (d *memoryDriver) Close() error { return nil }
