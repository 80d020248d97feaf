package source

import (
	"time"

	"gatehouse/internal/config/schema"
)

// DefaultSource fills every field that has a sensible default.
type DefaultSource struct{}

func NewDefaultSource() *DefaultSource { return &DefaultSource{} }

func (s *DefaultSource) Name() string  { return "defaults" }
func (s *DefaultSource) Priority() int { return PriorityDefaults }

func (s *DefaultSource) LoadInto(cfg *schema.Root) error {
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 4000
	cfg.Server.ShutdownTimeout = 10 * time.Second

	cfg.Storage.Drivers = "postgres,redis"
	cfg.Storage.Postgres.MaxConns = 20
	cfg.Storage.Postgres.MinConns = 2
	cfg.Storage.Redis.Addr = "localhost:6379"
	cfg.Storage.Redis.PoolSize = 10
	cfg.Storage.Retry.BaseWait = 3 * time.Second
	cfg.Storage.Retry.Increment = time.Second
	cfg.Storage.HeartbeatInterval = 10 * time.Second
	cfg.Storage.ProbeTimeout = 5 * time.Second
	cfg.Storage.CatalogTTL = 30 * time.Second

	cfg.Security.JWT.Expiry = time.Hour
	cfg.Security.JWT.Issuer = "gatehouse"
	cfg.Security.BcryptCost = 8
	cfg.Security.RateLimit.Enabled = true
	cfg.Security.RateLimit.Rate = 5
	cfg.Security.RateLimit.Burst = 10
	cfg.Security.RateLimit.TTL = 10 * time.Minute
	cfg.Security.LoginLock.MaxFailures = 5
	cfg.Security.LoginLock.Window = 5 * time.Minute
	cfg.Security.LoginLock.Duration = 15 * time.Minute

	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Log.Output = "stdout"
	return nil
}
