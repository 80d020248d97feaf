package source

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gatehouse/internal/config/schema"
	corelog "gatehouse/internal/core/log"
)

// EnvSource reads PREFIX_* environment variables.
type EnvSource struct {
	prefix string
}

func NewEnvSource(prefix string) *EnvSource {
	return &EnvSource{prefix: prefix}
}

func (s *EnvSource) Name() string  { return "env" }
func (s *EnvSource) Priority() int { return PriorityEnv }

func (s *EnvSource) LoadInto(cfg *schema.Root) error {
	s.loadString("SERVER_HOST", &cfg.Server.Host)
	s.loadInt("SERVER_PORT", &cfg.Server.Port)
	s.loadString("ROUTE_PREFIX", &cfg.Server.RoutePrefix)
	s.loadDuration("SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)

	s.loadString("DB_DRIVERS", &cfg.Storage.Drivers)
	s.loadSecret("POSTGRES_DSN", &cfg.Storage.Postgres.DSN)
	s.loadString("POSTGRES_DATABASE", &cfg.Storage.Postgres.Database)
	s.loadInt32("POSTGRES_MAX_CONNS", &cfg.Storage.Postgres.MaxConns)
	s.loadInt32("POSTGRES_MIN_CONNS", &cfg.Storage.Postgres.MinConns)
	s.loadString("REDIS_ADDR", &cfg.Storage.Redis.Addr)
	s.loadSecret("REDIS_PASSWORD", &cfg.Storage.Redis.Password)
	s.loadInt("REDIS_DB", &cfg.Storage.Redis.DB)
	s.loadInt("REDIS_POOL_SIZE", &cfg.Storage.Redis.PoolSize)
	s.loadDuration("RETRY_BASE_WAIT", &cfg.Storage.Retry.BaseWait)
	s.loadDuration("RETRY_INCREMENT", &cfg.Storage.Retry.Increment)
	s.loadDuration("HEARTBEAT_INTERVAL", &cfg.Storage.HeartbeatInterval)
	s.loadDuration("PROBE_TIMEOUT", &cfg.Storage.ProbeTimeout)
	s.loadDuration("CATALOG_TTL", &cfg.Storage.CatalogTTL)

	s.loadSecret("JWT_SECRET", &cfg.Security.JWT.Secret)
	s.loadDuration("JWT_EXPIRY", &cfg.Security.JWT.Expiry)
	s.loadString("JWT_ISSUER", &cfg.Security.JWT.Issuer)
	s.loadInt("BCRYPT_COST", &cfg.Security.BcryptCost)
	s.loadBool("RATE_LIMIT_ENABLED", &cfg.Security.RateLimit.Enabled)
	s.loadFloat("RATE_LIMIT_RATE", &cfg.Security.RateLimit.Rate)
	s.loadInt("RATE_LIMIT_BURST", &cfg.Security.RateLimit.Burst)
	s.loadDuration("RATE_LIMIT_TTL", &cfg.Security.RateLimit.TTL)
	s.loadInt("LOGIN_LOCK_MAX_FAILURES", &cfg.Security.LoginLock.MaxFailures)
	s.loadDuration("LOGIN_LOCK_WINDOW", &cfg.Security.LoginLock.Window)
	s.loadDuration("LOGIN_LOCK_DURATION", &cfg.Security.LoginLock.Duration)

	s.loadString("LOG_LEVEL", &cfg.Log.Level)
	s.loadString("LOG_FORMAT", &cfg.Log.Format)
	s.loadString("LOG_OUTPUT", &cfg.Log.Output)
	s.loadString("LOG_FILE", &cfg.Log.File)
	return nil
}

func (s *EnvSource) lookup(key string) (string, bool) {
	name := key
	if s.prefix != "" {
		name = s.prefix + "_" + key
	}
	v, ok := os.LookupEnv(name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func (s *EnvSource) loadString(key string, dst *string) {
	if v, ok := s.lookup(key); ok {
		*dst = v
	}
}

func (s *EnvSource) loadSecret(key string, dst *schema.Secret) {
	if v, ok := s.lookup(key); ok {
		*dst = schema.Secret(v)
	}
}

func (s *EnvSource) loadInt(key string, dst *int) {
	if v, ok := s.lookup(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			corelog.Warnf("ignore %s_%s: %v", s.prefix, key, err)
			return
		}
		*dst = n
	}
}

func (s *EnvSource) loadInt32(key string, dst *int32) {
	if v, ok := s.lookup(key); ok {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			corelog.Warnf("ignore %s_%s: %v", s.prefix, key, err)
			return
		}
		*dst = int32(n)
	}
}

func (s *EnvSource) loadFloat(key string, dst *float64) {
	if v, ok := s.lookup(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			corelog.Warnf("ignore %s_%s: %v", s.prefix, key, err)
			return
		}
		*dst = f
	}
}

func (s *EnvSource) loadBool(key string, dst *bool) {
	if v, ok := s.lookup(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			corelog.Warnf("ignore %s_%s: %v", s.prefix, key, err)
			return
		}
		*dst = b
	}
}

// loadDuration accepts Go durations ("3s") or bare milliseconds ("3000").
func (s *EnvSource) loadDuration(key string, dst *time.Duration) {
	v, ok := s.lookup(key)
	if !ok {
		return
	}
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		*dst = time.Duration(ms) * time.Millisecond
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		corelog.Warnf("ignore %s_%s: %v", s.prefix, key, err)
		return
	}
	*dst = d
}
