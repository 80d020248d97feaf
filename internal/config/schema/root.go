// Package schema holds the typed gatehouse configuration.
package schema

import "time"

// Root is the whole configuration tree.
type Root struct {
	Server   ServerConfig   `yaml:"server" json:"server"`
	Storage  StorageConfig  `yaml:"storage" json:"storage"`
	Security SecurityConfig `yaml:"security" json:"security"`
	Log      LogConfig      `yaml:"log" json:"log"`
}

type ServerConfig struct {
	Host        string `yaml:"host" json:"host"`
	Port        int    `yaml:"port" json:"port"`
	RoutePrefix string `yaml:"route_prefix" json:"route_prefix"`
	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// StorageConfig selects drivers and tunes their connection managers.
type StorageConfig struct {
	// Drivers is a comma-separated list: postgres, redis, embedded-redis.
	Drivers           string         `yaml:"drivers" json:"drivers"`
	Postgres          PostgresConfig `yaml:"postgres" json:"postgres"`
	Redis             RedisConfig    `yaml:"redis" json:"redis"`
	Retry             RetryConfig    `yaml:"retry" json:"retry"`
	HeartbeatInterval time.Duration  `yaml:"heartbeat_interval" json:"heartbeat_interval"`
	ProbeTimeout      time.Duration  `yaml:"probe_timeout" json:"probe_timeout"`
	// CatalogTTL is how long the permission catalog stays cached.
	CatalogTTL time.Duration `yaml:"catalog_ttl" json:"catalog_ttl"`
}

type PostgresConfig struct {
	DSN      Secret `yaml:"dsn" json:"dsn"`
	Database string `yaml:"database" json:"database"`
	MaxConns int32  `yaml:"max_conns" json:"max_conns"`
	MinConns int32  `yaml:"min_conns" json:"min_conns"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password Secret `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	PoolSize int    `yaml:"pool_size" json:"pool_size"`
}

// RetryConfig is the linear backoff: delay = attempt*increment + base_wait.
type RetryConfig struct {
	BaseWait  time.Duration `yaml:"base_wait" json:"base_wait"`
	Increment time.Duration `yaml:"increment" json:"increment"`
}

type SecurityConfig struct {
	JWT        JWTConfig       `yaml:"jwt" json:"jwt"`
	BcryptCost int             `yaml:"bcrypt_cost" json:"bcrypt_cost"`
	RateLimit  RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`
	LoginLock  LoginLockConfig `yaml:"login_lock" json:"login_lock"`
}

type JWTConfig struct {
	Secret Secret        `yaml:"secret" json:"secret"`
	Expiry time.Duration `yaml:"expiry" json:"expiry"`
	Issuer string        `yaml:"issuer" json:"issuer"`
}

// RateLimitConfig limits credential endpoints per client IP.
type RateLimitConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	Rate    float64       `yaml:"rate" json:"rate"`
	Burst   int           `yaml:"burst" json:"burst"`
	TTL     time.Duration `yaml:"ttl" json:"ttl"`
}

// LoginLockConfig locks a login name after repeated failures.
// MaxFailures 0 disables locking.
type LoginLockConfig struct {
	MaxFailures int           `yaml:"max_failures" json:"max_failures"`
	Window      time.Duration `yaml:"window" json:"window"`
	Duration    time.Duration `yaml:"duration" json:"duration"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	Output string `yaml:"output" json:"output"`
	File   string `yaml:"file" json:"file"`
}
