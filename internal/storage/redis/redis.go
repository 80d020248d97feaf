// Package redis connects go-redis clients, either to a real server or to
// an in-process miniredis.
package redis

import (
	"context"
	"fmt"
	"sync"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	coreerrors "gatehouse/internal/core/errors"
	"gatehouse/internal/storage/connmgr"
)

// Client is the handle type managed for redis drivers.
type Client = redis.Client

// Nil is returned by commands when a key does not exist.
var Nil = redis.Nil

// Config Redis connection settings.
type Config struct {
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`
	PoolSize int    `json:"pool_size" yaml:"pool_size"`
}

func (c Config) options() *redis.Options {
	poolSize := c.PoolSize
	if poolSize <= 0 {
		poolSize = 10
	}
	return &redis.Options{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
		PoolSize: poolSize,
	}
}

// Connector dials a redis server.
type Connector struct {
	cfg Config
}

var _ connmgr.Connector[*redis.Client] = (*Connector)(nil)

func NewConnector(cfg Config) (*Connector, error) {
	if cfg.Addr == "" {
		return nil, coreerrors.New(coreerrors.CodeConfigError, "redis addr is required")
	}
	return &Connector{cfg: cfg}, nil
}

func (c *Connector) Connect(ctx context.Context) (*redis.Client, error) {
	client := redis.NewClient(c.cfg.options())
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", c.cfg.Addr, err)
	}
	return client, nil
}

// Select confirms the logical database. go-redis issues SELECT on every
// new pool connection, so a round trip is enough to surface a bad index.
func (c *Connector) Select(ctx context.Context, client *redis.Client) error {
	if err := client.Do(ctx, "SELECT", c.cfg.DB).Err(); err != nil {
		return fmt.Errorf("select redis db %d: %w", c.cfg.DB, err)
	}
	return nil
}

func (c *Connector) Ping(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}

func (c *Connector) Close(client *redis.Client) error {
	return client.Close()
}

// EmbeddedConnector serves clients from an in-process miniredis started on
// first connect. Shutdown stops the server.
type EmbeddedConnector struct {
	db int

	mu     sync.Mutex
	server *miniredis.Miniredis
}

var _ connmgr.Connector[*redis.Client] = (*EmbeddedConnector)(nil)

func NewEmbeddedConnector(db int) *EmbeddedConnector {
	return &EmbeddedConnector{db: db}
}

func (c *EmbeddedConnector) Connect(ctx context.Context) (*redis.Client, error) {
	c.mu.Lock()
	if c.server == nil {
		server, err := miniredis.Run()
		if err != nil {
			c.mu.Unlock()
			return nil, fmt.Errorf("start embedded redis: %w", err)
		}
		c.server = server
	}
	addr := c.server.Addr()
	c.mu.Unlock()

	client := redis.NewClient(&redis.Options{Addr: addr, DB: c.db})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to embedded redis: %w", err)
	}
	return client, nil
}

func (c *EmbeddedConnector) Select(ctx context.Context, client *redis.Client) error {
	return client.Do(ctx, "SELECT", c.db).Err()
}

func (c *EmbeddedConnector) Ping(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}

func (c *EmbeddedConnector) Close(client *redis.Client) error {
	return client.Close()
}

// Addr is the embedded server address, or "" before the first connect.
func (c *EmbeddedConnector) Addr() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.server == nil {
		return ""
	}
	return c.server.Addr()
}

// Shutdown stops the embedded server. Later connects start a fresh one.
func (c *EmbeddedConnector) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.server != nil {
		c.server.Close()
		c.server = nil
	}
}
