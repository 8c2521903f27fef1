package credstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/authclient/logger"
	"github.com/kbukum/authclient/validation"
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	// Addr is the Redis server address (host:port).
	Addr string `yaml:"addr" mapstructure:"addr"`

	// Password is the Redis server password.
	Password string `yaml:"password" mapstructure:"password"`

	// DB is the Redis database number.
	DB int `yaml:"db" mapstructure:"db"`

	// PoolSize is the maximum number of socket connections.
	PoolSize int `yaml:"pool_size" mapstructure:"pool_size"`

	// MaxRetries is the maximum number of retries before giving up.
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"`

	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`

	// TTL expires records after the given duration. Zero keeps them forever.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *RedisConfig) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 3 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 3 * time.Second
	}
}

// Validate checks that required fields are present.
func (c *RedisConfig) Validate() error {
	return validation.New().
		Required("addr", c.Addr).
		Min("pool_size", c.PoolSize, 1).
		Min("db", c.DB, 0).
		NonNegative("ttl", c.TTL).
		Err()
}

// Redis stores records as Redis strings.
type Redis struct {
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
	log    *logger.Logger
	closed bool
	mu     sync.Mutex
}

var _ Store = (*Redis)(nil)

// NewRedis creates a Redis-backed store. It does not dial until first use.
func NewRedis(cfg RedisConfig, prefix string, log *logger.Logger) (*Redis, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	log = logger.OrNop(log)
	log.Debug("redis client created", logger.Fields(
		"addr", cfg.Addr,
		"db", cfg.DB,
		"pool_size", cfg.PoolSize,
	))
	return &Redis{rdb: rdb, prefix: prefix, ttl: cfg.TTL, log: log}, nil
}

// Save stores record under id with the configured TTL.
func (r *Redis) Save(ctx context.Context, id string, record []byte) error {
	if err := r.rdb.Set(ctx, fullKey(r.prefix, id), record, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis save %q: %w", id, err)
	}
	return nil
}

// Retrieve returns the record under id, or nil when the key is missing.
func (r *Redis) Retrieve(ctx context.Context, id string) ([]byte, error) {
	rec, err := r.rdb.Get(ctx, fullKey(r.prefix, id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis retrieve %q: %w", id, err)
	}
	return rec, nil
}

// Clear deletes the key for id.
func (r *Redis) Clear(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, fullKey(r.prefix, id)).Err(); err != nil {
		return fmt.Errorf("redis clear %q: %w", id, err)
	}
	return nil
}

// Ping verifies the Redis connection is alive.
func (r *Redis) Ping(ctx context.Context) error {
	pong, err := r.rdb.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	if pong != "PONG" {
		return fmt.Errorf("unexpected redis ping response: %s", pong)
	}
	return nil
}

// Close closes the Redis connection. Safe to call multiple times.
func (r *Redis) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	r.log.Debug("closing redis connection")
	return r.rdb.Close()
}

// Unwrap returns the underlying go-redis client.
func (r *Redis) Unwrap() *goredis.Client {
	return r.rdb
}
