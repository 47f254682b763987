// Package redis connects the API to Redis.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/juntape/junta/pkg/retry"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection configuration
type Config struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Startup connection attempts after the first
	MaxRetries    int
	RetryInterval time.Duration

	EnableTracing bool
}

// DefaultConfig matches the REDIS_* defaults in pkg/config
func DefaultConfig() *Config {
	return &Config{
		Host:          "localhost",
		Port:          6379,
		PoolSize:      20,
		MinIdleConns:  2,
		DialTimeout:   5 * time.Second,
		ReadTimeout:   3 * time.Second,
		WriteTimeout:  3 * time.Second,
		MaxRetries:    3,
		RetryInterval: time.Second,
	}
}

// Addr returns host:port
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *Config) options() *redis.Options {
	return &redis.Options{
		Addr:         c.Addr(),
		Password:     c.Password,
		DB:           c.DB,
		PoolSize:     c.PoolSize,
		MinIdleConns: c.MinIdleConns,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
	}
}

// Client is a go-redis client whose Ping reports a plain error, so it can sit
// next to the database in readiness checks. Every other command is promoted.
type Client struct {
	*redis.Client
}

// NewClient dials Redis and waits until it answers PING
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	rdb := redis.NewClient(cfg.options())
	if cfg.EnableTracing {
		if err := redisotel.InstrumentTracing(rdb); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("failed to instrument redis tracing: %w", err)
		}
	}

	policy := retry.Fixed(cfg.MaxRetries+1, cfg.RetryInterval)
	if err := retry.Do(ctx, policy, func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis %s unreachable: %w", cfg.Addr(), err)
	}

	return &Client{Client: rdb}, nil
}

// Ping checks if Redis answers
func (c *Client) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}
