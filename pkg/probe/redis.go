package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/platinummonkey/ragstack/pkg/config"
)

// RedisProbe pings the cache
type RedisProbe struct {
	client *redis.Client
}

// NewRedisProbe creates a client for cfg.URL() without connecting
func NewRedisProbe(cfg config.RedisSettings) (*RedisProbe, error) {
	opts, err := redis.ParseURL(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	opts.PoolSize = 2
	opts.MaxRetries = 1
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	return &RedisProbe{client: redis.NewClient(opts)}, nil
}

// Name returns "redis"
func (p *RedisProbe) Name() string { return config.SectionRedis }

// Check sends PING
func (p *RedisProbe) Check(ctx context.Context) error {
	return traced(ctx, p.Name(), func(ctx context.Context) error {
		if err := p.client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping failed: %w", err)
		}
		return nil
	})
}

// DB returns the logical database the client selected
func (p *RedisProbe) DB() int {
	return p.client.Options().DB
}

// Close closes the client
func (p *RedisProbe) Close() error {
	return p.client.Close()
}
