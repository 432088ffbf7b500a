// Package redis opens the client backing the place cache.
package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"travelDiscovery/pkg/config"

	"github.com/redis/go-redis/v9"
)

const (
	pingTimeout = 3 * time.Second

	// cache reads sit on the request path, so a slow server should fail fast
	// and let the service go to postgres instead
	cacheDialTimeout = 2 * time.Second
	cacheIOTimeout   = 500 * time.Millisecond
	cachePoolSize    = 20
	cacheMinIdle     = 2
)

func options(cfg config.RedisConfig) *redis.Options {
	return &redis.Options{
		Addr:         net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  cacheDialTimeout,
		ReadTimeout:  cacheIOTimeout,
		WriteTimeout: cacheIOTimeout,
		PoolSize:     cachePoolSize,
		MinIdleConns: cacheMinIdle,
	}
}

// NewRedisClient connects and pings. A failed ping closes the client and returns an error,
// the caller then runs without a place cache.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(options(cfg.Redis))

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("place cache redis at %s unreachable: %w", client.Options().Addr, err)
	}

	return client, nil
}

func CloseRedisClient(client *redis.Client) error {
	if client == nil {
		return nil
	}
	return client.Close()
}
