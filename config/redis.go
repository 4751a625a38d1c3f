package config

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects to Redis. Returns nil without error when REDIS_ADDR is
// unset; callers degrade to cache-less operation.
func InitRedis(ctx context.Context) (*redis.Client, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}
