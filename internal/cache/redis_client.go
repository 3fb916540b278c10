package cache

import (
	"context"
	"fmt"
	"time"

	"hazel-marketplace/internal/config"
	"hazel-marketplace/internal/logger"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis opens a client and pings it. Callers should only call this
// when cfg.Addr is set.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     20,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	logger.ExternalServiceCall("redis", "PING", "addr", cfg.Addr)
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.ExternalServiceResult("redis", "PING", err)
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	logger.ExternalServiceResult("redis", "PING", nil)
	return rdb, nil
}
