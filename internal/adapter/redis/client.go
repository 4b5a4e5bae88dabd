package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"cafeteria-backend/internal/config"
)

// Connect opens and pings the shared Redis client used by the idempotency
// store and the rate limiter.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}
