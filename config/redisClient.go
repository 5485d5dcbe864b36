package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns a pinged Redis client, or nil when REDIS_ADDRESS is
// not configured.
func ConnectRedis(ctx context.Context, s Settings) (*redis.Client, error) {
	if s.RedisAddress == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     s.RedisAddress,
		Password: s.RedisPassword,
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to Redis: %w", err)
	}

	slog.Info("connected to Redis", "address", s.RedisAddress)
	return client, nil
}
