package db

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/axisvitor/sistema-cobranca/internal/config"
)

// ConnectRedis creates a go-redis client from the configured URL and
// verifies connectivity. The charge queue lives on this connection.
func ConnectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
