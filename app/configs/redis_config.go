package configs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// OpenRedis connects to the session store named by REDIS_URL.
func OpenRedis(ctx context.Context, env ENV) (*redis.Client, error) {
	opts, err := redis.ParseURL(env.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", opts.Addr, err)
	}

	log.Printf("✅ Redis connected at %s", opts.Addr)
	return client, nil
}
