package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// pingAttempts bounds how long startup waits for Redis.
var pingAttempts uint64 = 4

// NewClient creates a new Redis client and waits until the server answers a ping.
func NewClient(ctx context.Context, redisURL string, logger zerolog.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second

	attempt := 0
	err = backoff.Retry(func() error {
		attempt++
		err := client.Ping(ctx).Err()
		if err != nil {
			logger.Warn().Err(err).Int("attempt", attempt).Str("addr", opts.Addr).Msg("redis not reachable")
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, pingAttempts-1), ctx))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info().Str("addr", opts.Addr).Int("db", opts.DB).Msg("connected to redis")

	return client, nil
}
