package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Backoff returns the wait before the given retry attempt: 2s, 4s, 8s, ...
func Backoff(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return time.Duration(1<<uint(attempt)) * time.Second
}

// ConnectRedis pings the server until it answers or maxRetries attempts
// have failed, sleeping with exponential backoff in between.
func ConnectRedis(ctx context.Context, addr string, password string, maxRetries int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            addr,
		Password:        password,
		DB:              0,
		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
	})

	err := ping(ctx, client, maxRetries, Backoff)
	if err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

type pinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

func ping(ctx context.Context, client pinger, maxRetries int, backoff func(int) time.Duration) error {
	if maxRetries < 1 {
		maxRetries = 1
	}

	var err error
	for i := range maxRetries {
		if i > 0 {
			wait := backoff(i)
			log.Info().Dur("backoff", wait).Msg("Waiting before Redis retry")

			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return fmt.Errorf("redis connection cancelled: %w", ctx.Err())
			}
		}

		log.Info().Int("attempt", i+1).Int("max_retries", maxRetries).Msg("Connecting to Redis")

		err = client.Ping(ctx).Err()
		if err == nil {
			log.Info().Int("attempts_needed", i+1).Msg("Redis connected")
			return nil
		}

		log.Warn().Err(err).Int("attempt", i+1).Msg("Redis ping failed")
	}

	return fmt.Errorf("failed to connect to Redis after %d attempts: %w", maxRetries, err)
}
