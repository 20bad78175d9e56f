package stream

import (
	"context"
	"fmt"

	red "github.com/povarna/generative-ai-agents/fashion-finder/internal/redis"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/stream/redis"
	"github.com/rs/zerolog"
)

func NewStreamConsumer(
	ctx context.Context,
	cfg *StreamConfig,
	searcher redis.Searcher,
	logger *zerolog.Logger,
) (StreamConsumer, error) {

	// If provider is empty, fallback to the default configuration.
	provider := cfg.Provider
	if provider == "" {
		provider = "redis"
	}

	switch provider {
	case "redis":
		if cfg.RedisConfig == nil {
			return nil, fmt.Errorf("redis config required")
		}

		client, err := red.ConnectRedis(
			ctx,
			cfg.RedisConfig.RedisAddr,
			cfg.RedisConfig.RedisPassword,
			5,
		)
		if err != nil {
			return nil, err
		}

		return redis.NewConsumer(client, cfg.RedisConfig, searcher, logger), nil

	default:
		return nil, fmt.Errorf("unsupported stream provider: %s", cfg.Provider)
	}
}
