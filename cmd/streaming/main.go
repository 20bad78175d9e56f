package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/setup"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/setup/logger"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/stream"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/stream/redis"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load env
	envErr := godotenv.Load()

	cfg := setup.LoadConfig()

	// Workers run unattended, so they log JSON at the configured level
	appLogger := logger.New(cfg.LogLevel)
	log.Logger = appLogger

	if envErr != nil {
		appLogger.Warn().Msg("No .env file found")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	deps, err := setup.Wire(ctx, cfg, &appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	streamCfg := &stream.StreamConfig{
		Provider: os.Getenv("STREAM_PROVIDER"),
		RedisConfig: redis.NewRedisStreamConfig(
			cfg.RedisAddr,
			cfg.RedisPassword,
			stream.DefaultPredictionStream,
			stream.DefaultResultStream,
			stream.DefaultGroup,
			cfg.Hostname,
		),
	}

	consumer, err := stream.NewStreamConsumer(ctx, streamCfg, deps.Executor, &appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("Failed to create stream consumer")
	}

	if err := consumer.Setup(ctx); err != nil {
		appLogger.Fatal().Err(err).Msg("Failed to setup consumer")
	}

	go func() {
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			appLogger.Error().Err(err).Msg("Consumer stopped with error")
		}
	}()

	<-ctx.Done()
	appLogger.Info().Msg("Shutting down...")

	if err := consumer.Stop(); err != nil {
		appLogger.Error().Err(err).Msg("Failed to stop consumer")
	}

	appLogger.Info().Msg("Fashion Finder worker stopped")
}
