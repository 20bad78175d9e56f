package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/models"
	red "github.com/povarna/generative-ai-agents/fashion-finder/internal/redis"
	"github.com/povarna/generative-ai-agents/fashion-finder/internal/stream"
	streamredis "github.com/povarna/generative-ai-agents/fashion-finder/internal/stream/redis"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	data := flag.String("d", "", "Inline JSON PredictionEvent")
	streamName := flag.String("stream", stream.DefaultPredictionStream, "Stream name")
	flag.Parse()

	if *data == "" {
		fmt.Fprintln(os.Stderr, "Usage: producer -d '<json>'")
		flag.PrintDefaults()
		os.Exit(1)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := run(*data, *streamName); err != nil {
		log.Error().Err(err).Msg("producer failed")
		os.Exit(1)
	}
}

func run(data, streamName string) error {
	_ = godotenv.Load()

	var event models.PredictionEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return fmt.Errorf("invalid event: %w", err)
	}

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx := context.Background()
	client, err := red.ConnectRedis(ctx, addr, os.Getenv("REDIS_PASSWORD"), 3)
	if err != nil {
		return err
	}
	defer client.Close()

	id, err := streamredis.Publish(ctx, client, streamName, event)
	if err != nil {
		return err
	}

	log.Info().Str("stream", streamName).Str("id", id).Str("event_id", event.EventID).Msg("Published successfully!")
	return nil
}
