package stream

import "github.com/povarna/generative-ai-agents/fashion-finder/internal/stream/redis"

const (
	DefaultPredictionStream = "fashion-predictions"
	DefaultResultStream     = "fashion-results"
	DefaultGroup            = "fashion-finder"
)

type StreamConfig struct {
	Provider    string // redis, kafka, sqs, etc
	RedisConfig *redis.RedisStreamConfig
}
