package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/fashion-finder/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	payloadField = "payload"

	defaultPendingInterval = 30 * time.Second
	pendingBatchSize       = 10
)

// Client is the subset of *redis.Client the stream worker uses
type Client interface {
	XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd
	XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd
	XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// Searcher runs one prediction through the pipeline
type Searcher interface {
	Execute(ctx context.Context, req models.SearchRequest) (models.SearchResult, error)
}

type Consumer struct {
	client       Client
	stream       string
	resultStream string
	groupID      string
	consumerName string
	searcher     Searcher
	logger       *zerolog.Logger

	// how often messages delivered to this consumer but never ACKed are retried
	pendingInterval  time.Duration
	lastPendingCheck time.Time
}

func NewConsumer(client Client, cfg *RedisStreamConfig, searcher Searcher, logger *zerolog.Logger) *Consumer {
	return &Consumer{
		client:       client,
		stream:       cfg.Stream,
		resultStream: cfg.ResultStream,
		groupID:      cfg.Group,
		consumerName: cfg.ConsumerName,
		searcher:     searcher,
		logger:       logger,

		pendingInterval: defaultPendingInterval,
	}
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.groupID, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.stream).
		Str("result_stream", c.resultStream).
		Str("group", c.groupID).
		Str("consumer", c.consumerName).
		Msg("Consumer started")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		// The first pass also picks up what a previous run left pending.
		if c.lastPendingCheck.IsZero() || time.Since(c.lastPendingCheck) >= c.pendingInterval {
			c.retryPending(ctx)
			c.lastPendingCheck = time.Now()
		}

		msgs, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupID,
			Consumer: c.consumerName,
			Streams:  []string{c.stream, ">"},
			Count:    1,
			Block:    2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				// timeout, no message -> loop again
				continue
			}

			if ctx.Err() != nil {
				return ctx.Err() // context cancelled during block
			}

			c.logger.Error().Err(err).Msg("Failed to read from stream")
			continue
		}

		for _, s := range msgs {
			for _, msg := range s.Messages {
				c.process(ctx, msg)
			}
		}
	}
}

// retryPending walks this consumer's pending entries list once, from the
// oldest entry, and processes every message again. Messages whose publish
// fails again stay pending until the next pass.
func (c *Consumer) retryPending(ctx context.Context) {
	cursor := "0"

	for ctx.Err() == nil {
		msgs, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupID,
			Consumer: c.consumerName,
			Streams:  []string{c.stream, cursor},
			Count:    pendingBatchSize,
			Block:    -1,
		}).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				c.logger.Error().Err(err).Msg("Failed to read pending messages")
			}
			return
		}

		count := 0
		for _, s := range msgs {
			for _, msg := range s.Messages {
				c.logger.Info().Str("id", msg.ID).Msg("Retrying pending message")
				c.process(ctx, msg)
				cursor = msg.ID
				count++
			}
		}
		if count == 0 {
			return
		}
	}
}

func (c *Consumer) Stop() error {
	// No-op
	return nil
}

// process runs the pipeline for one message and publishes the outcome. The
// message is acknowledged only once an outcome has been published, so a
// failed publish leaves it pending until the next retryPending pass.
func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("Message received")

	payload, ok := msg.Values[payloadField].(string)
	if !ok {
		c.logger.Error().Str("id", msg.ID).Msg("Missing payload field")
		c.publishAndAck(ctx, msg.ID, models.FailedEvent{MessageID: msg.ID, Error: "missing payload field"})
		return
	}

	var event models.PredictionEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to decode message")
		c.publishAndAck(ctx, msg.ID, models.FailedEvent{MessageID: msg.ID, Error: fmt.Sprintf("invalid payload: %v", err)})
		return
	}
	if event.EventID == "" {
		event.EventID = msg.ID
	}

	result, err := c.searcher.Execute(ctx, event.SearchRequest())
	if err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Str("event_id", event.EventID).Msg("Search failed")
		c.publishAndAck(ctx, msg.ID, models.FailedEvent{EventID: event.EventID, MessageID: msg.ID, Error: err.Error()})
		return
	}

	c.logger.Info().
		Str("id", msg.ID).
		Str("event_id", event.EventID).
		Str("keyword", result.Keyword).
		Int("products", len(result.Products)).
		Msg("Search complete")

	c.publishAndAck(ctx, msg.ID, result)
}

func (c *Consumer) publishAndAck(ctx context.Context, msgID string, outcome any) {
	if _, err := Publish(ctx, c.client, c.resultStream, outcome); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to publish result, leaving message pending")
		return
	}
	c.ack(ctx, msgID)
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.stream, c.groupID, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to ACK message")
	}
}
