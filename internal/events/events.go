// Package events publishes screening outcomes to a Redis stream for downstream reporting.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Event types
const (
	TypeMatched   = "screening.matched"
	TypeRejected  = "screening.rejected"
	TypeFinalized = "screening.finalized"
)

// Event describes one screening step. It never carries the applicant's answers.
type Event struct {
	Type      string    `json:"type"`
	SessionID string    `json:"session_id"`
	Language  string    `json:"language"`
	SchemeIDs []string  `json:"scheme_ids,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher publishes screening events
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher discards events
type NopPublisher struct{}

// Publish does nothing
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Close does nothing
func (NopPublisher) Close() error { return nil }

// RedisStreamPublisher implements Publisher using Redis Streams
type RedisStreamPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
	logger *zap.Logger
}

// NewRedisStreamPublisher creates a new Redis stream publisher. A positive maxLen caps the stream approximately.
func NewRedisStreamPublisher(client *redis.Client, stream string, maxLen int64, logger *zap.Logger) *RedisStreamPublisher {
	return &RedisStreamPublisher{
		client: client,
		stream: stream,
		maxLen: maxLen,
		logger: logger,
	}
}

// Publish adds an event to the stream
func (p *RedisStreamPublisher) Publish(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"type": event.Type,
			"data": string(data),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	if _, err := p.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("published screening event",
		zap.String("stream", p.stream),
		zap.String("type", event.Type),
		zap.String("session_id", event.SessionID),
	)

	return nil
}

// Close is a no-op; the Redis client is owned by the caller
func (p *RedisStreamPublisher) Close() error {
	return nil
}

// Decode parses the data field of a stream message. It is the reading side of Publish for
// consumers of the stream, such as reporting jobs reading with XREAD or XRANGE.
func Decode(values map[string]interface{}) (*Event, error) {
	data, ok := values["data"].(string)
	if !ok {
		return nil, fmt.Errorf("missing or invalid 'data' field")
	}

	var event Event
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return &event, nil
}
