package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultKeyPrefix namespaces session keys in Redis
const DefaultKeyPrefix = "screener:session:"

// RedisStore keeps sessions in Redis as JSON
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStore creates a new Redis session store
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration, logger *zap.Logger) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
	}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

// Put saves session state with the store TTL
func (s *RedisStore) Put(ctx context.Context, id string, state *State) error {
	data, err := encode(state)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.key(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Get loads session state
func (s *RedisStore) Get(ctx context.Context, id string) (*State, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	state, err := decode(data)
	if err != nil {
		s.logger.Warn("discarding unreadable session",
			zap.String("key", s.key(id)),
			zap.Error(err),
		)
		return nil, ErrNotFound
	}

	return state, nil
}

// Delete removes session state
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Ping checks the Redis connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// TTL returns the remaining lifetime of a session
func (s *RedisStore) TTL(ctx context.Context, id string) (time.Duration, error) {
	ttl, err := s.client.TTL(ctx, s.key(id)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read session ttl: %w", err)
	}
	return ttl, nil
}
