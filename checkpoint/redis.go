package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long an untouched session survives in Redis before
// the store reclaims it. Abandoned paused sessions expire this way; the
// engine itself never deletes checkpoints.
const DefaultTTL = 40 * time.Minute

const redisKeyPrefix = "safeplates:checkpoint:"

// RedisStore persists checkpoints in Redis, sharing sessions across
// processes. Every save refreshes the session's TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithTTL overrides the retention TTL. Zero disables expiry.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

// NewRedisStore connects to Redis at the given URL
// (e.g. "redis://localhost:6379/0") and verifies the connection.
func NewRedisStore(ctx context.Context, redisURL string, opts ...RedisOption) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	s := &RedisStore{client: client, ttl: DefaultTTL}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

func redisKey(sessionID string) string {
	return redisKeyPrefix + sessionID
}

// Load returns the checkpoint for the session, or ErrNotFound.
func (s *RedisStore) Load(ctx context.Context, sessionID string) (*Checkpoint, error) {
	data, err := s.client.Get(ctx, redisKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load checkpoint %s: %w", sessionID, err)
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("decode checkpoint %s: %w", sessionID, err)
	}
	return &cp, nil
}

// Save writes the checkpoint as a single SET, refreshing the TTL.
func (s *RedisStore) Save(ctx context.Context, cp *Checkpoint) error {
	stored := cp.Clone()
	stored.UpdatedAt = time.Now()

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode checkpoint %s: %w", cp.SessionID, err)
	}
	if err := s.client.Set(ctx, redisKey(cp.SessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save checkpoint %s: %w", cp.SessionID, err)
	}
	return nil
}

// Exists reports whether a checkpoint exists for the session.
func (s *RedisStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.client.Exists(ctx, redisKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("check checkpoint %s: %w", sessionID, err)
	}
	return n > 0, nil
}

// Delete removes a session's checkpoint.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, redisKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete checkpoint %s: %w", sessionID, err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
