package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "clinic-service/internal/domain/user"
)

// RedisStore implements Store using Redis as the backing store.
// Sessions survive process restarts and are shared between replicas.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisStore creates a Redis-backed session store.
// A zero ttl keeps sessions until they are explicitly deleted.
func NewRedisStore(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

func (s *RedisStore) key(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, token string) (*domain.Identity, error) {
	data, err := s.client.Get(ctx, s.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		s.log.Error("failed to get session", zap.Error(err))
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var identity domain.Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		s.log.Error("failed to unmarshal session", zap.Error(err))
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	return &identity, nil
}

// Put implements Store.
func (s *RedisStore) Put(ctx context.Context, token string, identity *domain.Identity) error {
	if identity == nil {
		return errors.New("cannot store nil identity")
	}

	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(token), data, s.ttl).Err(); err != nil {
		s.log.Error("failed to store session", zap.Int64("user_id", identity.ID), zap.Error(err))
		return fmt.Errorf("failed to store session: %w", err)
	}

	s.log.Debug("stored session", zap.Int64("user_id", identity.ID), zap.Duration("ttl", s.ttl))
	return nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		s.log.Error("failed to delete session", zap.Error(err))
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
