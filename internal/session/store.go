package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Store persists session state.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (*State, error)
	Put(ctx context.Context, state *State) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ErrNotFound is returned when no state exists for the session.
var ErrNotFound = errors.New("session: state not found")

// RedisStore keeps state as JSON under session:state:<id>, expiring with
// the auth token.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func stateKey(id uuid.UUID) string {
	return fmt.Sprintf("session:state:%s", id.String())
}

func (s *RedisStore) Get(ctx context.Context, id uuid.UUID) (*State, error) {
	data, err := s.client.Get(ctx, stateKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load session state: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode session state: %w", err)
	}
	return &state, nil
}

func (s *RedisStore) Put(ctx context.Context, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session state: %w", err)
	}
	if err := s.client.Set(ctx, stateKey(state.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session state: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Del(ctx, stateKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session state: %w", err)
	}
	return nil
}
