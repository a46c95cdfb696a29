// internal/session/redis_store.go
package session

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Fixed key names for the persisted client state
const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyTheme        = "theme"
)

// RedisStore persists the session state in Redis, namespaced per terminal so
// several gateways can share one instance. Tokens carry no TTL here; their
// lifetime is governed by the backend and by explicit logout.
type RedisStore struct {
	client     *redis.Client
	terminalID string
}

// NewRedisStore creates a Redis-backed session store for one terminal
func NewRedisStore(client *redis.Client, terminalID string) *RedisStore {
	return &RedisStore{
		client:     client,
		terminalID: terminalID,
	}
}

func (s *RedisStore) key(name string) string {
	return fmt.Sprintf("session:%s:%s", s.terminalID, name)
}

// get reads one key, mapping a missing key to the empty string
func (s *RedisStore) get(ctx context.Context, name string) (string, error) {
	value, err := s.client.Get(ctx, s.key(name)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session key %s: %w", name, err)
	}
	return value, nil
}

// Tokens returns the stored token pair
func (s *RedisStore) Tokens(ctx context.Context) (string, string, error) {
	access, err := s.get(ctx, keyAccessToken)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.get(ctx, keyRefreshToken)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// SetAccess replaces only the access token
func (s *RedisStore) SetAccess(ctx context.Context, access string) error {
	if err := s.client.Set(ctx, s.key(keyAccessToken), access, 0).Err(); err != nil {
		return fmt.Errorf("failed to persist access token: %w", err)
	}
	return nil
}

// SetPair replaces both tokens
func (s *RedisStore) SetPair(ctx context.Context, access, refresh string) error {
	if err := s.SetAccess(ctx, access); err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(keyRefreshToken), refresh, 0).Err(); err != nil {
		return fmt.Errorf("failed to persist refresh token: %w", err)
	}
	return nil
}

// Clear drops both tokens, forcing a re-login
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key(keyAccessToken), s.key(keyRefreshToken)).Err(); err != nil {
		return fmt.Errorf("failed to clear session tokens: %w", err)
	}
	return nil
}

// Theme returns the persisted theme preference
func (s *RedisStore) Theme(ctx context.Context) (string, error) {
	return s.get(ctx, keyTheme)
}

// SetTheme persists the theme preference
func (s *RedisStore) SetTheme(ctx context.Context, theme string) error {
	if err := s.client.Set(ctx, s.key(keyTheme), theme, 0).Err(); err != nil {
		return fmt.Errorf("failed to persist theme preference: %w", err)
	}
	return nil
}
