// internal/session/store.go
package session

import (
	"context"
	"sync"
)

// Store is the durable client-side storage for one terminal's session: the
// access/refresh token pair plus the operator's theme preference, all under
// fixed key names. It satisfies backend.TokenSource.
type Store interface {
	Tokens(ctx context.Context) (access string, refresh string, err error)
	SetAccess(ctx context.Context, access string) error
	SetPair(ctx context.Context, access, refresh string) error
	Clear(ctx context.Context) error
	Theme(ctx context.Context) (string, error)
	SetTheme(ctx context.Context, theme string) error
}

// MemoryStore is an in-process Store used in tests and single-shot tooling
type MemoryStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
	theme   string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Tokens returns the stored token pair
func (s *MemoryStore) Tokens(ctx context.Context) (string, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access, s.refresh, nil
}

// SetAccess replaces only the access token
func (s *MemoryStore) SetAccess(ctx context.Context, access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	return nil
}

// SetPair replaces both tokens
func (s *MemoryStore) SetPair(ctx context.Context, access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
	return nil
}

// Clear drops both tokens, forcing a re-login
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
	return nil
}

// Theme returns the persisted theme preference
func (s *MemoryStore) Theme(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme, nil
}

// SetTheme persists the theme preference
func (s *MemoryStore) SetTheme(ctx context.Context, theme string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
	return nil
}
