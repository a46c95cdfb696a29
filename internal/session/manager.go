// internal/session/manager.go
package session

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-terminal-gateway/internal/backend"
)

// Authenticator is the slice of the backend client the manager needs
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*backend.TokenPair, error)
	Me(ctx context.Context) (*backend.Principal, error)
}

// Manager owns the terminal session: the durable token pair, the current
// principal and its permission set. It is the single writer of the store;
// the backend transport only reads tokens (and clears them on unrecoverable
// refresh failure).
type Manager struct {
	store  Store
	client Authenticator
	logger *logrus.Logger

	mu        sync.RWMutex
	principal *backend.Principal
	perms     PermissionSet
}

// NewManager creates a session manager
func NewManager(store Store, client Authenticator, logger *logrus.Logger) *Manager {
	return &Manager{
		store:  store,
		client: client,
		logger: logger,
	}
}

// Login exchanges credentials for a token pair, persists it and loads the
// principal with its permissions
func (m *Manager) Login(ctx context.Context, username, password string) error {
	pair, err := m.client.Login(ctx, username, password)
	if err != nil {
		return err
	}

	if err := m.store.SetPair(ctx, pair.Access, pair.Refresh); err != nil {
		return err
	}

	if err := m.RefreshPrincipal(ctx); err != nil {
		return err
	}

	m.logger.WithField("username", username).Info("Session established")
	return nil
}

// Logout clears the persisted tokens and drops the principal
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.Clear(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	m.principal = nil
	m.perms = PermissionSet{}
	m.mu.Unlock()

	m.logger.Info("Session closed")
	return nil
}

// RefreshPrincipal reloads /me and rebuilds the permission set in full
func (m *Manager) RefreshPrincipal(ctx context.Context) error {
	principal, err := m.client.Me(ctx)
	if err != nil {
		// An unauthorized /me means the stored session is dead; reflect
		// that locally so permission checks deny instead of going stale.
		if backend.IsUnauthorized(err) {
			m.mu.Lock()
			m.principal = nil
			m.perms = PermissionSet{}
			m.mu.Unlock()
		}
		return err
	}

	m.mu.Lock()
	m.principal = principal
	m.perms = NewPermissionSet(principal.Permissions, principal.IsSuperuser)
	m.mu.Unlock()
	return nil
}

// Principal returns the current principal, if a session is loaded
func (m *Manager) Principal() (*backend.Principal, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.principal == nil {
		return nil, false
	}
	return m.principal, true
}

// Can reports whether the current principal holds a permission code.
// Without a loaded session it denies, never errors.
func (m *Manager) Can(code string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.perms.Can(code)
}

// Authenticated reports whether an access token is currently stored
func (m *Manager) Authenticated(ctx context.Context) bool {
	access, _, err := m.store.Tokens(ctx)
	return err == nil && access != ""
}

// Theme returns the persisted theme preference
func (m *Manager) Theme(ctx context.Context) (string, error) {
	return m.store.Theme(ctx)
}

// SetTheme persists the theme preference
func (m *Manager) SetTheme(ctx context.Context, theme string) error {
	return m.store.SetTheme(ctx, theme)
}
