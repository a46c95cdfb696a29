package session

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-terminal-gateway/internal/backend"
)

type fakeAuth struct {
	pair      *backend.TokenPair
	principal *backend.Principal
	loginErr  error
	meErr     error
}

func (f *fakeAuth) Login(ctx context.Context, username, password string) (*backend.TokenPair, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.pair, nil
}

func (f *fakeAuth) Me(ctx context.Context) (*backend.Principal, error) {
	if f.meErr != nil {
		return nil, f.meErr
	}
	return f.principal, nil
}

func testManager(auth *fakeAuth) (*Manager, *MemoryStore) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	store := NewMemoryStore()
	return NewManager(store, auth, logger), store
}

func TestLoginPersistsSession(t *testing.T) {
	auth := &fakeAuth{
		pair: &backend.TokenPair{Access: "a1", Refresh: "r1"},
		principal: &backend.Principal{
			ID: 7, Username: "cashier",
			Permissions: []string{PermSalesView, PermSalesCreate},
		},
	}
	m, store := testManager(auth)
	ctx := context.Background()

	if err := m.Login(ctx, "cashier", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	access, refresh, _ := store.Tokens(ctx)
	if access != "a1" || refresh != "r1" {
		t.Fatalf("stored pair = %q %q", access, refresh)
	}
	principal, ok := m.Principal()
	if !ok || principal.Username != "cashier" {
		t.Fatalf("principal = %+v", principal)
	}
	if !m.Can(PermSalesCreate) {
		t.Fatal("granted permission should pass")
	}
	if m.Can(PermSalesVoid) {
		t.Fatal("ungranted permission must not pass")
	}
	if !m.Authenticated(ctx) {
		t.Fatal("Authenticated should report the stored session")
	}
}

func TestSuperuserPassesEveryCheck(t *testing.T) {
	auth := &fakeAuth{
		pair:      &backend.TokenPair{Access: "a1", Refresh: "r1"},
		principal: &backend.Principal{ID: 1, Username: "admin", IsSuperuser: true},
	}
	m, _ := testManager(auth)

	if err := m.Login(context.Background(), "admin", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !m.Can(PermSalesVoid) || !m.Can("anything.at.all") {
		t.Fatal("superuser must pass every permission check")
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	auth := &fakeAuth{
		pair:      &backend.TokenPair{Access: "a1", Refresh: "r1"},
		principal: &backend.Principal{ID: 7, Permissions: []string{PermSalesView}},
	}
	m, store := testManager(auth)
	ctx := context.Background()

	if err := m.Login(ctx, "cashier", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if err := m.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if access, _, _ := store.Tokens(ctx); access != "" {
		t.Fatal("tokens should be cleared")
	}
	if _, ok := m.Principal(); ok {
		t.Fatal("principal should be dropped")
	}
	if m.Can(PermSalesView) {
		t.Fatal("permission checks must deny after logout")
	}
	if m.Authenticated(ctx) {
		t.Fatal("Authenticated should be false after logout")
	}
}

func TestUnauthorizedRefreshDropsPrincipal(t *testing.T) {
	auth := &fakeAuth{
		pair:      &backend.TokenPair{Access: "a1", Refresh: "r1"},
		principal: &backend.Principal{ID: 7, Permissions: []string{PermSalesView}},
	}
	m, _ := testManager(auth)
	ctx := context.Background()

	if err := m.Login(ctx, "cashier", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	auth.meErr = &backend.APIError{StatusCode: http.StatusUnauthorized}
	if err := m.RefreshPrincipal(ctx); err == nil {
		t.Fatal("expected unauthorized error")
	}

	if _, ok := m.Principal(); ok {
		t.Fatal("principal should be dropped after an unauthorized refresh")
	}
	if m.Can(PermSalesView) {
		t.Fatal("stale permissions must not survive")
	}
}

func TestPermissionSetZeroValueDenies(t *testing.T) {
	var set PermissionSet
	if set.Can(PermSalesView) {
		t.Fatal("zero-value set must deny")
	}
	if set.IsSuperuser() {
		t.Fatal("zero-value set is not superuser")
	}
}

func TestThemePassthrough(t *testing.T) {
	m, _ := testManager(&fakeAuth{})
	ctx := context.Background()

	if err := m.SetTheme(ctx, "dark"); err != nil {
		t.Fatalf("SetTheme failed: %v", err)
	}
	theme, err := m.Theme(ctx)
	if err != nil {
		t.Fatalf("Theme failed: %v", err)
	}
	if theme != "dark" {
		t.Fatalf("theme = %q, want dark", theme)
	}
}
