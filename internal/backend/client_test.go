package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/your-org/pos-terminal-gateway/internal/config"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		Backend: config.BackendConfig{
			BaseURL: server.URL,
			Timeout: 5 * time.Second,
		},
	}
	return NewClient(cfg, &fakeTokens{access: "tok-1", refresh: "ref-1"}, quietLogger()), server
}

func TestLoginExchangesCredentials(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/token" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "cashier" || body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"access": "a1", "refresh": "r1"})
	}))

	pair, err := client.Login(context.Background(), "cashier", "secret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if pair.Access != "a1" || pair.Refresh != "r1" {
		t.Fatalf("pair = %+v", pair)
	}
}

func TestGetCartPassesCustomerQuery(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cart" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("customer"); got != "7" {
			t.Errorf("customer query = %s, want 7", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id": 1, "customer": 7, "status": "pending",
			"items": []interface{}{}, "subtotal": "0.00", "total": "0.00",
		})
	}))

	cart, err := client.GetCart(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetCart failed: %v", err)
	}
	if cart.CustomerID != 7 {
		t.Fatalf("customer = %d, want 7", cart.CustomerID)
	}
}

func TestRemoveCartItemEmptyBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	cart, err := client.RemoveCartItem(context.Background(), 3)
	if err != nil {
		t.Fatalf("RemoveCartItem failed: %v", err)
	}
	if cart != nil {
		t.Fatal("expected nil cart for an empty delete response")
	}
}

func TestDetailErrorDecoding(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Stock insuficiente"})
	}))

	_, err := client.ConfirmCart(context.Background(), 7)
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T", err)
	}
	if apiErr.Detail != "Stock insuficiente" {
		t.Fatalf("detail = %q", apiErr.Detail)
	}
	if !apiErr.IsValidation() {
		t.Fatal("a 400 should classify as validation")
	}
}

func TestFieldErrorDecoding(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string][]string{
			"customer": {"Este campo es requerido."},
		})
	}))

	_, err := client.ConfirmCart(context.Background(), 0)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T", err)
	}
	if apiErr.Detail != "Este campo es requerido." {
		t.Fatalf("detail = %q", apiErr.Detail)
	}
}

func TestReceiptStreamsBlob(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 receipt"))
	}))

	blob, contentType, err := client.Receipt(context.Background(), 9)
	if err != nil {
		t.Fatalf("Receipt failed: %v", err)
	}
	if contentType != "application/pdf" {
		t.Fatalf("content type = %s", contentType)
	}
	if string(blob) != "%PDF-1.4 receipt" {
		t.Fatalf("blob = %q", blob)
	}
}

func TestCreateCardIntent(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payments/card/intent" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"client_secret": "pi_123_secret"})
	}))

	secret, err := client.CreateCardIntent(context.Background(), 9)
	if err != nil {
		t.Fatalf("CreateCardIntent failed: %v", err)
	}
	if secret != "pi_123_secret" {
		t.Fatalf("secret = %q", secret)
	}
}

func TestIsUnauthorized(t *testing.T) {
	err := &APIError{StatusCode: http.StatusUnauthorized}
	if !IsUnauthorized(err) {
		t.Fatal("IsUnauthorized should match a 401 APIError")
	}
	if IsUnauthorized(errors.New("boom")) {
		t.Fatal("IsUnauthorized should not match arbitrary errors")
	}
}
