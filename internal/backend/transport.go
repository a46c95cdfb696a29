// internal/backend/transport.go
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// TokenSource provides the persisted credential pair for outgoing requests.
// Implementations live in the session package.
type TokenSource interface {
	Tokens(ctx context.Context) (access string, refresh string, err error)
	SetAccess(ctx context.Context, access string) error
	Clear(ctx context.Context) error
}

// Transport is an http.RoundTripper that attaches the bearer credential to
// every request and runs the single-flight refresh protocol on unauthorized
// responses:
//
//   - at most one refresh exchange is in flight process-wide; requests that
//     hit a 401 while a refresh is outstanding resolve to their original
//     unauthorized response instead of queueing or re-refreshing
//   - on a successful exchange the new access token is persisted and the
//     failed request is re-issued exactly once
//   - on any refresh failure both tokens are cleared, forcing a re-login
//
// The refresh endpoint itself is excluded from the protocol so an expired
// refresh token cannot recurse.
type Transport struct {
	Base       http.RoundTripper
	Tokens     TokenSource
	RefreshURL string
	Logger     *logrus.Logger

	refreshing atomic.Bool
}

// RoundTrip implements http.RoundTripper
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	access, _, err := t.Tokens.Tokens(ctx)
	if err == nil && access != "" {
		req = cloneWithBearer(req, access)
	}

	resp, err := t.base().RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized || t.isRefreshRequest(req) {
		return resp, nil
	}

	// Single flight: a concurrent refresh means this request loses; it
	// resolves to its original error rather than waiting or duplicating
	// the exchange.
	if !t.refreshing.CompareAndSwap(false, true) {
		return resp, nil
	}
	defer t.refreshing.Store(false)

	newAccess, refreshErr := t.exchangeRefreshToken(ctx)
	if refreshErr != nil {
		if clearErr := t.Tokens.Clear(ctx); clearErr != nil && t.Logger != nil {
			t.Logger.WithError(clearErr).Warn("Failed to clear session tokens")
		}
		if t.Logger != nil {
			t.Logger.WithError(refreshErr).Warn("Token refresh failed, session dropped")
		}
		return resp, nil
	}

	resp.Body.Close()

	retry, err := cloneForRetry(req, newAccess)
	if err != nil {
		return nil, err
	}
	return t.base().RoundTrip(retry)
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) isRefreshRequest(req *http.Request) bool {
	return t.RefreshURL != "" && strings.HasPrefix(req.URL.String(), t.RefreshURL)
}

// exchangeRefreshToken swaps the stored refresh token for a new access token
// and persists it. The exchange bypasses the bearer-attach path entirely.
func (t *Transport) exchangeRefreshToken(ctx context.Context) (string, error) {
	_, refresh, err := t.Tokens.Tokens(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read refresh token: %w", err)
	}
	if refresh == "" {
		return "", fmt.Errorf("no refresh token available")
	}

	payload, err := json.Marshal(map[string]string{"refresh": refresh})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.RefreshURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.base().RoundTrip(req)
	if err != nil {
		return "", fmt.Errorf("refresh request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("refresh endpoint returned status %d", resp.StatusCode)
	}

	var body struct {
		Access string `json:"access"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode refresh response: %w", err)
	}
	if body.Access == "" {
		return "", fmt.Errorf("refresh response carried no access token")
	}

	if err := t.Tokens.SetAccess(ctx, body.Access); err != nil {
		return "", fmt.Errorf("failed to persist refreshed access token: %w", err)
	}

	return body.Access, nil
}

func cloneWithBearer(req *http.Request, access string) *http.Request {
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+access)
	return clone
}

// cloneForRetry rebuilds the original request with a fresh body and the new
// bearer credential for the single post-refresh retry.
func cloneForRetry(req *http.Request, access string) (*http.Request, error) {
	retry := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("failed to rewind request body for retry: %w", err)
		}
		retry.Body = body
	} else if req.Body != nil {
		retry.Body = io.NopCloser(bytes.NewReader(nil))
	}
	retry.Header.Set("Authorization", "Bearer "+access)
	return retry, nil
}
