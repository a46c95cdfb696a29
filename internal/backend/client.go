// internal/backend/client.go
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-terminal-gateway/internal/config"
)

// Backend endpoint paths, relative to the configured base URL
const (
	pathToken        = "/auth/token"
	pathTokenRefresh = "/auth/token/refresh"
	pathMe           = "/me"
	pathCart         = "/cart"
	pathCartItem     = "/cart/items/%d"
	pathCartConfirm  = "/cart/confirm"
	pathOrder        = "/orders/%d"
	pathOrderPayment = "/orders/%d/confirm-payment"
	pathOrderVoid    = "/orders/%d/void"
	pathOrderReceipt = "/orders/%d/receipt"
	pathCardIntent   = "/payments/card/intent"
	pathSettings     = "/settings/payment"
	pathProducts     = "/catalog/products"
	pathCustomers    = "/customers"
)

// Client is the typed REST client for the remote POS backend. All calls go
// through the session Transport, which owns credential attachment and the
// single-flight refresh protocol.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logrus.Logger
}

// NewClient creates a backend client wired to the session token source
func NewClient(cfg *config.Config, tokens TokenSource, logger *logrus.Logger) *Client {
	baseURL := strings.TrimRight(cfg.Backend.BaseURL, "/")

	transport := &Transport{
		Base:       http.DefaultTransport,
		Tokens:     tokens,
		RefreshURL: baseURL + pathTokenRefresh,
		Logger:     logger,
	}

	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.Backend.Timeout,
		},
		logger: logger,
	}
}

// Login exchanges credentials for a token pair
func (c *Client) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	var pair TokenPair
	payload := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, pathToken, payload, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

// Me returns the current principal and its permission codes
func (c *Client) Me(ctx context.Context) (*Principal, error) {
	var principal Principal
	if err := c.do(ctx, http.MethodGet, pathMe, nil, &principal); err != nil {
		return nil, err
	}
	return &principal, nil
}

// GetCart fetches (or lazily creates) the pending server-side cart for a customer
func (c *Client) GetCart(ctx context.Context, customerID int64) (*Order, error) {
	var cart Order
	path := fmt.Sprintf("%s?customer=%d", pathCart, customerID)
	if err := c.do(ctx, http.MethodGet, path, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddCartItem adds a product to the server-side cart and returns the
// refreshed cart
func (c *Client) AddCartItem(ctx context.Context, customerID, productID int64, quantity int) (*Order, error) {
	var cart Order
	payload := map[string]interface{}{
		"customer": customerID,
		"product":  productID,
		"quantity": quantity,
	}
	if err := c.do(ctx, http.MethodPost, pathCart, payload, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpdateCartItem changes the quantity of one cart line and returns the
// refreshed cart
func (c *Client) UpdateCartItem(ctx context.Context, lineID int64, quantity int) (*Order, error) {
	var cart Order
	payload := map[string]int{"quantity": quantity}
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf(pathCartItem, lineID), payload, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// RemoveCartItem deletes one cart line. The backend may answer with the
// refreshed cart or with an empty body; callers must re-fetch on nil.
func (c *Client) RemoveCartItem(ctx context.Context, lineID int64) (*Order, error) {
	resp, err := c.send(ctx, http.MethodDelete, fmt.Sprintf(pathCartItem, lineID), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, decodeAPIError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart response: %w", err)
	}
	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var cart Order
	if err := json.Unmarshal(body, &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart response: %w", err)
	}
	return &cart, nil
}

// ConfirmCart atomically converts the customer's pending cart into an order.
// Stock checks and pricing lock-in happen backend-side.
func (c *Client) ConfirmCart(ctx context.Context, customerID int64) (*Order, error) {
	var order Order
	payload := map[string]int64{"customer": customerID}
	if err := c.do(ctx, http.MethodPost, pathCartConfirm, payload, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrder fetches one order by id
func (c *Client) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf(pathOrder, orderID), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ReplaceOrder sends the full line list plus customer as a replacement
// payload (the edit-mode save)
func (c *Client) ReplaceOrder(ctx context.Context, orderID, customerID int64, items []OrderItemInput) (*Order, error) {
	var order Order
	payload := map[string]interface{}{
		"customer": customerID,
		"items":    items,
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf(pathOrder, orderID), payload, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ConfirmPayment marks an order paid. Idempotent backend-side.
func (c *Client) ConfirmPayment(ctx context.Context, orderID int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf(pathOrderPayment, orderID), nil, nil)
}

// VoidOrder voids an order, restocking if it was already paid
func (c *Client) VoidOrder(ctx context.Context, orderID int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf(pathOrderVoid, orderID), nil, nil)
}

// Receipt fetches the order receipt as an authenticated binary blob and
// returns the bytes plus the reported content type
func (c *Client) Receipt(ctx context.Context, orderID int64) ([]byte, string, error) {
	resp, err := c.send(ctx, http.MethodGet, fmt.Sprintf(pathOrderReceipt, orderID), nil)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, "", decodeAPIError(resp)
	}

	blob, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read receipt: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/pdf"
	}
	return blob, contentType, nil
}

// CreateCardIntent requests a payment intent for the order and returns the
// client secret for the external card capability
func (c *Client) CreateCardIntent(ctx context.Context, orderID int64) (string, error) {
	var intent CardIntent
	payload := map[string]int64{"order_id": orderID}
	if err := c.do(ctx, http.MethodPost, pathCardIntent, payload, &intent); err != nil {
		return "", err
	}
	if intent.ClientSecret == "" {
		return "", fmt.Errorf("card intent response carried no client secret")
	}
	return intent.ClientSecret, nil
}

// GetPaymentSettings fetches the payment-destination configuration shown in
// the QR flow
func (c *Client) GetPaymentSettings(ctx context.Context) (*PaymentSettings, error) {
	var settings PaymentSettings
	if err := c.do(ctx, http.MethodGet, pathSettings, nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// ListProducts fetches the catalog
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, pathProducts, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ListCustomers fetches the customer list
func (c *Client) ListCustomers(ctx context.Context) ([]Customer, error) {
	var customers []Customer
	if err := c.do(ctx, http.MethodGet, pathCustomers, nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// send issues a request and returns the raw response. Network-level failures
// are wrapped as unreachable-backend errors; status handling is the caller's.
func (c *Client) send(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend unreachable: %w", err)
	}
	return resp, nil
}

// do issues a request and decodes a JSON response into out when provided
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := decodeAPIError(resp)
		if c.logger != nil {
			c.logger.WithFields(logrus.Fields{
				"method": method,
				"path":   path,
				"status": resp.StatusCode,
			}).Debug("Backend request rejected")
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode backend response: %w", err)
	}
	return nil
}
