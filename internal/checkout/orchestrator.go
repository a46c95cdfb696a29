// internal/checkout/orchestrator.go
package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-terminal-gateway/internal/backend"
	"github.com/your-org/pos-terminal-gateway/internal/money"
)

// Checkout views. The flow starts at the method options and ends at
// completed; card and qr are the method-specific intermediate views.
const (
	ViewOptions   = "options"
	ViewCard      = "card"
	ViewQR        = "qr"
	ViewCompleted = "completed"
)

// ErrCheckoutCompleted rejects further mutations once payment went through
var ErrCheckoutCompleted = fmt.Errorf("checkout already completed")

// Backend is the slice of the POS client the orchestrator drives
type Backend interface {
	ConfirmPayment(ctx context.Context, orderID int64) error
	CreateCardIntent(ctx context.Context, orderID int64) (string, error)
	GetPaymentSettings(ctx context.Context) (*backend.PaymentSettings, error)
}

// CardGateway is the external card capability. It settles the card charge
// identified by a client secret; the orchestrator never touches card data.
type CardGateway interface {
	ConfirmPayment(ctx context.Context, clientSecret string) error
}

// ExternalResult adapts an already-settled external outcome to CardGateway,
// for callers that run the card capability out of process and report back.
type ExternalResult struct {
	OK      bool
	Message string
}

// ConfirmPayment replays the reported outcome
func (r ExternalResult) ConfirmPayment(ctx context.Context, clientSecret string) error {
	if r.OK {
		return nil
	}
	if r.Message == "" {
		return fmt.Errorf("card payment failed")
	}
	return fmt.Errorf("card payment failed: %s", r.Message)
}

// ReconciliationError means the external charge succeeded but the backend
// refused to record the payment. The money moved; the order did not follow.
// Callers must surface this distinctly instead of treating it as a retryable
// payment failure.
type ReconciliationError struct {
	OrderID int64
	Err     error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("payment captured but order %d not updated: %v", e.OrderID, e.Err)
}

func (e *ReconciliationError) Unwrap() error {
	return e.Err
}

// QRPayload is the machine-readable transfer request encoded into the QR code
type QRPayload struct {
	Folio    string       `json:"folio"`
	Amount   money.Amount `json:"amount"`
	Currency string       `json:"currency"`
	Concept  string       `json:"concept"`
}

// Orchestrator walks one order through payment. It owns the view state, the
// card client secret and the cached payment settings; every transition that
// marks the order paid goes through the backend's confirm-payment call.
type Orchestrator struct {
	backend  Backend
	logger   *logrus.Logger
	orderID  int64
	folio    string
	amount   money.Amount
	currency string

	mu           sync.Mutex
	view         string
	clientSecret string
	settings     *backend.PaymentSettings
}

// NewOrchestrator starts a checkout for a saved order
func NewOrchestrator(b Backend, logger *logrus.Logger, order *backend.Order, currency string) *Orchestrator {
	return &Orchestrator{
		backend:  b,
		logger:   logger,
		orderID:  order.ID,
		folio:    order.Folio,
		amount:   order.Total,
		currency: currency,
		view:     ViewOptions,
	}
}

// OrderID returns the order under payment
func (o *Orchestrator) OrderID() int64 {
	return o.orderID
}

// View returns the current checkout view
func (o *Orchestrator) View() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.view
}

// Completed reports whether payment went through
func (o *Orchestrator) Completed() bool {
	return o.View() == ViewCompleted
}

// PayCash records a cash payment and completes the checkout
func (o *Orchestrator) PayCash(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.view == ViewCompleted {
		return ErrCheckoutCompleted
	}
	if err := o.backend.ConfirmPayment(ctx, o.orderID); err != nil {
		return err
	}
	o.complete("cash")
	return nil
}

// StartCard requests a card intent and moves to the card view. On failure
// the checkout stays on the options view.
func (o *Orchestrator) StartCard(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.view == ViewCompleted {
		return ErrCheckoutCompleted
	}
	secret, err := o.backend.CreateCardIntent(ctx, o.orderID)
	if err != nil {
		return err
	}
	o.clientSecret = secret
	o.view = ViewCard
	return nil
}

// ClientSecret returns the active card intent secret, empty outside the
// card view
func (o *Orchestrator) ClientSecret() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.clientSecret
}

// ConfirmCard settles the card charge through the gateway and then records
// the payment backend-side. A gateway failure keeps the card view so the
// operator can retry; a backend failure after a settled charge is returned
// as a ReconciliationError.
func (o *Orchestrator) ConfirmCard(ctx context.Context, gateway CardGateway) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.view == ViewCompleted {
		return ErrCheckoutCompleted
	}
	if o.view != ViewCard || o.clientSecret == "" {
		return fmt.Errorf("no card payment in progress")
	}

	if err := gateway.ConfirmPayment(ctx, o.clientSecret); err != nil {
		return err
	}

	if err := o.backend.ConfirmPayment(ctx, o.orderID); err != nil {
		o.logger.WithFields(logrus.Fields{
			"order_id": o.orderID,
			"folio":    o.folio,
		}).WithError(err).Error("Card charge settled but payment confirmation failed")
		return &ReconciliationError{OrderID: o.orderID, Err: err}
	}

	o.clientSecret = ""
	o.complete("card")
	return nil
}

// StartQR moves to the QR view. The payment settings behind the QR are
// fetched once per checkout and reused on re-entry.
func (o *Orchestrator) StartQR(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.view == ViewCompleted {
		return ErrCheckoutCompleted
	}
	if o.settings == nil {
		settings, err := o.backend.GetPaymentSettings(ctx)
		if err != nil {
			return err
		}
		o.settings = settings
	}
	o.view = ViewQR
	return nil
}

// Settings returns the cached payment settings, nil before StartQR
func (o *Orchestrator) Settings() *backend.PaymentSettings {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.settings
}

// QRCode renders the transfer request encoded into the QR view
func (o *Orchestrator) QRCode() ([]byte, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	concept := o.folio
	if o.settings != nil && o.settings.QRGlosa != "" {
		concept = fmt.Sprintf("%s %s", o.settings.QRGlosa, o.folio)
	}

	payload, err := json.Marshal(QRPayload{
		Folio:    o.folio,
		Amount:   o.amount,
		Currency: o.currency,
		Concept:  concept,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr payload: %w", err)
	}
	return payload, nil
}

// ConfirmQR records the transfer as received and completes the checkout
func (o *Orchestrator) ConfirmQR(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.view == ViewCompleted {
		return ErrCheckoutCompleted
	}
	if o.view != ViewQR {
		return fmt.Errorf("no qr payment in progress")
	}
	if err := o.backend.ConfirmPayment(ctx, o.orderID); err != nil {
		return err
	}
	o.complete("qr")
	return nil
}

// Cancel abandons the current method view and returns to the options.
// A completed checkout cannot be reopened.
func (o *Orchestrator) Cancel() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.view == ViewCompleted {
		return ErrCheckoutCompleted
	}
	o.clientSecret = ""
	o.view = ViewOptions
	return nil
}

// complete is called with the lock held
func (o *Orchestrator) complete(method string) {
	o.view = ViewCompleted
	o.logger.WithFields(logrus.Fields{
		"order_id": o.orderID,
		"folio":    o.folio,
		"amount":   o.amount.String(),
		"method":   method,
	}).Info("Payment recorded")
}
