package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-terminal-gateway/internal/backend"
	"github.com/your-org/pos-terminal-gateway/internal/money"
)

type fakePayments struct {
	confirmCalls  int
	confirmErr    error
	intentSecret  string
	intentErr     error
	settingsCalls int
	settings      *backend.PaymentSettings
}

func (f *fakePayments) ConfirmPayment(ctx context.Context, orderID int64) error {
	f.confirmCalls++
	return f.confirmErr
}

func (f *fakePayments) CreateCardIntent(ctx context.Context, orderID int64) (string, error) {
	if f.intentErr != nil {
		return "", f.intentErr
	}
	return f.intentSecret, nil
}

func (f *fakePayments) GetPaymentSettings(ctx context.Context) (*backend.PaymentSettings, error) {
	f.settingsCalls++
	return f.settings, nil
}

func testOrchestrator(f *fakePayments) *Orchestrator {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	order := &backend.Order{ID: 42, Folio: "V-0042", Total: money.FromCents(9950)}
	return NewOrchestrator(f, logger, order, "BOB")
}

func TestPayCashCompletes(t *testing.T) {
	fake := &fakePayments{}
	o := testOrchestrator(fake)

	if err := o.PayCash(context.Background()); err != nil {
		t.Fatalf("PayCash failed: %v", err)
	}
	if !o.Completed() {
		t.Fatal("checkout should be completed")
	}
	if fake.confirmCalls != 1 {
		t.Fatalf("confirm calls = %d, want 1", fake.confirmCalls)
	}
}

func TestStartCardFailureStaysOnOptions(t *testing.T) {
	fake := &fakePayments{intentErr: fmt.Errorf("intent rejected")}
	o := testOrchestrator(fake)

	if err := o.StartCard(context.Background()); err == nil {
		t.Fatal("expected intent error")
	}
	if o.View() != ViewOptions {
		t.Fatalf("view = %s, want options after a failed intent", o.View())
	}
	if o.ClientSecret() != "" {
		t.Fatal("no client secret should survive a failed intent")
	}
}

func TestCardFlowCompletes(t *testing.T) {
	fake := &fakePayments{intentSecret: "pi_42_secret"}
	o := testOrchestrator(fake)
	ctx := context.Background()

	if err := o.StartCard(ctx); err != nil {
		t.Fatalf("StartCard failed: %v", err)
	}
	if o.View() != ViewCard || o.ClientSecret() != "pi_42_secret" {
		t.Fatalf("view = %s, secret = %q", o.View(), o.ClientSecret())
	}

	if err := o.ConfirmCard(ctx, ExternalResult{OK: true}); err != nil {
		t.Fatalf("ConfirmCard failed: %v", err)
	}
	if !o.Completed() {
		t.Fatal("checkout should be completed")
	}
	if fake.confirmCalls != 1 {
		t.Fatalf("confirm calls = %d, want 1", fake.confirmCalls)
	}
}

func TestCardGatewayFailureKeepsCardView(t *testing.T) {
	fake := &fakePayments{intentSecret: "pi_42_secret"}
	o := testOrchestrator(fake)
	ctx := context.Background()

	if err := o.StartCard(ctx); err != nil {
		t.Fatalf("StartCard failed: %v", err)
	}

	err := o.ConfirmCard(ctx, ExternalResult{OK: false, Message: "card declined"})
	if err == nil {
		t.Fatal("expected gateway error")
	}
	if o.View() != ViewCard {
		t.Fatalf("view = %s, want card for a retry", o.View())
	}
	if fake.confirmCalls != 0 {
		t.Fatal("backend confirmation must not run after a declined charge")
	}
}

func TestCardBackendFailureIsReconciliationError(t *testing.T) {
	fake := &fakePayments{
		intentSecret: "pi_42_secret",
		confirmErr:   &backend.APIError{StatusCode: 500, Detail: "internal error"},
	}
	o := testOrchestrator(fake)
	ctx := context.Background()

	if err := o.StartCard(ctx); err != nil {
		t.Fatalf("StartCard failed: %v", err)
	}

	err := o.ConfirmCard(ctx, ExternalResult{OK: true})
	var reconciliation *ReconciliationError
	if !errors.As(err, &reconciliation) {
		t.Fatalf("err = %T %v, want ReconciliationError", err, err)
	}
	if reconciliation.OrderID != 42 {
		t.Fatalf("order id = %d, want 42", reconciliation.OrderID)
	}

	// The wrapped backend error stays reachable
	var apiErr *backend.APIError
	if !errors.As(err, &apiErr) {
		t.Fatal("wrapped APIError should unwrap")
	}
}

func TestQRSettingsFetchedOnce(t *testing.T) {
	fake := &fakePayments{settings: &backend.PaymentSettings{
		BankName: "Banco Union", AccountNumber: "100200300", QRGlosa: "Pago venta",
	}}
	o := testOrchestrator(fake)
	ctx := context.Background()

	if err := o.StartQR(ctx); err != nil {
		t.Fatalf("StartQR failed: %v", err)
	}
	if err := o.Cancel(); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if err := o.StartQR(ctx); err != nil {
		t.Fatalf("StartQR failed: %v", err)
	}

	if fake.settingsCalls != 1 {
		t.Fatalf("settings calls = %d, want 1 per checkout", fake.settingsCalls)
	}
}

func TestQRCodePayload(t *testing.T) {
	fake := &fakePayments{settings: &backend.PaymentSettings{QRGlosa: "Pago venta"}}
	o := testOrchestrator(fake)
	ctx := context.Background()

	if err := o.StartQR(ctx); err != nil {
		t.Fatalf("StartQR failed: %v", err)
	}
	raw, err := o.QRCode()
	if err != nil {
		t.Fatalf("QRCode failed: %v", err)
	}

	var payload QRPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if payload.Folio != "V-0042" || payload.Currency != "BOB" {
		t.Fatalf("payload = %+v", payload)
	}
	if payload.Amount.Cents() != 9950 {
		t.Fatalf("amount = %d cents, want 9950", payload.Amount.Cents())
	}
	if payload.Concept != "Pago venta V-0042" {
		t.Fatalf("concept = %q", payload.Concept)
	}
}

func TestQRConfirmCompletes(t *testing.T) {
	fake := &fakePayments{settings: &backend.PaymentSettings{}}
	o := testOrchestrator(fake)
	ctx := context.Background()

	if err := o.ConfirmQR(ctx); err == nil {
		t.Fatal("ConfirmQR outside the qr view should fail")
	}

	if err := o.StartQR(ctx); err != nil {
		t.Fatalf("StartQR failed: %v", err)
	}
	if err := o.ConfirmQR(ctx); err != nil {
		t.Fatalf("ConfirmQR failed: %v", err)
	}
	if !o.Completed() {
		t.Fatal("checkout should be completed")
	}
}

func TestCompletedCheckoutRejectsMutations(t *testing.T) {
	fake := &fakePayments{}
	o := testOrchestrator(fake)
	ctx := context.Background()

	if err := o.PayCash(ctx); err != nil {
		t.Fatalf("PayCash failed: %v", err)
	}

	if err := o.PayCash(ctx); !errors.Is(err, ErrCheckoutCompleted) {
		t.Fatalf("err = %v, want ErrCheckoutCompleted", err)
	}
	if err := o.Cancel(); !errors.Is(err, ErrCheckoutCompleted) {
		t.Fatalf("err = %v, want ErrCheckoutCompleted", err)
	}
	if fake.confirmCalls != 1 {
		t.Fatalf("confirm calls = %d, a completed checkout must not re-confirm", fake.confirmCalls)
	}
}
