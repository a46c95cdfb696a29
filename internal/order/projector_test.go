package order

import (
	"context"
	"testing"

	"github.com/your-org/pos-terminal-gateway/internal/backend"
	"github.com/your-org/pos-terminal-gateway/internal/money"
)

type fakeOrders struct {
	order   *backend.Order
	receipt []byte
}

func (f *fakeOrders) GetOrder(ctx context.Context, orderID int64) (*backend.Order, error) {
	return f.order, nil
}

func (f *fakeOrders) Receipt(ctx context.Context, orderID int64) ([]byte, string, error) {
	return f.receipt, "application/pdf", nil
}

func TestLoadAndFlags(t *testing.T) {
	fake := &fakeOrders{order: &backend.Order{
		ID: 9, Folio: "V-0009", Status: backend.OrderStatusPending,
		Total: money.FromCents(1500),
	}}

	p, err := Load(context.Background(), fake, 9)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if p.Order().Folio != "V-0009" {
		t.Fatalf("folio = %s", p.Order().Folio)
	}
	if !p.CanEdit() || !p.CanPay() {
		t.Fatal("a pending order should be editable and payable")
	}
}

func TestRefreshPicksUpStatusChange(t *testing.T) {
	fake := &fakeOrders{order: &backend.Order{ID: 9, Status: backend.OrderStatusPending}}

	p, err := Load(context.Background(), fake, 9)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	fake.order = &backend.Order{ID: 9, Status: backend.OrderStatusPaid}
	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if p.CanEdit() {
		t.Fatal("a paid order must not be editable")
	}
	if p.Order().Status != backend.OrderStatusPaid {
		t.Fatalf("status = %s", p.Order().Status)
	}
}

func TestReceiptPassthrough(t *testing.T) {
	fake := &fakeOrders{
		order:   &backend.Order{ID: 9, Status: backend.OrderStatusPaid},
		receipt: []byte("%PDF-1.4"),
	}

	p, err := Load(context.Background(), fake, 9)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	blob, contentType, err := p.Receipt(context.Background())
	if err != nil {
		t.Fatalf("Receipt failed: %v", err)
	}
	if contentType != "application/pdf" || string(blob) != "%PDF-1.4" {
		t.Fatalf("receipt = %q %q", contentType, blob)
	}
}
