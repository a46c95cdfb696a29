// internal/order/projector.go
package order

import (
	"context"
	"sync"

	"github.com/your-org/pos-terminal-gateway/internal/backend"
)

// Backend is the slice of the POS client the projector reads from
type Backend interface {
	GetOrder(ctx context.Context, orderID int64) (*backend.Order, error)
	Receipt(ctx context.Context, orderID int64) ([]byte, string, error)
}

// Projector holds the detail view of one order. It re-fetches on demand, for
// instance after a payment lands, and derives the view flags from the order
// status.
type Projector struct {
	backend Backend
	orderID int64

	mu    sync.RWMutex
	order *backend.Order
}

// Load fetches the order and returns a projector over it
func Load(ctx context.Context, b Backend, orderID int64) (*Projector, error) {
	p := &Projector{backend: b, orderID: orderID}
	if err := p.Refresh(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// Refresh re-fetches the order from the backend
func (p *Projector) Refresh(ctx context.Context) error {
	order, err := p.backend.GetOrder(ctx, p.orderID)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.order = order
	p.mu.Unlock()
	return nil
}

// Order returns the last fetched order
func (p *Projector) Order() *backend.Order {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.order
}

// CanEdit reports whether the order still accepts line changes
func (p *Projector) CanEdit() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.order != nil && p.order.Status == backend.OrderStatusPending
}

// CanPay reports whether the order still awaits payment
func (p *Projector) CanPay() bool {
	return p.CanEdit()
}

// Receipt streams the order receipt from the backend
func (p *Projector) Receipt(ctx context.Context) ([]byte, string, error) {
	return p.backend.Receipt(ctx, p.orderID)
}
