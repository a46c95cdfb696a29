// internal/cart/reconciler.go
package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-terminal-gateway/internal/backend"
	"github.com/your-org/pos-terminal-gateway/internal/money"
)

// Reconciler keeps one terminal's working cart consistent with the backend.
// In sale mode the server-side pending cart is authoritative: every mutation
// goes to the backend and the returned cart replaces local state wholesale,
// so backend pricing (offers included) always wins. In edit mode the lines
// are a local scratch copy of an existing pending order, saved in a single
// full-replacement call on confirm.
//
// Mutations are serialized by a busy flag: a second mutation arriving while
// one is in flight fails with ErrMutationInFlight instead of queuing.
type Reconciler struct {
	backend Backend
	logger  *logrus.Logger
	ops     modeOps

	mu         sync.Mutex
	busy       bool
	customerID int64
	lines      []Line
}

// modeOps is the mode-specific half of each mutation
type modeOps interface {
	mode() string
	orderID() int64
	selectCustomer(ctx context.Context, r *Reconciler, customerID int64) error
	addItem(ctx context.Context, r *Reconciler, product *backend.Product, quantity int) error
	applyQuantity(ctx context.Context, r *Reconciler, line Line, quantity int) error
	removeLine(ctx context.Context, r *Reconciler, line Line) error
	confirm(ctx context.Context, r *Reconciler, customerID int64, lines []Line) (*backend.Order, error)
}

// NewSaleReconciler creates an empty sale-mode reconciler
func NewSaleReconciler(b Backend, logger *logrus.Logger) *Reconciler {
	return &Reconciler{
		backend: b,
		logger:  logger,
		ops:     saleOps{},
	}
}

// NewEditReconciler loads an existing order and seeds a local working copy of
// its lines. Only pending orders are editable.
func NewEditReconciler(ctx context.Context, b Backend, logger *logrus.Logger, orderID int64) (*Reconciler, error) {
	order, err := b.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != backend.OrderStatusPending {
		return nil, fmt.Errorf("order %s is %s: %w", order.Folio, order.Status, ErrNotEditable)
	}

	return &Reconciler{
		backend:    b,
		logger:     logger,
		ops:        editOps{id: orderID},
		customerID: order.CustomerID,
		lines:      linesFromOrder(order),
	}, nil
}

// Mode returns ModeSale or ModeEdit
func (r *Reconciler) Mode() string {
	return r.ops.mode()
}

// OrderID returns the order being edited, or zero in sale mode
func (r *Reconciler) OrderID() int64 {
	return r.ops.orderID()
}

// SelectCustomer binds the cart to a customer. In sale mode this adopts the
// customer's server-side pending cart, so lines added at another terminal
// appear here.
func (r *Reconciler) SelectCustomer(ctx context.Context, customerID int64) error {
	if err := r.begin(); err != nil {
		return err
	}
	defer r.end()

	return r.ops.selectCustomer(ctx, r, customerID)
}

// AddItem puts a product on the cart
func (r *Reconciler) AddItem(ctx context.Context, product *backend.Product, quantity int) error {
	if err := r.begin(); err != nil {
		return err
	}
	defer r.end()

	if r.currentCustomer() == 0 {
		return ErrNoCustomer
	}
	return r.ops.addItem(ctx, r, product, clampQuantity(quantity))
}

// SetQuantity sets the quantity of the product's line. Values below one are
// clamped to one.
func (r *Reconciler) SetQuantity(ctx context.Context, productID int64, quantity int) error {
	if err := r.begin(); err != nil {
		return err
	}
	defer r.end()

	line, ok := r.findLine(productID)
	if !ok {
		return ErrLineNotFound
	}
	return r.ops.applyQuantity(ctx, r, line, clampQuantity(quantity))
}

// Increment raises the product's line quantity by one
func (r *Reconciler) Increment(ctx context.Context, productID int64) error {
	return r.step(ctx, productID, +1)
}

// Decrement lowers the product's line quantity by one, stopping at one
func (r *Reconciler) Decrement(ctx context.Context, productID int64) error {
	return r.step(ctx, productID, -1)
}

func (r *Reconciler) step(ctx context.Context, productID int64, delta int) error {
	if err := r.begin(); err != nil {
		return err
	}
	defer r.end()

	line, ok := r.findLine(productID)
	if !ok {
		return ErrLineNotFound
	}
	return r.ops.applyQuantity(ctx, r, line, clampQuantity(line.Quantity+delta))
}

// RemoveItem drops the product's line from the cart
func (r *Reconciler) RemoveItem(ctx context.Context, productID int64) error {
	if err := r.begin(); err != nil {
		return err
	}
	defer r.end()

	line, ok := r.findLine(productID)
	if !ok {
		return ErrLineNotFound
	}
	return r.ops.removeLine(ctx, r, line)
}

// Confirm turns the working cart into a saved order and returns it. The
// preconditions are checked before any backend call; an invalid cart costs
// zero round trips. On success the working state is cleared.
func (r *Reconciler) Confirm(ctx context.Context) (*backend.Order, error) {
	if err := r.begin(); err != nil {
		return nil, err
	}
	defer r.end()

	r.mu.Lock()
	customerID := r.customerID
	lines := append([]Line(nil), r.lines...)
	r.mu.Unlock()

	if customerID == 0 {
		return nil, ErrNoCustomer
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	order, err := r.ops.confirm(ctx, r, customerID, lines)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.customerID = 0
	r.lines = nil
	r.mu.Unlock()

	r.logger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"folio":    order.Folio,
		"total":    order.Total.String(),
		"mode":     r.ops.mode(),
	}).Info("Cart confirmed")
	return order, nil
}

// Total recomputes the cart total from the lines
func (r *Reconciler) Total() money.Amount {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total money.Amount
	for _, line := range r.lines {
		total += line.Subtotal()
	}
	return total
}

// Snapshot returns a copy of the working cart
func (r *Reconciler) Snapshot() Snapshot {
	r.mu.Lock()
	lines := append([]Line(nil), r.lines...)
	customerID := r.customerID
	r.mu.Unlock()

	var total money.Amount
	for _, line := range lines {
		total += line.Subtotal()
	}
	return Snapshot{
		Mode:       r.ops.mode(),
		OrderID:    r.ops.orderID(),
		CustomerID: customerID,
		Lines:      lines,
		Total:      total,
	}
}

// begin claims the mutation slot or fails fast
func (r *Reconciler) begin() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.busy {
		return ErrMutationInFlight
	}
	r.busy = true
	return nil
}

func (r *Reconciler) end() {
	r.mu.Lock()
	r.busy = false
	r.mu.Unlock()
}

func (r *Reconciler) currentCustomer() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.customerID
}

func (r *Reconciler) findLine(productID int64) (Line, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, line := range r.lines {
		if line.ProductID == productID {
			return line, true
		}
	}
	return Line{}, false
}

// adopt replaces the working state with the server's view of the cart
func (r *Reconciler) adopt(order *backend.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customerID = order.CustomerID
	r.lines = linesFromOrder(order)
}

// saleOps drives the server-owned pending cart
type saleOps struct{}

func (saleOps) mode() string   { return ModeSale }
func (saleOps) orderID() int64 { return 0 }

func (saleOps) selectCustomer(ctx context.Context, r *Reconciler, customerID int64) error {
	cart, err := r.backend.GetCart(ctx, customerID)
	if err != nil {
		return err
	}
	r.adopt(cart)
	return nil
}

func (saleOps) addItem(ctx context.Context, r *Reconciler, product *backend.Product, quantity int) error {
	cart, err := r.backend.AddCartItem(ctx, r.currentCustomer(), product.ID, quantity)
	if err != nil {
		return err
	}
	r.adopt(cart)
	return nil
}

func (saleOps) applyQuantity(ctx context.Context, r *Reconciler, line Line, quantity int) error {
	cart, err := r.backend.UpdateCartItem(ctx, line.LineID, quantity)
	if err != nil {
		return err
	}
	r.adopt(cart)
	return nil
}

func (saleOps) removeLine(ctx context.Context, r *Reconciler, line Line) error {
	cart, err := r.backend.RemoveCartItem(ctx, line.LineID)
	if err != nil {
		return err
	}
	if cart == nil {
		// Delete answered with an empty body; re-fetch for the fresh view
		cart, err = r.backend.GetCart(ctx, r.currentCustomer())
		if err != nil {
			return err
		}
	}
	r.adopt(cart)
	return nil
}

func (saleOps) confirm(ctx context.Context, r *Reconciler, customerID int64, _ []Line) (*backend.Order, error) {
	return r.backend.ConfirmCart(ctx, customerID)
}

// editOps reworks an existing pending order locally
type editOps struct {
	id int64
}

func (e editOps) mode() string   { return ModeEdit }
func (e editOps) orderID() int64 { return e.id }

func (editOps) selectCustomer(_ context.Context, r *Reconciler, customerID int64) error {
	r.mu.Lock()
	r.customerID = customerID
	r.mu.Unlock()
	return nil
}

func (editOps) addItem(_ context.Context, r *Reconciler, product *backend.Product, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.lines {
		if r.lines[i].ProductID == product.ID {
			r.lines[i].Quantity += quantity
			return nil
		}
	}
	r.lines = append(r.lines, Line{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.EffectivePrice(),
		Quantity:  quantity,
	})
	return nil
}

func (editOps) applyQuantity(_ context.Context, r *Reconciler, line Line, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.lines {
		if r.lines[i].ProductID == line.ProductID {
			r.lines[i].Quantity = quantity
			return nil
		}
	}
	return ErrLineNotFound
}

func (editOps) removeLine(_ context.Context, r *Reconciler, line Line) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.lines[:0]
	for _, l := range r.lines {
		if l.ProductID != line.ProductID {
			kept = append(kept, l)
		}
	}
	r.lines = kept
	return nil
}

func (e editOps) confirm(ctx context.Context, r *Reconciler, customerID int64, lines []Line) (*backend.Order, error) {
	items := make([]backend.OrderItemInput, 0, len(lines))
	for _, line := range lines {
		items = append(items, backend.OrderItemInput{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return r.backend.ReplaceOrder(ctx, e.id, customerID, items)
}
