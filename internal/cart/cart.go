// internal/cart/cart.go
package cart

import (
	"context"
	"errors"

	"github.com/your-org/pos-terminal-gateway/internal/backend"
	"github.com/your-org/pos-terminal-gateway/internal/money"
)

// Reconciler modes. A sale builds against the server-owned pending cart; an
// edit reworks the lines of an existing pending order locally and saves them
// in one replacement call.
const (
	ModeSale = "sale"
	ModeEdit = "edit"
)

// Sentinel errors surfaced by the reconciler
var (
	ErrNoCustomer       = errors.New("cart has no customer selected")
	ErrEmptyCart        = errors.New("cart has no items")
	ErrMutationInFlight = errors.New("another cart mutation is in flight")
	ErrLineNotFound     = errors.New("cart line not found")
	ErrNotEditable      = errors.New("order is not editable")
)

// Backend is the slice of the POS client the reconciler drives
type Backend interface {
	GetCart(ctx context.Context, customerID int64) (*backend.Order, error)
	AddCartItem(ctx context.Context, customerID, productID int64, quantity int) (*backend.Order, error)
	UpdateCartItem(ctx context.Context, lineID int64, quantity int) (*backend.Order, error)
	RemoveCartItem(ctx context.Context, lineID int64) (*backend.Order, error)
	ConfirmCart(ctx context.Context, customerID int64) (*backend.Order, error)
	GetOrder(ctx context.Context, orderID int64) (*backend.Order, error)
	ReplaceOrder(ctx context.Context, orderID, customerID int64, items []backend.OrderItemInput) (*backend.Order, error)
}

// Line is one product row of the working cart. LineID is the server-side row
// id; it is zero for lines that exist only locally (edit-mode additions).
type Line struct {
	LineID    int64        `json:"line_id"`
	ProductID int64        `json:"product_id"`
	Name      string       `json:"name"`
	UnitPrice money.Amount `json:"unit_price"`
	Quantity  int          `json:"quantity"`
}

// Subtotal returns the line amount
func (l Line) Subtotal() money.Amount {
	return l.UnitPrice.Mul(l.Quantity)
}

// Snapshot is a point-in-time copy of the working cart
type Snapshot struct {
	Mode       string       `json:"mode"`
	OrderID    int64        `json:"order_id,omitempty"`
	CustomerID int64        `json:"customer_id"`
	Lines      []Line       `json:"lines"`
	Total      money.Amount `json:"total"`
}

// clampQuantity keeps quantities positive; removal is an explicit operation,
// never a side effect of decrementing.
func clampQuantity(quantity int) int {
	if quantity < 1 {
		return 1
	}
	return quantity
}

// linesFromOrder projects server order rows into working lines
func linesFromOrder(order *backend.Order) []Line {
	lines := make([]Line, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, Line{
			LineID:    item.ID,
			ProductID: item.ProductID,
			Name:      item.ProductName,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}
	return lines
}
