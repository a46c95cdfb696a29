// internal/backend/types.go
package backend

import (
	"time"

	"github.com/your-org/pos-terminal-gateway/internal/money"
)

// Order statuses as reported by the POS backend
const (
	OrderStatusPending  = "pending"
	OrderStatusPaid     = "paid"
	OrderStatusVoided   = "voided"
	OrderStatusRefunded = "refunded"
)

// TokenPair is the credential pair returned by the token endpoint
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Principal is the authenticated user as reported by /me
type Principal struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	FullName    string   `json:"full_name"`
	Permissions []string `json:"permissions"`
	IsSuperuser bool     `json:"is_superuser"`
}

// OrderItem is one line of an order or of the server-side pending cart
type OrderItem struct {
	ID          int64        `json:"id"`
	ProductID   int64        `json:"product"`
	ProductName string       `json:"product_name"`
	Quantity    int          `json:"quantity"`
	UnitPrice   money.Amount `json:"unit_price"`
	Subtotal    money.Amount `json:"subtotal"`
}

// Order is a sale record. A pending order doubles as the server-owned cart.
type Order struct {
	ID           int64        `json:"id"`
	Folio        string       `json:"folio"`
	CustomerID   int64        `json:"customer"`
	CustomerName string       `json:"customer_name"`
	Status       string       `json:"status"`
	Items        []OrderItem  `json:"items"`
	Subtotal     money.Amount `json:"subtotal"`
	Total        money.Amount `json:"total"`
	CreatedAt    time.Time    `json:"created_at"`
}

// OrderItemInput is the line payload for the full-replace order update
type OrderItemInput struct {
	ProductID int64        `json:"product"`
	Quantity  int          `json:"quantity"`
	UnitPrice money.Amount `json:"unit_price"`
}

// Offer describes an active discount attached to a product
type Offer struct {
	DiscountPercent float64 `json:"discount_percent"`
}

// Product is a catalog entry. FinalPrice is set only while an offer applies.
type Product struct {
	ID          int64         `json:"id"`
	Code        string        `json:"code"`
	Name        string        `json:"name"`
	Price       money.Amount  `json:"price"`
	FinalPrice  *money.Amount `json:"final_price"`
	Stock       int           `json:"stock"`
	Active      bool          `json:"active"`
	ActiveOffer *Offer        `json:"active_offer"`
}

// EffectivePrice returns the discounted price while an offer is active,
// otherwise the base price.
func (p *Product) EffectivePrice() money.Amount {
	if p.FinalPrice != nil {
		return *p.FinalPrice
	}
	return p.Price
}

// Customer is a registered buyer
type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PaymentSettings holds the payment-destination configuration shown in the
// QR flow (bank transfer details and the transfer glosa)
type PaymentSettings struct {
	BankName       string `json:"bank_name"`
	AccountNumber  string `json:"account_number"`
	AccountHolder  string `json:"account_holder"`
	HolderDocument string `json:"holder_document"`
	QRGlosa        string `json:"qr_glosa"`
}

// CardIntent carries the client secret for the external card capability
type CardIntent struct {
	ClientSecret string `json:"client_secret"`
}
