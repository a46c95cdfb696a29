// internal/interfaces/http/handlers/order.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-terminal-gateway/internal/backend"
	"github.com/your-org/pos-terminal-gateway/internal/order"
)

// OrderHandler serves the order detail view, receipts and voiding
type OrderHandler struct {
	client *backend.Client
	logger *logrus.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(client *backend.Client, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		client: client,
		logger: logger,
	}
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, err := parseID(c, "id")
	if err != nil {
		return
	}

	projector, err := order.Load(c.Request.Context(), h.client, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"order":    projector.Order(),
			"can_edit": projector.CanEdit(),
			"can_pay":  projector.CanPay(),
		},
	})
}

// GetReceipt handles GET /orders/:id/receipt. The receipt is rendered
// backend-side; the gateway streams the blob through with its content type.
func (h *OrderHandler) GetReceipt(c *gin.Context) {
	orderID, err := parseID(c, "id")
	if err != nil {
		return
	}

	blob, contentType, err := h.client.Receipt(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Data(http.StatusOK, contentType, blob)
}

// VoidOrder handles POST /orders/:id/void
func (h *OrderHandler) VoidOrder(c *gin.Context) {
	orderID, err := parseID(c, "id")
	if err != nil {
		return
	}

	if err := h.client.VoidOrder(c.Request.Context(), orderID); err != nil {
		respondError(c, err)
		return
	}

	h.logger.WithField("order_id", orderID).Info("Order voided")
	c.JSON(http.StatusOK, gin.H{
		"message": "Order voided successfully",
	})
}
