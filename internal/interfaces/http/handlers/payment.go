// internal/interfaces/http/handlers/payment.go
package handlers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-terminal-gateway/internal/backend"
	"github.com/your-org/pos-terminal-gateway/internal/checkout"
)

// PaymentHandler owns the live checkout orchestrators, one per order
type PaymentHandler struct {
	client   *backend.Client
	logger   *logrus.Logger
	currency string

	mu        sync.RWMutex
	checkouts map[int64]*checkout.Orchestrator
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(client *backend.Client, logger *logrus.Logger, currency string) *PaymentHandler {
	return &PaymentHandler{
		client:    client,
		logger:    logger,
		currency:  currency,
		checkouts: make(map[int64]*checkout.Orchestrator),
	}
}

// StartCheckout handles POST /orders/:id/checkout
func (h *PaymentHandler) StartCheckout(c *gin.Context) {
	orderID, err := parseID(c, "id")
	if err != nil {
		return
	}

	h.mu.RLock()
	existing, ok := h.checkouts[orderID]
	h.mu.RUnlock()
	if ok && !existing.Completed() {
		c.JSON(http.StatusOK, gin.H{
			"data": h.state(existing),
		})
		return
	}

	order, err := h.client.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	if order.Status != backend.OrderStatusPending {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Order is not awaiting payment",
		})
		return
	}

	orchestrator := checkout.NewOrchestrator(h.client, h.logger, order, h.currency)
	h.mu.Lock()
	h.checkouts[orderID] = orchestrator
	h.mu.Unlock()

	c.JSON(http.StatusCreated, gin.H{
		"message": "Checkout started successfully",
		"data":    h.state(orchestrator),
	})
}

// GetCheckout handles GET /orders/:id/checkout
func (h *PaymentHandler) GetCheckout(c *gin.Context) {
	orchestrator, ok := h.lookup(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": h.state(orchestrator),
	})
}

// PayCash handles POST /orders/:id/checkout/cash
func (h *PaymentHandler) PayCash(c *gin.Context) {
	orchestrator, ok := h.lookup(c)
	if !ok {
		return
	}

	if err := orchestrator.PayCash(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment recorded successfully",
		"data":    h.state(orchestrator),
	})
}

// StartCard handles POST /orders/:id/checkout/card
func (h *PaymentHandler) StartCard(c *gin.Context) {
	orchestrator, ok := h.lookup(c)
	if !ok {
		return
	}

	if err := orchestrator.StartCard(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": h.state(orchestrator),
	})
}

// CardResultRequest reports the outcome of the external card capability run
// by the UI
type CardResultRequest struct {
	Succeeded bool   `json:"succeeded"`
	Error     string `json:"error"`
}

// ConfirmCard handles POST /orders/:id/checkout/card/confirm
func (h *PaymentHandler) ConfirmCard(c *gin.Context) {
	orchestrator, ok := h.lookup(c)
	if !ok {
		return
	}

	var req CardResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	gateway := checkout.ExternalResult{OK: req.Succeeded, Message: req.Error}
	if err := orchestrator.ConfirmCard(c.Request.Context(), gateway); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment recorded successfully",
		"data":    h.state(orchestrator),
	})
}

// StartQR handles POST /orders/:id/checkout/qr
func (h *PaymentHandler) StartQR(c *gin.Context) {
	orchestrator, ok := h.lookup(c)
	if !ok {
		return
	}

	if err := orchestrator.StartQR(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": h.state(orchestrator),
	})
}

// ConfirmQR handles POST /orders/:id/checkout/qr/confirm
func (h *PaymentHandler) ConfirmQR(c *gin.Context) {
	orchestrator, ok := h.lookup(c)
	if !ok {
		return
	}

	if err := orchestrator.ConfirmQR(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment recorded successfully",
		"data":    h.state(orchestrator),
	})
}

// CancelMethod handles POST /orders/:id/checkout/cancel
func (h *PaymentHandler) CancelMethod(c *gin.Context) {
	orchestrator, ok := h.lookup(c)
	if !ok {
		return
	}

	if err := orchestrator.Cancel(); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": h.state(orchestrator),
	})
}

// state projects the orchestrator into the UI payload for its current view
func (h *PaymentHandler) state(o *checkout.Orchestrator) gin.H {
	view := o.View()
	state := gin.H{
		"order_id": o.OrderID(),
		"view":     view,
	}

	switch view {
	case checkout.ViewCard:
		state["client_secret"] = o.ClientSecret()
	case checkout.ViewQR:
		state["settings"] = o.Settings()
		if payload, err := o.QRCode(); err == nil {
			state["qr"] = json.RawMessage(payload)
		}
	}
	return state
}

func (h *PaymentHandler) lookup(c *gin.Context) (*checkout.Orchestrator, bool) {
	orderID, err := parseID(c, "id")
	if err != nil {
		return nil, false
	}

	h.mu.RLock()
	orchestrator, ok := h.checkouts[orderID]
	h.mu.RUnlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No checkout in progress for this order",
		})
		return nil, false
	}
	return orchestrator, true
}
