// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-terminal-gateway/internal/backend"
	"github.com/your-org/pos-terminal-gateway/internal/cart"
	"github.com/your-org/pos-terminal-gateway/internal/session"
)

// CartHandler owns the live cart reconcilers of this terminal, keyed by a
// cart id handed to the UI on creation
type CartHandler struct {
	client  *backend.Client
	manager *session.Manager
	logger  *logrus.Logger

	mu    sync.RWMutex
	carts map[string]*cart.Reconciler
}

// NewCartHandler creates a new cart handler
func NewCartHandler(client *backend.Client, manager *session.Manager, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		client:  client,
		manager: manager,
		logger:  logger,
		carts:   make(map[string]*cart.Reconciler),
	}
}

// CreateCartRequest opens a working cart. Mode "sale" starts empty; mode
// "edit" seeds from an existing pending order.
type CreateCartRequest struct {
	Mode    string `json:"mode" binding:"required,oneof=sale edit"`
	OrderID int64  `json:"order_id"`
}

// CreateCart handles POST /carts
func (h *CartHandler) CreateCart(c *gin.Context) {
	var req CreateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	var (
		reconciler *cart.Reconciler
		err        error
	)
	switch req.Mode {
	case cart.ModeEdit:
		// Reworking a saved sale needs its own permission
		if !h.manager.Can(session.PermSalesEdit) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Permission denied",
			})
			return
		}
		if req.OrderID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "order_id is required for edit mode",
			})
			return
		}
		reconciler, err = cart.NewEditReconciler(c.Request.Context(), h.client, h.logger, req.OrderID)
		if err != nil {
			respondError(c, err)
			return
		}
	default:
		reconciler = cart.NewSaleReconciler(h.client, h.logger)
	}

	id := uuid.NewString()
	h.mu.Lock()
	h.carts[id] = reconciler
	h.mu.Unlock()

	c.JSON(http.StatusCreated, gin.H{
		"message": "Cart created successfully",
		"data": gin.H{
			"id":   id,
			"cart": reconciler.Snapshot(),
		},
	})
}

// GetCart handles GET /carts/:id
func (h *CartHandler) GetCart(c *gin.Context) {
	reconciler, ok := h.lookup(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": reconciler.Snapshot(),
	})
}

// SelectCustomerRequest binds the cart to a customer
type SelectCustomerRequest struct {
	CustomerID int64 `json:"customer_id" binding:"required"`
}

// SelectCustomer handles PUT /carts/:id/customer
func (h *CartHandler) SelectCustomer(c *gin.Context) {
	reconciler, ok := h.lookup(c)
	if !ok {
		return
	}

	var req SelectCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := reconciler.SelectCustomer(c.Request.Context(), req.CustomerID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": reconciler.Snapshot(),
	})
}

// AddItemRequest puts a product on the cart. The UI sends the catalog entry
// it holds so edit mode can price offer-discounted additions locally.
type AddItemRequest struct {
	Product  backend.Product `json:"product" binding:"required"`
	Quantity int             `json:"quantity"`
}

// AddItem handles POST /carts/:id/items
func (h *CartHandler) AddItem(c *gin.Context) {
	reconciler, ok := h.lookup(c)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	if err := reconciler.AddItem(c.Request.Context(), &req.Product, req.Quantity); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    reconciler.Snapshot(),
	})
}

// UpdateItemRequest changes one line. Either an absolute quantity or an
// increment/decrement op.
type UpdateItemRequest struct {
	Quantity int    `json:"quantity"`
	Op       string `json:"op" binding:"omitempty,oneof=increment decrement"`
}

// UpdateItem handles PATCH /carts/:id/items/:productId
func (h *CartHandler) UpdateItem(c *gin.Context) {
	reconciler, ok := h.lookup(c)
	if !ok {
		return
	}

	productID, err := parseID(c, "productId")
	if err != nil {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	switch req.Op {
	case "increment":
		err = reconciler.Increment(ctx, productID)
	case "decrement":
		err = reconciler.Decrement(ctx, productID)
	default:
		err = reconciler.SetQuantity(ctx, productID, req.Quantity)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": reconciler.Snapshot(),
	})
}

// RemoveItem handles DELETE /carts/:id/items/:productId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	reconciler, ok := h.lookup(c)
	if !ok {
		return
	}

	productID, err := parseID(c, "productId")
	if err != nil {
		return
	}

	if err := reconciler.RemoveItem(c.Request.Context(), productID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    reconciler.Snapshot(),
	})
}

// Confirm handles POST /carts/:id/confirm
func (h *CartHandler) Confirm(c *gin.Context) {
	reconciler, ok := h.lookup(c)
	if !ok {
		return
	}

	order, err := reconciler.Confirm(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	// The working cart is spent once the order is saved
	h.mu.Lock()
	delete(h.carts, c.Param("id"))
	h.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart confirmed successfully",
		"data":    order,
	})
}

// Discard handles DELETE /carts/:id
func (h *CartHandler) Discard(c *gin.Context) {
	id := c.Param("id")

	h.mu.Lock()
	_, exists := h.carts[id]
	delete(h.carts, id)
	h.mu.Unlock()

	if !exists {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Cart not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart discarded successfully",
	})
}

func (h *CartHandler) lookup(c *gin.Context) (*cart.Reconciler, bool) {
	h.mu.RLock()
	reconciler, ok := h.carts[c.Param("id")]
	h.mu.RUnlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Cart not found",
		})
		return nil, false
	}
	return reconciler, true
}

// parseID reads a numeric path parameter, responding 400 on garbage
func parseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name,
		})
		return 0, err
	}
	return id, nil
}
