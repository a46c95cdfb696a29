// internal/interfaces/http/handlers/respond.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-terminal-gateway/internal/backend"
	"github.com/your-org/pos-terminal-gateway/internal/cart"
	"github.com/your-org/pos-terminal-gateway/internal/checkout"
)

// respondError maps domain and backend errors onto terminal API responses
func respondError(c *gin.Context, err error) {
	var reconciliation *checkout.ReconciliationError
	if errors.As(err, &reconciliation) {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":                   reconciliation.Error(),
			"order_id":                reconciliation.OrderID,
			"reconciliation_required": true,
		})
		return
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.StatusCode, gin.H{
			"error": apiErr.Detail,
		})
		return
	}

	switch {
	case errors.Is(err, cart.ErrMutationInFlight),
		errors.Is(err, cart.ErrNotEditable),
		errors.Is(err, checkout.ErrCheckoutCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, cart.ErrNoCustomer),
		errors.Is(err, cart.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, cart.ErrLineNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}
