// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-terminal-gateway/internal/backend"
)

// CatalogHandler passes the product catalog and customer list through to the
// terminal UI
type CatalogHandler struct {
	client *backend.Client
	logger *logrus.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(client *backend.Client, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		client: client,
		logger: logger,
	}
}

// GetProducts handles GET /catalog/products
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	products, err := h.client.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": products,
	})
}

// GetCustomers handles GET /customers
func (h *CatalogHandler) GetCustomers(c *gin.Context) {
	customers, err := h.client.ListCustomers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": customers,
	})
}
