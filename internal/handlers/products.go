package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodcart/order-service/internal/database"
	"github.com/foodcart/order-service/internal/matching"
)

// ============================================================================
// Product Catalog Endpoints
// ============================================================================

// ListProducts returns products currently available at one or more
// restaurants. An optional q parameter filters by normalized name match
// GET /api/products?q=burger
func ListProducts(c *gin.Context) {
	products, err := database.ListAvailableProducts(c.Request.Context(), database.Pool())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	query := c.Query("q")
	filtered := make([]database.Product, 0, len(products))
	for _, p := range products {
		if matching.MatchesQuery(p.Name, query) {
			filtered = append(filtered, p)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"products": filtered,
		"total":    len(filtered),
	})
}
