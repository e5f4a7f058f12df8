package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/foodcart/order-service/internal/database"
)

// ============================================================================
// Order Submission Endpoints
// ============================================================================

// OrderLineRequest is a single product line in an order submission
type OrderLineRequest struct {
	Product  int64 `json:"product" binding:"required"`
	Quantity int   `json:"quantity" binding:"required,min=1"`
}

// OrderRequest is a customer order submission
type OrderRequest struct {
	Firstname   string             `json:"firstname" binding:"required"`
	Lastname    string             `json:"lastname" binding:"required"`
	Phonenumber string             `json:"phonenumber" binding:"required"`
	Address     string             `json:"address" binding:"required"`
	Comment     string             `json:"comment"`
	Products    []OrderLineRequest `json:"products" binding:"required,min=1,dive"`
}

// OrderResponse is the persisted order returned after submission
type OrderResponse struct {
	ID          int64  `json:"id"`
	Firstname   string `json:"firstname"`
	Lastname    string `json:"lastname"`
	Phonenumber string `json:"phonenumber"`
	Address     string `json:"address"`
	Status      string `json:"status"`
}

// CreateOrder accepts a customer order and persists it with price
// snapshots taken at submission time
// POST /api/orders
func CreateOrder(c *gin.Context) {
	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lines := make([]database.NewOrderLine, len(req.Products))
	for i, p := range req.Products {
		lines[i] = database.NewOrderLine{
			ProductID: p.Product,
			Quantity:  p.Quantity,
		}
	}

	order, _, err := database.CreateOrder(c.Request.Context(), database.Pool(), database.NewOrder{
		Firstname:   req.Firstname,
		Lastname:    req.Lastname,
		Phonenumber: req.Phonenumber,
		Address:     req.Address,
		Comment:     req.Comment,
		Lines:       lines,
	})
	if err != nil {
		var unknown database.ErrUnknownProduct
		if errors.As(err, &unknown) {
			c.JSON(http.StatusBadRequest, gin.H{"error": unknown.Error()})
			return
		}
		log.Error().Err(err).Msg("Failed to create order")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	c.JSON(http.StatusCreated, &OrderResponse{
		ID:          order.ID,
		Firstname:   order.Firstname,
		Lastname:    order.Lastname,
		Phonenumber: order.Phonenumber,
		Address:     order.Address,
		Status:      order.Status,
	})
}
