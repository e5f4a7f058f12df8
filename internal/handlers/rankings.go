package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodcart/order-service/internal/database"
	"github.com/foodcart/order-service/internal/matcher"
)

// ============================================================================
// Order Ranking Endpoints
// ============================================================================

// RankedRestaurant is a candidate restaurant with its distance to the order
// address. DistanceKm is null when either address could not be geocoded.
type RankedRestaurant struct {
	Name       string   `json:"name"`
	DistanceKm *float64 `json:"distanceKm"`
}

// OrderRankingResponse is the ranking result for a single unprocessed order
type OrderRankingResponse struct {
	OrderID     int64              `json:"orderId"`
	Address     string             `json:"address"`
	TotalPrice  int64              `json:"totalPrice"`
	Restaurants []RankedRestaurant `json:"rankedRestaurants"`
}

// GetOrderRankings computes candidate restaurants for every unprocessed
// order, ranked by road-free distance from the order address
// GET /internal/orders/rankings
func GetOrderRankings(c *gin.Context) {
	if rankingEngine == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Ranking engine not initialized"})
		return
	}

	menuRows, lineRows, err := database.LoadRankingSnapshot(c.Request.Context(), database.Pool())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	aggregates := matcher.Match(menuRows, lineRows)

	rankings, err := rankingEngine.Rank(c.Request.Context(), aggregates)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	response := make([]*OrderRankingResponse, len(rankings))
	for i, r := range rankings {
		restaurants := make([]RankedRestaurant, len(r.Restaurants))
		for j, cand := range r.Restaurants {
			restaurants[j] = RankedRestaurant{
				Name:       cand.Name,
				DistanceKm: cand.DistanceKm,
			}
		}
		response[i] = &OrderRankingResponse{
			OrderID:     r.OrderID,
			Address:     r.Address,
			TotalPrice:  r.TotalPrice,
			Restaurants: restaurants,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": response,
		"total":  len(response),
	})
}
