package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodcart/order-service/internal/geocoder"
)

// ============================================================================
// Geocoder Cache Endpoints
// ============================================================================

// ResolveRequest asks the geocoder for the coordinates of one address
type ResolveRequest struct {
	Address string `json:"address" binding:"required"`
}

// ResolveResponse carries the geocoding outcome. Latitude and Longitude
// are omitted when the address could not be resolved.
type ResolveResponse struct {
	Address   string   `json:"address"`
	Resolved  bool     `json:"resolved"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// GetGeocoderCacheStats reports cache size and hit counters
// GET /internal/geocoder/cache
func GetGeocoderCacheStats(c *gin.Context) {
	if coordinateCache == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Geocoder cache not initialized"})
		return
	}
	c.JSON(http.StatusOK, coordinateCache.Stats())
}

// ResolveAddress geocodes a single address through the cache, warming it
// for subsequent ranking passes
// POST /internal/geocoder/resolve
func ResolveAddress(c *gin.Context) {
	if coordinateCache == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Geocoder cache not initialized"})
		return
	}

	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coords, ok, err := coordinateCache.GetOrResolve(c.Request.Context(), req.Address)
	if err != nil {
		var transportErr *geocoder.TransportError
		if errors.As(err, &transportErr) {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := &ResolveResponse{Address: req.Address, Resolved: ok}
	if ok {
		resp.Latitude = &coords.Latitude
		resp.Longitude = &coords.Longitude
	}
	c.JSON(http.StatusOK, resp)
}
