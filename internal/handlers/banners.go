package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ============================================================================
// Storefront Banner Endpoints
// ============================================================================

// Banner is a promotional slide shown on the storefront landing page
type Banner struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Src      string `json:"src"`
	Text     string `json:"text"`
	Duration int    `json:"duration"` // seconds the slide stays visible
}

var banners = []Banner{
	{ID: 1, Title: "food", Src: "/media/banners/food.png", Text: "Fresh dishes from local restaurants", Duration: 5},
	{ID: 2, Title: "delivery", Src: "/media/banners/delivery.png", Text: "Fast delivery across the city", Duration: 5},
	{ID: 3, Title: "discounts", Src: "/media/banners/discounts.png", Text: "Weekly discounts on popular meals", Duration: 5},
}

// ListBanners returns the storefront banner carousel
// GET /api/banners
func ListBanners(c *gin.Context) {
	c.JSON(http.StatusOK, banners)
}
