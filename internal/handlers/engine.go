package handlers

import (
	"github.com/foodcart/order-service/internal/geocoder"
	"github.com/foodcart/order-service/internal/ranker"
)

// Global engine instances (initialized by the application)
var (
	coordinateCache *geocoder.Cache
	rankingEngine   *ranker.Ranker
)

// InitEngine wires the geocoder cache and the ranking engine into the
// handlers. This should be called during application startup.
func InitEngine(cache *geocoder.Cache, engine *ranker.Ranker) {
	coordinateCache = cache
	rankingEngine = engine
}
