package geocoder

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/foodcart/order-service/internal/geo"
)

// Resolver resolves a free-text address to coordinates.
type Resolver interface {
	Resolve(ctx context.Context, address string) (geo.Coordinates, error)
}

// entry is a definitive provider answer for an address. ok=false means the
// provider found nothing for this address.
type entry struct {
	coords geo.Coordinates
	ok     bool
}

// Cache memoizes address lookups for the lifetime of the process. Keys are
// exact address strings, so two spellings of the same place are cached
// separately. There is no TTL and no eviction: geocoding is paid and
// rate-limited, addresses don't move.
//
// Concurrent resolution of the same uncached address may call the resolver
// twice; both writes store the same answer, so the race is benign.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry

	resolver Resolver
	metrics  *MetricsRecorder
	logger   zerolog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCache creates an empty coordinate cache backed by the given resolver.
func NewCache(resolver Resolver) *Cache {
	return &Cache{
		entries:  make(map[string]entry),
		resolver: resolver,
		metrics:  NewMetricsRecorder(),
		logger:   log.With().Str("component", "coordinate_cache").Logger(),
	}
}

// GetOrResolve returns the coordinates for an address, resolving and caching
// on first use. ok=false means the address is definitively unresolved.
//
// Transport and malformed-response failures are returned as errors and NOT
// cached, so a later pass can retry once the provider recovers. Only
// definitive answers (coordinates, or an empty result set) are stored.
func (c *Cache) GetOrResolve(ctx context.Context, address string) (geo.Coordinates, bool, error) {
	c.mu.RLock()
	e, found := c.entries[address]
	c.mu.RUnlock()

	if found {
		c.hits.Add(1)
		c.metrics.RecordCacheHit()
		return e.coords, e.ok, nil
	}

	c.misses.Add(1)
	c.metrics.RecordCacheMiss()

	coords, err := c.resolver.Resolve(ctx, address)
	switch {
	case err == nil:
		c.store(address, entry{coords: coords, ok: true})
		return coords, true, nil
	case errors.Is(err, ErrUnresolved):
		c.store(address, entry{ok: false})
		return geo.Coordinates{}, false, nil
	default:
		c.logger.Warn().Err(err).Str("address", address).Msg("Geocode resolution failed")
		return geo.Coordinates{}, false, err
	}
}

func (c *Cache) store(address string, e entry) {
	c.mu.Lock()
	c.entries[address] = e
	c.mu.Unlock()
	c.metrics.RecordCacheSize(c.Len())
}

// Len returns the number of cached addresses.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats reports cache counters for the internal status endpoint.
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Entries: c.Len(),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}
