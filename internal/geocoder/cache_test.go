package geocoder

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodcart/order-service/internal/geo"
)

// countingResolver is a scripted resolver that counts calls per address.
type countingResolver struct {
	mu      sync.Mutex
	calls   map[string]int
	results map[string]geo.Coordinates
	errs    map[string]error
}

func newCountingResolver() *countingResolver {
	return &countingResolver{
		calls:   make(map[string]int),
		results: make(map[string]geo.Coordinates),
		errs:    make(map[string]error),
	}
}

func (r *countingResolver) Resolve(ctx context.Context, address string) (geo.Coordinates, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[address]++
	if err, ok := r.errs[address]; ok {
		return geo.Coordinates{}, err
	}
	if coords, ok := r.results[address]; ok {
		return coords, nil
	}
	return geo.Coordinates{}, ErrUnresolved
}

func (r *countingResolver) callsFor(address string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[address]
}

func TestCacheResolvesOncePerAddress(t *testing.T) {
	resolver := newCountingResolver()
	resolver.results["Moscow, Arbat 1"] = geo.Coordinates{Latitude: 55.75, Longitude: 37.59}

	cache := NewCache(resolver)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		coords, ok, err := cache.GetOrResolve(ctx, "Moscow, Arbat 1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 55.75, coords.Latitude)
	}

	assert.Equal(t, 1, resolver.callsFor("Moscow, Arbat 1"),
		"repeated lookups must not reach the resolver again")
}

func TestCacheStoresUnresolvedAnswer(t *testing.T) {
	resolver := newCountingResolver()
	cache := NewCache(resolver)
	ctx := context.Background()

	_, ok, err := cache.GetOrResolve(ctx, "gibberish address")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = cache.GetOrResolve(ctx, "gibberish address")
	require.NoError(t, err)
	assert.False(t, ok)

	// The empty result set is definitive, so it is cached too.
	assert.Equal(t, 1, resolver.callsFor("gibberish address"))
}

func TestCacheDoesNotCacheTransportFailures(t *testing.T) {
	resolver := newCountingResolver()
	resolver.errs["Moscow"] = &TransportError{URL: "http://geocoder", Status: 502}

	cache := NewCache(resolver)
	ctx := context.Background()

	_, ok, err := cache.GetOrResolve(ctx, "Moscow")
	assert.Error(t, err)
	assert.False(t, ok)

	// Provider recovers; the next pass must retry instead of serving the failure.
	delete(resolver.errs, "Moscow")
	resolver.results["Moscow"] = geo.Coordinates{Latitude: 55.75, Longitude: 37.61}

	coords, ok, err := cache.GetOrResolve(ctx, "Moscow")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 55.75, coords.Latitude)
	assert.Equal(t, 2, resolver.callsFor("Moscow"))
}

func TestCacheKeysAreExactStrings(t *testing.T) {
	resolver := newCountingResolver()
	resolver.results["Moscow, Arbat 1"] = geo.Coordinates{Latitude: 55.75, Longitude: 37.59}
	resolver.results["Moscow,Arbat 1"] = geo.Coordinates{Latitude: 55.75, Longitude: 37.59}

	cache := NewCache(resolver)
	ctx := context.Background()

	_, _, err := cache.GetOrResolve(ctx, "Moscow, Arbat 1")
	require.NoError(t, err)
	_, _, err = cache.GetOrResolve(ctx, "Moscow,Arbat 1")
	require.NoError(t, err)

	// Differently formatted strings for the same place are separate entries.
	assert.Equal(t, 2, cache.Len())
}

func TestCacheConcurrentSameAddress(t *testing.T) {
	resolver := newCountingResolver()
	resolver.results["Moscow"] = geo.Coordinates{Latitude: 55.75, Longitude: 37.61}

	cache := NewCache(resolver)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			coords, ok, err := cache.GetOrResolve(ctx, "Moscow")
			assert.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, 55.75, coords.Latitude)
		}()
	}
	wg.Wait()

	// The duplicate-resolve race is tolerated, but the cache must
	// converge to a single entry with the right answer.
	assert.Equal(t, 1, cache.Len())
}

func TestCacheStats(t *testing.T) {
	resolver := newCountingResolver()
	resolver.results["a"] = geo.Coordinates{Latitude: 1, Longitude: 2}

	cache := NewCache(resolver)
	ctx := context.Background()

	cache.GetOrResolve(ctx, "a")
	cache.GetOrResolve(ctx, "a")
	cache.GetOrResolve(ctx, "a")

	stats := cache.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}
