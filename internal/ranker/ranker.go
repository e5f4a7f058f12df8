// Package ranker turns matcher output into the per-order view served to
// managers: candidate restaurants sorted by delivery distance, orders sorted
// by ID.
package ranker

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/foodcart/order-service/internal/geo"
	"github.com/foodcart/order-service/internal/matcher"
)

// CoordinateSource resolves addresses to coordinates, normally the
// geocoder cache. ok=false means the address is unresolved; an error means
// the resolution failed transiently and should be degraded, not cached.
type CoordinateSource interface {
	GetOrResolve(ctx context.Context, address string) (geo.Coordinates, bool, error)
}

// RankedRestaurant is one candidate with its delivery distance.
// DistanceKm is nil when either end of the route failed to geocode.
type RankedRestaurant struct {
	Name       string
	DistanceKm *float64
}

// OrderRanking is the final per-order view.
type OrderRanking struct {
	OrderID     int64
	Address     string
	TotalPrice  int64 // minor currency units
	Restaurants []RankedRestaurant
}

// Config bounds the geocoding fan-out of a ranking pass.
type Config struct {
	MaxConcurrentResolves int64
}

// DefaultConfig returns the default ranking configuration.
func DefaultConfig() Config {
	return Config{
		MaxConcurrentResolves: 8,
	}
}

// Ranker computes distance rankings for matched orders.
type Ranker struct {
	coords  CoordinateSource
	sem     *semaphore.Weighted
	metrics *MetricsRecorder
	logger  zerolog.Logger
}

// New creates a ranker on top of the given coordinate source.
func New(coords CoordinateSource, cfg Config) *Ranker {
	if cfg.MaxConcurrentResolves <= 0 {
		cfg.MaxConcurrentResolves = DefaultConfig().MaxConcurrentResolves
	}
	return &Ranker{
		coords:  coords,
		sem:     semaphore.NewWeighted(cfg.MaxConcurrentResolves),
		metrics: NewMetricsRecorder(),
		logger:  log.With().Str("component", "ranker").Logger(),
	}
}

type resolvedAddress struct {
	coords geo.Coordinates
	ok     bool
}

// Rank resolves every address referenced by the aggregates, computes
// order-to-restaurant distances and emits rankings sorted by order ID, with
// each order's candidates sorted ascending by distance, unresolved last.
//
// One unresolvable address never fails the pass: the affected restaurants
// keep a nil distance. Only context cancellation aborts.
func (r *Ranker) Rank(ctx context.Context, aggregates []matcher.OrderAggregate) ([]OrderRanking, error) {
	start := time.Now()
	defer func() {
		r.metrics.RecordPassDuration(time.Since(start))
	}()

	resolved, err := r.resolveAll(ctx, aggregates)
	if err != nil {
		return nil, err
	}

	rankings := make([]OrderRanking, 0, len(aggregates))
	for _, agg := range aggregates {
		ranking := OrderRanking{
			OrderID:     agg.OrderID,
			Address:     agg.Address,
			TotalPrice:  agg.TotalPrice,
			Restaurants: make([]RankedRestaurant, 0, len(agg.Candidates)),
		}

		origin := resolved[agg.Address]
		for _, candidate := range agg.Candidates {
			ranked := RankedRestaurant{Name: candidate.Name}
			dest := resolved[candidate.Address]
			if origin.ok && dest.ok {
				d := geo.DistanceKm(origin.coords, dest.coords)
				ranked.DistanceKm = &d
			}
			ranking.Restaurants = append(ranking.Restaurants, ranked)
		}

		// Ascending by distance, unresolved entries after all resolved ones.
		// Stable so equal distances keep menu insertion order.
		sort.SliceStable(ranking.Restaurants, func(i, j int) bool {
			a, b := ranking.Restaurants[i], ranking.Restaurants[j]
			if a.DistanceKm == nil {
				return false
			}
			if b.DistanceKm == nil {
				return true
			}
			return *a.DistanceKm < *b.DistanceKm
		})

		r.metrics.RecordCandidateCount(len(ranking.Restaurants))
		rankings = append(rankings, ranking)
	}

	sort.Slice(rankings, func(i, j int) bool {
		return rankings[i].OrderID < rankings[j].OrderID
	})

	return rankings, nil
}

// resolveAll resolves the distinct addresses of a pass with bounded fan-out.
// Geocoding calls are independent per address; the coordinate cache is the
// serialization point for writes.
func (r *Ranker) resolveAll(ctx context.Context, aggregates []matcher.OrderAggregate) (map[string]resolvedAddress, error) {
	seen := make(map[string]struct{})
	addresses := make([]string, 0)
	add := func(addr string) {
		if addr == "" {
			return
		}
		if _, ok := seen[addr]; ok {
			return
		}
		seen[addr] = struct{}{}
		addresses = append(addresses, addr)
	}

	for _, agg := range aggregates {
		add(agg.Address)
		for _, c := range agg.Candidates {
			add(c.Address)
		}
	}

	results := make(map[string]resolvedAddress, len(addresses))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, address := range addresses {
		if err := r.sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return nil, err
		}

		wg.Add(1)
		go func(addr string) {
			defer r.sem.Release(1)
			defer wg.Done()

			coords, ok, err := r.coords.GetOrResolve(ctx, addr)
			if err != nil {
				// Transport failure degrades this address to unresolved for
				// the pass instead of aborting the whole ranking request.
				r.logger.Warn().Err(err).Str("address", addr).Msg("Address degraded to unresolved")
				r.metrics.RecordDegradedAddress()
				ok = false
			}

			mu.Lock()
			results[addr] = resolvedAddress{coords: coords, ok: ok}
			mu.Unlock()
		}(address)
	}

	wg.Wait()
	return results, ctx.Err()
}
