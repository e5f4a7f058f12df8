package ranker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodcart/order-service/internal/geo"
	"github.com/foodcart/order-service/internal/matcher"
)

// mapCoordinateSource serves coordinates from a fixed map, counting lookups.
type mapCoordinateSource struct {
	mu     sync.Mutex
	coords map[string]geo.Coordinates
	errs   map[string]error
	calls  map[string]int
}

func newMapCoordinateSource() *mapCoordinateSource {
	return &mapCoordinateSource{
		coords: make(map[string]geo.Coordinates),
		errs:   make(map[string]error),
		calls:  make(map[string]int),
	}
}

func (s *mapCoordinateSource) GetOrResolve(ctx context.Context, address string) (geo.Coordinates, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[address]++
	if err, ok := s.errs[address]; ok {
		return geo.Coordinates{}, false, err
	}
	c, ok := s.coords[address]
	return c, ok, nil
}

func (s *mapCoordinateSource) callsFor(address string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[address]
}

func distances(r OrderRanking) []*float64 {
	out := make([]*float64, 0, len(r.Restaurants))
	for _, rr := range r.Restaurants {
		out = append(out, rr.DistanceKm)
	}
	return out
}

func TestRankSortsByDistanceAscending(t *testing.T) {
	src := newMapCoordinateSource()
	src.coords["order addr"] = geo.Coordinates{Latitude: 55.75, Longitude: 37.62}
	src.coords["near"] = geo.Coordinates{Latitude: 55.76, Longitude: 37.63}
	src.coords["far"] = geo.Coordinates{Latitude: 55.95, Longitude: 37.90}
	src.coords["mid"] = geo.Coordinates{Latitude: 55.80, Longitude: 37.70}

	r := New(src, DefaultConfig())

	rankings, err := r.Rank(context.Background(), []matcher.OrderAggregate{{
		OrderID: 1,
		Address: "order addr",
		Candidates: []matcher.CandidateRestaurant{
			{Name: "Far", Address: "far"},
			{Name: "Near", Address: "near"},
			{Name: "Mid", Address: "mid"},
		},
	}})
	require.NoError(t, err)
	require.Len(t, rankings, 1)

	names := []string{}
	for _, rr := range rankings[0].Restaurants {
		names = append(names, rr.Name)
	}
	assert.Equal(t, []string{"Near", "Mid", "Far"}, names)

	prev := -1.0
	for _, d := range distances(rankings[0]) {
		require.NotNil(t, d)
		assert.GreaterOrEqual(t, *d, prev)
		prev = *d
	}
}

func TestRankUnresolvedRestaurantSortsLast(t *testing.T) {
	src := newMapCoordinateSource()
	src.coords["order addr"] = geo.Coordinates{Latitude: 55.75, Longitude: 37.62}
	src.coords["near"] = geo.Coordinates{Latitude: 55.76, Longitude: 37.63}
	// "unknown place" has no entry: the geocoder returned an empty result set.

	r := New(src, DefaultConfig())

	rankings, err := r.Rank(context.Background(), []matcher.OrderAggregate{{
		OrderID: 1,
		Address: "order addr",
		Candidates: []matcher.CandidateRestaurant{
			{Name: "Mystery", Address: "unknown place"},
			{Name: "Near", Address: "near"},
		},
	}})
	require.NoError(t, err)
	require.Len(t, rankings, 1)
	require.Len(t, rankings[0].Restaurants, 2, "unresolved restaurants are kept, not dropped")

	assert.Equal(t, "Near", rankings[0].Restaurants[0].Name)
	assert.NotNil(t, rankings[0].Restaurants[0].DistanceKm)
	assert.Equal(t, "Mystery", rankings[0].Restaurants[1].Name)
	assert.Nil(t, rankings[0].Restaurants[1].DistanceKm)
}

func TestRankOrdersSortedByID(t *testing.T) {
	src := newMapCoordinateSource()
	r := New(src, DefaultConfig())

	rankings, err := r.Rank(context.Background(), []matcher.OrderAggregate{
		{OrderID: 3, Address: "a"},
		{OrderID: 1, Address: "b"},
	})
	require.NoError(t, err)
	require.Len(t, rankings, 2)
	assert.Equal(t, int64(1), rankings[0].OrderID)
	assert.Equal(t, int64(3), rankings[1].OrderID)
}

func TestRankUnresolvedOrderAddressKeepsOrder(t *testing.T) {
	src := newMapCoordinateSource()
	src.coords["near"] = geo.Coordinates{Latitude: 55.76, Longitude: 37.63}
	// The order's own address does not resolve: the order stays in the output
	// with every distance unresolved.

	r := New(src, DefaultConfig())

	rankings, err := r.Rank(context.Background(), []matcher.OrderAggregate{{
		OrderID:    7,
		Address:    "unresolvable",
		TotalPrice: 12345,
		Candidates: []matcher.CandidateRestaurant{
			{Name: "Near", Address: "near"},
		},
	}})
	require.NoError(t, err)
	require.Len(t, rankings, 1)
	assert.Equal(t, int64(12345), rankings[0].TotalPrice)
	require.Len(t, rankings[0].Restaurants, 1)
	assert.Nil(t, rankings[0].Restaurants[0].DistanceKm)
}

func TestRankTransportFailureDegradesNotFails(t *testing.T) {
	src := newMapCoordinateSource()
	src.coords["order addr"] = geo.Coordinates{Latitude: 55.75, Longitude: 37.62}
	src.coords["near"] = geo.Coordinates{Latitude: 55.76, Longitude: 37.63}
	src.errs["flaky"] = errors.New("geocoder: request failed: connection refused")

	r := New(src, DefaultConfig())

	rankings, err := r.Rank(context.Background(), []matcher.OrderAggregate{{
		OrderID: 1,
		Address: "order addr",
		Candidates: []matcher.CandidateRestaurant{
			{Name: "Flaky", Address: "flaky"},
			{Name: "Near", Address: "near"},
		},
	}})
	require.NoError(t, err, "one failing address must not fail the pass")
	require.Len(t, rankings, 1)
	assert.Equal(t, "Near", rankings[0].Restaurants[0].Name)
	assert.Nil(t, rankings[0].Restaurants[1].DistanceKm)
}

func TestRankResolvesEachAddressOnce(t *testing.T) {
	src := newMapCoordinateSource()
	src.coords["order addr"] = geo.Coordinates{Latitude: 55.75, Longitude: 37.62}
	src.coords["shared"] = geo.Coordinates{Latitude: 55.76, Longitude: 37.63}

	r := New(src, DefaultConfig())

	// The same restaurant address appears as candidate for both orders.
	_, err := r.Rank(context.Background(), []matcher.OrderAggregate{
		{OrderID: 1, Address: "order addr", Candidates: []matcher.CandidateRestaurant{{Name: "S", Address: "shared"}}},
		{OrderID: 2, Address: "order addr", Candidates: []matcher.CandidateRestaurant{{Name: "S", Address: "shared"}}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, src.callsFor("shared"))
	assert.Equal(t, 1, src.callsFor("order addr"))
}

func TestRankCancelledContext(t *testing.T) {
	src := newMapCoordinateSource()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(src, DefaultConfig())
	_, err := r.Rank(ctx, []matcher.OrderAggregate{
		{OrderID: 1, Address: "a"},
	})
	assert.Error(t, err)
}
