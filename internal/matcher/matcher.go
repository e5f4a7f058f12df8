// Package matcher determines, per order, which restaurants can supply every
// item on the order, and accumulates the order's total price, in a single
// pass over the menu/order-line join data.
package matcher

// MenuRow is one (restaurant, product, availability) menu entry, denormalized
// with the restaurant fields the ranking stage needs.
type MenuRow struct {
	RestaurantID      int64
	RestaurantName    string
	RestaurantAddress string
	ProductID         int64
	Available         bool
}

// OrderLineRow is one order line, denormalized with the order fields the
// ranking stage needs. LineTotal is the price snapshot taken at order time;
// it is never recomputed from the live product price.
type OrderLineRow struct {
	LineID       int64
	OrderID      int64
	OrderAddress string
	ProductID    int64
	Quantity     int
	LineTotal    int64 // minor currency units
}

// CandidateRestaurant is a restaurant able to fulfill all of an order's items.
type CandidateRestaurant struct {
	Name    string
	Address string
}

// OrderAggregate is the per-order result of the matching pass. Candidates is
// in menu-row insertion order; the ranking stage re-sorts it by distance.
// Orders with no candidate restaurants are still present with an empty slice.
type OrderAggregate struct {
	OrderID    int64
	Address    string
	TotalPrice int64 // minor currency units, sum of line totals
	Candidates []CandidateRestaurant
}

// Match joins menu rows to order lines by product and emits one aggregate per
// order. A restaurant is a candidate only when it has an available menu entry
// for every distinct product the order references.
//
// Each order line's total is added exactly once, deduplicated by line ID, no
// matter how many menu rows its product matches.
func Match(menuRows []MenuRow, lineRows []OrderLineRow) []OrderAggregate {
	aggregates := make(map[int64]*OrderAggregate)
	orderSeq := make([]int64, 0)

	seenLines := make(map[int64]struct{}, len(lineRows))
	distinctProducts := make(map[int64]map[int64]struct{}) // orderID -> product set
	ordersByProduct := make(map[int64][]int64)             // productID -> orderIDs

	for _, line := range lineRows {
		agg, ok := aggregates[line.OrderID]
		if !ok {
			agg = &OrderAggregate{
				OrderID:    line.OrderID,
				Address:    line.OrderAddress,
				Candidates: []CandidateRestaurant{},
			}
			aggregates[line.OrderID] = agg
			orderSeq = append(orderSeq, line.OrderID)
			distinctProducts[line.OrderID] = make(map[int64]struct{})
		}

		if _, dup := seenLines[line.LineID]; dup {
			continue
		}
		seenLines[line.LineID] = struct{}{}
		agg.TotalPrice += line.LineTotal

		products := distinctProducts[line.OrderID]
		if _, ok := products[line.ProductID]; !ok {
			products[line.ProductID] = struct{}{}
			ordersByProduct[line.ProductID] = append(ordersByProduct[line.ProductID], line.OrderID)
		}
	}

	// One pass over the menu rows: for every available entry, credit the
	// restaurant with covering that product on each order referencing it.
	type restaurantInfo struct {
		name    string
		address string
	}
	restaurantSeq := make([]int64, 0)
	restaurants := make(map[int64]restaurantInfo)
	coverage := make(map[int64]map[int64]map[int64]struct{}) // orderID -> restaurantID -> covered products

	for _, row := range menuRows {
		if !row.Available {
			continue
		}
		if _, ok := restaurants[row.RestaurantID]; !ok {
			restaurants[row.RestaurantID] = restaurantInfo{name: row.RestaurantName, address: row.RestaurantAddress}
			restaurantSeq = append(restaurantSeq, row.RestaurantID)
		}

		for _, orderID := range ordersByProduct[row.ProductID] {
			orderCoverage, ok := coverage[orderID]
			if !ok {
				orderCoverage = make(map[int64]map[int64]struct{})
				coverage[orderID] = orderCoverage
			}
			covered, ok := orderCoverage[row.RestaurantID]
			if !ok {
				covered = make(map[int64]struct{})
				orderCoverage[row.RestaurantID] = covered
			}
			covered[row.ProductID] = struct{}{}
		}
	}

	// Candidacy requires full coverage of the order's distinct products.
	// Restaurants are emitted in menu-row insertion order for stable ties.
	out := make([]OrderAggregate, 0, len(orderSeq))
	for _, orderID := range orderSeq {
		agg := aggregates[orderID]
		wanted := len(distinctProducts[orderID])

		for _, restaurantID := range restaurantSeq {
			covered := coverage[orderID][restaurantID]
			if wanted > 0 && len(covered) == wanted {
				info := restaurants[restaurantID]
				agg.Candidates = append(agg.Candidates, CandidateRestaurant{
					Name:    info.name,
					Address: info.address,
				})
			}
		}
		out = append(out, *agg)
	}

	return out
}
