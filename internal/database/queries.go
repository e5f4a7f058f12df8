package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foodcart/order-service/internal/matcher"
)

// ErrUnknownProduct is reported when an order references a product that does
// not exist. Such orders are rejected at submission; they never reach the
// matching engine.
type ErrUnknownProduct struct {
	ProductID int64
}

func (e ErrUnknownProduct) Error() string {
	return fmt.Sprintf("unknown product id %d", e.ProductID)
}

// NewOrderLine is one line of an order submission after validation.
type NewOrderLine struct {
	ProductID int64
	Quantity  int
}

// NewOrder is a validated order submission ready to persist.
type NewOrder struct {
	Firstname   string
	Lastname    string
	Phonenumber string
	Address     string
	Comment     string
	Lines       []NewOrderLine
}

// LoadRankingSnapshot reads the menu rows and the order-line rows the
// matching engine consumes. Both sets come from one read-only transaction so
// the pass never matches against a half-updated availability state.
//
// Only unprocessed orders are ranked; processed ones already have a
// restaurant assigned.
func LoadRankingSnapshot(ctx context.Context, db *pgxpool.Pool) ([]matcher.MenuRow, []matcher.OrderLineRow, error) {
	tx, err := db.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	menuRows := make([]matcher.MenuRow, 0)
	rows, err := tx.Query(ctx, `
		SELECT r.id, r.name, r.address, mi.product_id, mi.availability
		FROM restaurant_menu_items mi
		JOIN restaurants r ON r.id = mi.restaurant_id
		ORDER BY mi.id
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query menu rows: %w", err)
	}
	for rows.Next() {
		var m matcher.MenuRow
		if err := rows.Scan(&m.RestaurantID, &m.RestaurantName, &m.RestaurantAddress, &m.ProductID, &m.Available); err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("failed to scan menu row: %w", err)
		}
		menuRows = append(menuRows, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating menu rows: %w", err)
	}

	lineRows := make([]matcher.OrderLineRow, 0)
	rows, err = tx.Query(ctx, `
		SELECT ol.id, ol.order_id, o.address, ol.product_id, ol.quantity, ol.total_price
		FROM order_lines ol
		JOIN orders o ON o.id = ol.order_id
		WHERE o.status = $1
		ORDER BY ol.id
	`, OrderStatusUnprocessed)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	for rows.Next() {
		var l matcher.OrderLineRow
		if err := rows.Scan(&l.LineID, &l.OrderID, &l.OrderAddress, &l.ProductID, &l.Quantity, &l.LineTotal); err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lineRows = append(lineRows, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating order lines: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return menuRows, lineRows, nil
}

// CreateOrder persists an order and all of its lines in one transaction.
// Line totals are snapshotted from the current product prices. Either the
// whole order lands or none of it does.
func CreateOrder(ctx context.Context, db *pgxpool.Pool, submission NewOrder) (*Order, []OrderLine, error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Snapshot prices for every referenced product up front so an unknown
	// product rejects the submission before anything is written.
	prices := make(map[int64]int64, len(submission.Lines))
	for _, line := range submission.Lines {
		if _, ok := prices[line.ProductID]; ok {
			continue
		}
		var price int64
		err := tx.QueryRow(ctx, `SELECT price FROM products WHERE id = $1`, line.ProductID).Scan(&price)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrUnknownProduct{ProductID: line.ProductID}
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to query product %d: %w", line.ProductID, err)
		}
		prices[line.ProductID] = price
	}

	order := &Order{
		Firstname:    submission.Firstname,
		Lastname:     submission.Lastname,
		Phonenumber:  submission.Phonenumber,
		Address:      submission.Address,
		Comment:      submission.Comment,
		Status:       OrderStatusUnprocessed,
		RegisteredAt: time.Now().UTC(),
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (firstname, lastname, phonenumber, address, status, comment, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, order.Firstname, order.Lastname, order.Phonenumber, order.Address,
		order.Status, order.Comment, order.RegisteredAt).Scan(&order.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert order: %w", err)
	}

	lines := make([]OrderLine, 0, len(submission.Lines))
	for _, line := range submission.Lines {
		ol := OrderLine{
			OrderID:    order.ID,
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			TotalPrice: prices[line.ProductID] * int64(line.Quantity),
		}
		err := tx.QueryRow(ctx, `
			INSERT INTO order_lines (order_id, product_id, quantity, total_price)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, ol.OrderID, ol.ProductID, ol.Quantity, ol.TotalPrice).Scan(&ol.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to insert order line: %w", err)
		}
		lines = append(lines, ol)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return order, lines, nil
}

// ListAvailableProducts returns products available in at least one restaurant.
func ListAvailableProducts(ctx context.Context, db *pgxpool.Pool) ([]Product, error) {
	rows, err := db.Query(ctx, `
		SELECT DISTINCT p.id, p.name, p.category_id, p.price, p.special_status, p.ingredients, p.image_url
		FROM products p
		JOIN restaurant_menu_items mi ON mi.product_id = p.id
		WHERE mi.availability = TRUE
		ORDER BY p.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.CategoryID, &p.Price, &p.SpecialStatus, &p.Ingredients, &p.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// UpsertRestaurant inserts a restaurant by name or updates its address and
// phone. Used by the menu importer.
func UpsertRestaurant(ctx context.Context, db *pgxpool.Pool, name, address, phone string) (int64, error) {
	var id int64
	err := db.QueryRow(ctx, `
		INSERT INTO restaurants (name, address, contact_phone)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE
		SET address = EXCLUDED.address,
		    contact_phone = EXCLUDED.contact_phone
		RETURNING id
	`, name, address, phone).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert restaurant %q: %w", name, err)
	}
	return id, nil
}

// UpsertProduct inserts a product by name or updates its price.
func UpsertProduct(ctx context.Context, db *pgxpool.Pool, name string, price int64) (int64, error) {
	var id int64
	err := db.QueryRow(ctx, `
		INSERT INTO products (name, price, ingredients)
		VALUES ($1, $2, '')
		ON CONFLICT (name) DO UPDATE
		SET price = EXCLUDED.price
		RETURNING id
	`, name, price).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert product %q: %w", name, err)
	}
	return id, nil
}

// UpsertMenuEntry sets the availability of a (restaurant, product) pair.
func UpsertMenuEntry(ctx context.Context, db *pgxpool.Pool, restaurantID, productID int64, available bool) error {
	_, err := db.Exec(ctx, `
		INSERT INTO restaurant_menu_items (restaurant_id, product_id, availability)
		VALUES ($1, $2, $3)
		ON CONFLICT (restaurant_id, product_id) DO UPDATE
		SET availability = EXCLUDED.availability
	`, restaurantID, productID, available)
	if err != nil {
		return fmt.Errorf("failed to upsert menu entry (%d, %d): %w", restaurantID, productID, err)
	}
	return nil
}
