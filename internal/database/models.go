package database

import (
	"time"
)

// Order lifecycle statuses.
const (
	OrderStatusUnprocessed = "unprocessed"
	OrderStatusDelivery    = "delivery"
	OrderStatusDelivered   = "delivered"
)

// Restaurant represents a restaurant that publishes a menu.
type Restaurant struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	ContactPhone string    `json:"contact_phone"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProductCategory groups products for the storefront.
type ProductCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Product is a sellable item. Price is in minor currency units. Availability
// is not a product attribute; it lives on the menu entry per restaurant.
type Product struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	CategoryID    *int64  `json:"category_id"` // nullable
	Price         int64   `json:"price"`       // minor currency units
	SpecialStatus bool    `json:"special_status"`
	Ingredients   string  `json:"ingredients"`
	ImageURL      *string `json:"image_url"`
}

// MenuEntry is a restaurant's claim to sell a product, unique per
// (restaurant, product) pair. Availability can be toggled by staff.
type MenuEntry struct {
	ID           int64 `json:"id"`
	RestaurantID int64 `json:"restaurant_id"`
	ProductID    int64 `json:"product_id"`
	Availability bool  `json:"availability"`
}

// Order is a placed customer order. The ID is monotonic and used as the
// tie-break key when sorting ranking output. Address is free text and is
// deliberately not normalized.
type Order struct {
	ID           int64      `json:"id"`
	Firstname    string     `json:"firstname"`
	Lastname     string     `json:"lastname"`
	Phonenumber  string     `json:"phonenumber"`
	Address      string     `json:"address"`
	Status       string     `json:"status"`
	Comment      string     `json:"comment"`
	RegisteredAt time.Time  `json:"registered_at"`
	CalledAt     *time.Time `json:"called_at"`
	DeliveredAt  *time.Time `json:"delivered_at"`
}

// OrderLine is one line of an order. TotalPrice is the snapshot of
// product price × quantity taken at order time; it is immutable and never
// recomputed from the live product price.
type OrderLine struct {
	ID         int64 `json:"id"`
	OrderID    int64 `json:"order_id"`
	ProductID  int64 `json:"product_id"`
	Quantity   int   `json:"quantity"`    // >= 1
	TotalPrice int64 `json:"total_price"` // minor currency units
}
