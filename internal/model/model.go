package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User is owned by the identity provider; ID is its opaque subject.
type User struct {
	ID              string
	Email           string
	FirstName       string
	LastName        string
	ProfileImageURL string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Category struct {
	ID          int64
	Name        string
	Slug        string
	Icon        string
	Description string
	CreatedAt   time.Time
}

type Product struct {
	ID            int64
	Name          string
	Slug          string
	Description   string
	Price         decimal.Decimal
	OriginalPrice decimal.NullDecimal
	ImageURL      string
	CategoryID    *int64
	InStock       bool
	Featured      bool
	BestSelling   bool
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Category is nil for uncategorized products.
	Category *Category
}

// MaxCartQuantity bounds the quantity of a single cart line, including the
// result of merging repeated adds.
const MaxCartQuantity = 999

// MaxOrderTotal is the largest total orders.total NUMERIC(10,2) can hold.
var MaxOrderTotal = decimal.RequireFromString("99999999.99")

type CartLine struct {
	ID        int64
	UserID    string
	ProductID int64
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time

	Product *Product
}

// Subtotal is the line's cost at the product's current price.
func (l CartLine) Subtotal() decimal.Decimal {
	if l.Product == nil {
		return decimal.Zero
	}
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type WishlistEntry struct {
	ID        int64
	UserID    string
	ProductID int64
	CreatedAt time.Time

	Product *Product
}

type Order struct {
	ID              int64
	UserID          string
	Status          OrderStatus
	Total           decimal.Decimal
	ShippingAddress string
	TrackingNumber  *string
	Items           []OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem is written once at checkout. Price is the unit price at that moment.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int
	Price     decimal.Decimal

	Product *Product
}

type OrderStatusChange struct {
	ID             int64
	OrderID        int64
	EventID        uuid.UUID
	Status         OrderStatus
	TrackingNumber *string
	ChangedAt      time.Time
}

type OrderEventType string

const (
	OrderEventPlaced        OrderEventType = "order.placed"
	OrderEventStatusChanged OrderEventType = "order.status_changed"
)

type OrderEvent struct {
	ID             uuid.UUID      `json:"id"`
	Type           OrderEventType `json:"type"`
	OrderID        int64          `json:"order_id"`
	UserID         string         `json:"user_id"`
	Status         OrderStatus    `json:"status"`
	TrackingNumber *string        `json:"tracking_number,omitempty"`
	OccurredAt     time.Time      `json:"occurred_at"`
}
