package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flicky/toolstore/internal/model"
)

// Money fields are fixed two-decimal strings, e.g. "129.99".

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// --- User ---

type UserResponse struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	ProfileImageURL string    `json:"profileImageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// --- Catalog ---

type CategoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Icon        string    `json:"icon"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CategoryWithProductsResponse struct {
	Category CategoryResponse  `json:"category"`
	Products []ProductResponse `json:"products"`
}

// ListProductsQuery filters are combined; a product must match all of them.
type ListProductsQuery struct {
	Page        int    `form:"page,default=1" binding:"min=1"`
	Limit       int    `form:"limit,default=20" binding:"min=1,max=100"`
	Featured    bool   `form:"featured"`
	BestSelling bool   `form:"bestSelling"`
	CategoryID  *int64 `form:"categoryId" binding:"omitempty,min=1"`
	Search      string `form:"search"`
}

type ProductResponse struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	Slug          string            `json:"slug"`
	Description   string            `json:"description"`
	Price         string            `json:"price"`
	OriginalPrice *string           `json:"originalPrice"`
	ImageURL      string            `json:"imageUrl"`
	CategoryID    *int64            `json:"categoryId"`
	InStock       bool              `json:"inStock"`
	Featured      bool              `json:"featured"`
	BestSelling   bool              `json:"bestSelling"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
	Category      *CategoryResponse `json:"category"`
}

// --- Cart ---

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

type AddToCartRequest struct {
	ProductID int64 `json:"productId" binding:"required,min=1"`
	// Quantity defaults to 1 when omitted.
	Quantity *int `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type CartCountResponse struct {
	Count int `json:"count"`
}

type CartTotalResponse struct {
	Total string `json:"total"`
}

type CartLineResponse struct {
	ID        int64            `json:"id"`
	UserID    string           `json:"userId"`
	ProductID int64            `json:"productId"`
	Quantity  int              `json:"quantity"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Product   *ProductResponse `json:"product"`
}

// --- Wishlist ---

type AddToWishlistRequest struct {
	ProductID int64 `json:"productId" binding:"required,min=1"`
}

type WishlistEntryResponse struct {
	ID        int64            `json:"id"`
	UserID    string           `json:"userId"`
	ProductID int64            `json:"productId"`
	CreatedAt time.Time        `json:"createdAt"`
	Product   *ProductResponse `json:"product"`
}

type WishlistStatusResponse struct {
	InWishlist bool `json:"inWishlist"`
}

// --- Order ---

type PlaceOrderRequest struct {
	ShippingAddress string           `json:"shippingAddress"`
	Total           *decimal.Decimal `json:"total"`
	ClearCart       bool             `json:"clearCart"`
}

type UpdateOrderStatusRequest struct {
	Status         string  `json:"status" binding:"required"`
	TrackingNumber *string `json:"trackingNumber"`
}

type SetTrackingNumberRequest struct {
	TrackingNumber string `json:"trackingNumber" binding:"required"`
}

type OrderResponse struct {
	ID              int64               `json:"id"`
	UserID          string              `json:"userId"`
	Status          model.OrderStatus   `json:"status"`
	Total           string              `json:"total"`
	ShippingAddress string              `json:"shippingAddress"`
	TrackingNumber  *string             `json:"trackingNumber"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
	Items           []OrderItemResponse `json:"items"`
}

type OrderItemResponse struct {
	ID        int64            `json:"id"`
	OrderID   int64            `json:"orderId"`
	ProductID int64            `json:"productId"`
	Quantity  int              `json:"quantity"`
	Price     string           `json:"price"`
	Product   *ProductResponse `json:"product"`
}

type OrderStatusChangeResponse struct {
	ID             int64             `json:"id"`
	OrderID        int64             `json:"orderId"`
	EventID        uuid.UUID         `json:"eventId"`
	Status         model.OrderStatus `json:"status"`
	TrackingNumber *string           `json:"trackingNumber"`
	ChangedAt      time.Time         `json:"changedAt"`
}
