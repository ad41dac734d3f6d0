package service

import "errors"

var (
	ErrUnauthorized = errors.New("authentication required")

	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrOrderNotFound    = errors.New("order not found")

	ErrInvalidQuantity      = errors.New("quantity must be between 1 and 999")
	ErrOrderTotalTooLarge   = errors.New("order total exceeds 99999999.99")
	ErrEmptyShippingAddress = errors.New("shipping address is required")
	ErrEmptyTrackingNumber  = errors.New("tracking number is required")
	ErrInvalidStatus        = errors.New("invalid order status")

	ErrEmptyCart         = errors.New("cart is empty")
	ErrTotalMismatch     = errors.New("order total does not match cart")
	ErrInvalidTransition = errors.New("order status transition not allowed")
	ErrStatusConflict    = errors.New("order status changed concurrently")
)
