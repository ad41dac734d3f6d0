package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flicky/toolstore/internal/metrics"
	"github.com/flicky/toolstore/internal/model"
	"github.com/flicky/toolstore/internal/repository"
)

// EventPublisher delivers order events to the broker.
type EventPublisher interface {
	Publish(ctx context.Context, event model.OrderEvent) error
}

type PlaceOrderInput struct {
	ShippingAddress string
	// Total is the amount the client displayed. When set it must match the
	// total computed from the cart.
	Total *decimal.Decimal
	// ClearCart empties the cart in the checkout transaction.
	ClearCart bool
}

type OrderService struct {
	orderRepo repository.OrderRepository
	publisher EventPublisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewOrderService(orderRepo repository.OrderRepository, publisher EventPublisher, logger *slog.Logger, m *metrics.Metrics) *OrderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderService{orderRepo: orderRepo, publisher: publisher, logger: logger, metrics: m}
}

// PlaceOrder turns the user's cart into an order. The header, every item and
// the optional cart clear commit together or not at all; item prices are the
// product prices read inside the transaction.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, in PlaceOrderInput) (*model.Order, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	address := strings.TrimSpace(in.ShippingAddress)
	if address == "" {
		return nil, ErrEmptyShippingAddress
	}

	var order *model.Order
	err := s.orderRepo.Checkout(ctx, func(tx repository.CheckoutTx) error {
		lines, err := tx.CartLines(ctx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		total := decimal.Zero
		items := make([]model.OrderItem, 0, len(lines))
		for _, line := range lines {
			total = total.Add(line.Subtotal())
			items = append(items, model.OrderItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     line.Product.Price,
				Product:   line.Product,
			})
		}
		total = total.Round(2)
		if total.GreaterThan(model.MaxOrderTotal) {
			return ErrOrderTotalTooLarge
		}
		if in.Total != nil && !in.Total.Round(2).Equal(total) {
			return fmt.Errorf("%w: cart total is %s", ErrTotalMismatch, total.StringFixed(2))
		}

		o := &model.Order{
			UserID:          userID,
			Status:          model.OrderStatusPending,
			Total:           total,
			ShippingAddress: address,
		}
		if err := tx.CreateOrder(ctx, o); err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = o.ID
			if err := tx.AddOrderItem(ctx, &items[i]); err != nil {
				return err
			}
		}
		o.Items = items

		if in.ClearCart {
			if err := tx.ClearCart(ctx, userID); err != nil {
				return err
			}
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}

	s.metrics.OrderPlaced()
	s.publish(ctx, model.OrderEventPlaced, order)
	return order, nil
}

func (s *OrderService) GetOrders(ctx context.Context, userID string) ([]model.Order, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	orders, err := s.orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// GetOrderByID reports ErrOrderNotFound for orders owned by another user.
func (s *OrderService) GetOrderByID(ctx context.Context, orderID int64, userID string) (*model.Order, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	order, err := s.orderRepo.GetByID(ctx, orderID, userID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) TrackOrder(ctx context.Context, userID, trackingNumber string) (*model.Order, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByTrackingNumber(ctx, userID, trackingNumber)
	if err != nil {
		return nil, fmt.Errorf("track order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) GetOrderHistory(ctx context.Context, orderID int64, userID string) ([]model.OrderStatusChange, error) {
	if _, err := s.GetOrderByID(ctx, orderID, userID); err != nil {
		return nil, err
	}
	history, err := s.orderRepo.ListHistory(ctx, orderID, userID)
	if err != nil {
		return nil, fmt.Errorf("get order history: %w", err)
	}
	return history, nil
}

// UpdateOrderStatus moves an order to status. A nil or blank trackingNumber
// keeps the stored one. Callers are expected to be administrators; the order
// is not scoped to a user.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID int64, status string, trackingNumber *string) (*model.Order, error) {
	next := model.OrderStatus(status)
	if !next.Valid() {
		return nil, ErrInvalidStatus
	}
	if trackingNumber != nil {
		trimmed := strings.TrimSpace(*trackingNumber)
		trackingNumber = &trimmed
		if trimmed == "" {
			trackingNumber = nil
		}
	}

	current, err := s.orderRepo.GetStatus(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order status: %w", err)
	}
	if !current.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current, next)
	}

	order, err := s.orderRepo.UpdateStatus(ctx, orderID, current, next, trackingNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStatusConflict
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}

	s.metrics.StatusChanged(string(next))
	s.publish(ctx, model.OrderEventStatusChanged, order)
	return order, nil
}

// SetTrackingNumber attaches a tracking number without changing the status.
func (s *OrderService) SetTrackingNumber(ctx context.Context, orderID int64, trackingNumber string) (*model.Order, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return nil, ErrEmptyTrackingNumber
	}
	current, err := s.orderRepo.GetStatus(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order status: %w", err)
	}
	return s.UpdateOrderStatus(ctx, orderID, string(current), &trackingNumber)
}

// publish is best-effort: the order is already committed.
func (s *OrderService) publish(ctx context.Context, eventType model.OrderEventType, order *model.Order) {
	if s.publisher == nil {
		return
	}
	event := model.OrderEvent{
		ID:             uuid.New(),
		Type:           eventType,
		OrderID:        order.ID,
		UserID:         order.UserID,
		Status:         order.Status,
		TrackingNumber: order.TrackingNumber,
		OccurredAt:     order.UpdatedAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish order event failed",
			"event_type", eventType,
			"order_id", order.ID,
			"error", err,
		)
	}
}
