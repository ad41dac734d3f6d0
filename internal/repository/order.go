package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flicky/toolstore/internal/model"
)

// CheckoutTx exposes the statements that make up one checkout. All of them
// run inside the same database transaction.
type CheckoutTx interface {
	// CartLines returns the user's cart with current product data and locks
	// the lines until the transaction ends.
	CartLines(ctx context.Context, userID string) ([]model.CartLine, error)
	CreateOrder(ctx context.Context, order *model.Order) error
	AddOrderItem(ctx context.Context, item *model.OrderItem) error
	ClearCart(ctx context.Context, userID string) error
}

type OrderRepository interface {
	// Checkout runs fn in a transaction. The transaction commits only if fn
	// returns nil; any error rolls back every statement fn issued.
	Checkout(ctx context.Context, fn func(tx CheckoutTx) error) error
	ListByUserID(ctx context.Context, userID string) ([]model.Order, error)
	GetByID(ctx context.Context, orderID int64, userID string) (*model.Order, error)
	GetByTrackingNumber(ctx context.Context, userID, trackingNumber string) (*model.Order, error)
	GetStatus(ctx context.Context, orderID int64) (model.OrderStatus, error)
	// UpdateStatus moves the order from one status to another. It returns
	// ErrNotFound when no order with that id is currently in status from.
	// A nil trackingNumber keeps the stored one.
	UpdateStatus(ctx context.Context, orderID int64, from, to model.OrderStatus, trackingNumber *string) (*model.Order, error)
	// AppendHistory records a status change once per event id and reports
	// whether a row was written.
	AppendHistory(ctx context.Context, change *model.OrderStatusChange) (bool, error)
	ListHistory(ctx context.Context, orderID int64, userID string) ([]model.OrderStatusChange, error)
}

type pgOrderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &pgOrderRepo{pool: pool}
}

const orderColumns = `id, user_id, status, total, shipping_address, tracking_number, created_at, updated_at`

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(&o.ID, &o.UserID, &o.Status, &o.Total, &o.ShippingAddress, &o.TrackingNumber, &o.CreatedAt, &o.UpdatedAt)
}

func (r *pgOrderRepo) Checkout(ctx context.Context, fn func(tx CheckoutTx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&pgCheckoutTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit checkout: %w", err)
	}
	return nil
}

type pgCheckoutTx struct{ tx pgx.Tx }

func (t *pgCheckoutTx) CartLines(ctx context.Context, userID string) ([]model.CartLine, error) {
	return listCartLines(ctx, t.tx, userID, true)
}

func (t *pgCheckoutTx) CreateOrder(ctx context.Context, order *model.Order) error {
	err := t.tx.QueryRow(ctx,
		`INSERT INTO orders (user_id, status, total, shipping_address, tracking_number, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, NOW(), NOW()) RETURNING id, created_at, updated_at`,
		order.UserID, order.Status, order.Total, order.ShippingAddress, order.TrackingNumber,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (t *pgCheckoutTx) AddOrderItem(ctx context.Context, item *model.OrderItem) error {
	err := t.tx.QueryRow(ctx,
		`INSERT INTO order_items (order_id, product_id, quantity, price)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		item.OrderID, item.ProductID, item.Quantity, item.Price,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

func (t *pgCheckoutTx) ClearCart(ctx context.Context, userID string) error {
	return clearCart(ctx, t.tx, userID)
}

func (r *pgOrderRepo) ListByUserID(ctx context.Context, userID string) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	ids := []int64{}
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (r *pgOrderRepo) GetByID(ctx context.Context, orderID int64, userID string) (*model.Order, error) {
	return r.getOne(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 AND user_id = $2`, orderID, userID)
}

func (r *pgOrderRepo) GetByTrackingNumber(ctx context.Context, userID, trackingNumber string) (*model.Order, error) {
	return r.getOne(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE tracking_number = $1 AND user_id = $2
		 ORDER BY created_at DESC LIMIT 1`, trackingNumber, userID)
}

func (r *pgOrderRepo) getOne(ctx context.Context, query string, args ...any) (*model.Order, error) {
	order := &model.Order{}
	if err := scanOrder(r.pool.QueryRow(ctx, query, args...), order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, err := r.loadItems(ctx, []int64{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]
	return order, nil
}

func (r *pgOrderRepo) loadItems(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price, `+productColumns+`
		 FROM order_items oi
		 JOIN products p ON p.id = oi.product_id
		 LEFT JOIN categories c ON c.id = p.category_id
		 WHERE oi.order_id = ANY($1)
		 ORDER BY oi.order_id, oi.id`, orderIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	items := make(map[int64][]model.OrderItem, len(orderIDs))
	for rows.Next() {
		var (
			item model.OrderItem
			prod productRow
		)
		dest := append([]any{&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price}, prod.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		item.Product = prod.product()
		items[item.OrderID] = append(items[item.OrderID], item)
	}
	return items, rows.Err()
}

func (r *pgOrderRepo) GetStatus(ctx context.Context, orderID int64) (model.OrderStatus, error) {
	var status model.OrderStatus
	err := r.pool.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, orderID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get order status: %w", err)
	}
	return status, nil
}

func (r *pgOrderRepo) UpdateStatus(ctx context.Context, orderID int64, from, to model.OrderStatus, trackingNumber *string) (*model.Order, error) {
	order := &model.Order{}
	err := scanOrder(r.pool.QueryRow(ctx,
		`UPDATE orders SET status = $3, tracking_number = COALESCE($4, tracking_number), updated_at = NOW()
		 WHERE id = $1 AND status = $2
		 RETURNING `+orderColumns,
		orderID, from, to, trackingNumber,
	), order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return order, nil
}

func (r *pgOrderRepo) AppendHistory(ctx context.Context, change *model.OrderStatusChange) (bool, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO order_status_history (order_id, event_id, status, tracking_number, changed_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (event_id) DO NOTHING
		 RETURNING id`,
		change.OrderID, change.EventID, change.Status, change.TrackingNumber, change.ChangedAt,
	).Scan(&change.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("append order history: %w", err)
	}
	return true, nil
}

func (r *pgOrderRepo) ListHistory(ctx context.Context, orderID int64, userID string) ([]model.OrderStatusChange, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT h.id, h.order_id, h.event_id, h.status, h.tracking_number, h.changed_at
		 FROM order_status_history h
		 JOIN orders o ON o.id = h.order_id
		 WHERE h.order_id = $1 AND o.user_id = $2
		 ORDER BY h.changed_at, h.id`, orderID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list order history: %w", err)
	}
	defer rows.Close()

	history := []model.OrderStatusChange{}
	for rows.Next() {
		var h model.OrderStatusChange
		if err := rows.Scan(&h.ID, &h.OrderID, &h.EventID, &h.Status, &h.TrackingNumber, &h.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan order history: %w", err)
		}
		history = append(history, h)
	}
	return history, rows.Err()
}
