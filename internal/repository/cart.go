package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flicky/toolstore/internal/model"
)

type CartRepository interface {
	List(ctx context.Context, userID string) ([]model.CartLine, error)
	// Add inserts the line or, when (user, product) already exists, adds the
	// requested quantity to the stored one. line receives the resulting row.
	// A merge past model.MaxCartQuantity leaves the row unchanged and returns
	// ErrQuantityLimit.
	Add(ctx context.Context, line *model.CartLine) error
	Update(ctx context.Context, line *model.CartLine) error
	Remove(ctx context.Context, userID string, productID int64) error
	Clear(ctx context.Context, userID string) error
}

type pgCartRepo struct{ pool *pgxpool.Pool }

func NewCartRepository(pool *pgxpool.Pool) CartRepository {
	return &pgCartRepo{pool: pool}
}

func (r *pgCartRepo) List(ctx context.Context, userID string) ([]model.CartLine, error) {
	return listCartLines(ctx, r.pool, userID, false)
}

func listCartLines(ctx context.Context, db DBTX, userID string, forUpdate bool) ([]model.CartLine, error) {
	query := `SELECT ci.id, ci.user_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at, ` + productColumns + `
		FROM cart ci
		JOIN products p ON p.id = ci.product_id
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at, ci.id`
	if forUpdate {
		query += " FOR UPDATE OF ci"
	}

	rows, err := db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	defer rows.Close()

	lines := []model.CartLine{}
	for rows.Next() {
		var (
			line model.CartLine
			prod productRow
		)
		dest := append([]any{
			&line.ID, &line.UserID, &line.ProductID, &line.Quantity, &line.CreatedAt, &line.UpdatedAt,
		}, prod.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		line.Product = prod.product()
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *pgCartRepo) Add(ctx context.Context, line *model.CartLine) error {
	query := `INSERT INTO cart (user_id, product_id, quantity, created_at, updated_at)
			  VALUES ($1, $2, $3, NOW(), NOW())
			  ON CONFLICT (user_id, product_id) DO UPDATE SET quantity = cart.quantity + EXCLUDED.quantity, updated_at = NOW()
			  WHERE cart.quantity + EXCLUDED.quantity <= $4
			  RETURNING id, quantity, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query, line.UserID, line.ProductID, line.Quantity, model.MaxCartQuantity).
		Scan(&line.ID, &line.Quantity, &line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrQuantityLimit
		}
		return fmt.Errorf("add cart line: %w", err)
	}
	return nil
}

func (r *pgCartRepo) Update(ctx context.Context, line *model.CartLine) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE cart SET quantity = $3, updated_at = NOW()
		 WHERE user_id = $1 AND product_id = $2
		 RETURNING id, created_at, updated_at`,
		line.UserID, line.ProductID, line.Quantity,
	).Scan(&line.ID, &line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update cart line: %w", err)
	}
	return nil
}

func (r *pgCartRepo) Remove(ctx context.Context, userID string, productID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return fmt.Errorf("remove cart line: %w", err)
	}
	return nil
}

func (r *pgCartRepo) Clear(ctx context.Context, userID string) error {
	return clearCart(ctx, r.pool, userID)
}

func clearCart(ctx context.Context, db DBTX, userID string) error {
	if _, err := db.Exec(ctx, `DELETE FROM cart WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
