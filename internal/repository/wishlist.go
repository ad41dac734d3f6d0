package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flicky/toolstore/internal/model"
)

type WishlistRepository interface {
	List(ctx context.Context, userID string) ([]model.WishlistEntry, error)
	// Add is idempotent: an existing (user, product) entry is returned unchanged.
	Add(ctx context.Context, entry *model.WishlistEntry) error
	Remove(ctx context.Context, userID string, productID int64) error
	Exists(ctx context.Context, userID string, productID int64) (bool, error)
}

type pgWishlistRepo struct{ pool *pgxpool.Pool }

func NewWishlistRepository(pool *pgxpool.Pool) WishlistRepository {
	return &pgWishlistRepo{pool: pool}
}

func (r *pgWishlistRepo) List(ctx context.Context, userID string) ([]model.WishlistEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT w.id, w.user_id, w.product_id, w.created_at, `+productColumns+`
		 FROM wishlist w
		 JOIN products p ON p.id = w.product_id
		 LEFT JOIN categories c ON c.id = p.category_id
		 WHERE w.user_id = $1
		 ORDER BY w.created_at DESC, w.id DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	defer rows.Close()

	entries := []model.WishlistEntry{}
	for rows.Next() {
		var (
			e    model.WishlistEntry
			prod productRow
		)
		dest := append([]any{&e.ID, &e.UserID, &e.ProductID, &e.CreatedAt}, prod.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan wishlist entry: %w", err)
		}
		e.Product = prod.product()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *pgWishlistRepo) Add(ctx context.Context, entry *model.WishlistEntry) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO wishlist (user_id, product_id, created_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (user_id, product_id) DO NOTHING
		 RETURNING id, created_at`,
		entry.UserID, entry.ProductID,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("add wishlist entry: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`SELECT id, created_at FROM wishlist WHERE user_id = $1 AND product_id = $2`,
		entry.UserID, entry.ProductID,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("get existing wishlist entry: %w", err)
	}
	return nil
}

func (r *pgWishlistRepo) Remove(ctx context.Context, userID string, productID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM wishlist WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return fmt.Errorf("remove wishlist entry: %w", err)
	}
	return nil
}

func (r *pgWishlistRepo) Exists(ctx context.Context, userID string, productID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM wishlist WHERE user_id = $1 AND product_id = $2)`, userID, productID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check wishlist: %w", err)
	}
	return exists, nil
}
