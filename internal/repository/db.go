package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/flicky/toolstore/internal/model"
)

// ErrNotFound is returned by writes that target a row which does not exist.
// Reads report a miss as a nil result instead.
var ErrNotFound = errors.New("not found")

// ErrQuantityLimit is returned when a cart merge would exceed model.MaxCartQuantity.
var ErrQuantityLimit = errors.New("cart quantity limit exceeded")

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const productColumns = `p.id, p.name, p.slug, p.description, p.price, p.original_price, p.image_url,
	p.category_id, p.in_stock, p.featured, p.best_selling, p.created_at, p.updated_at,
	c.id, c.name, c.slug, c.icon, c.description, c.created_at`

// productRow collects a product and its left-joined category from one result row.
type productRow struct {
	p model.Product

	catID          *int64
	catName        *string
	catSlug        *string
	catIcon        *string
	catDescription *string
	catCreatedAt   *time.Time
}

func (r *productRow) dest() []any {
	return []any{
		&r.p.ID, &r.p.Name, &r.p.Slug, &r.p.Description, &r.p.Price, &r.p.OriginalPrice, &r.p.ImageURL,
		&r.p.CategoryID, &r.p.InStock, &r.p.Featured, &r.p.BestSelling, &r.p.CreatedAt, &r.p.UpdatedAt,
		&r.catID, &r.catName, &r.catSlug, &r.catIcon, &r.catDescription, &r.catCreatedAt,
	}
}

func (r *productRow) product() *model.Product {
	p := r.p
	if r.catID != nil {
		p.Category = &model.Category{
			ID:          *r.catID,
			Name:        deref(r.catName),
			Slug:        deref(r.catSlug),
			Icon:        deref(r.catIcon),
			Description: deref(r.catDescription),
		}
		if r.catCreatedAt != nil {
			p.Category.CreatedAt = *r.catCreatedAt
		}
	}
	return &p
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
