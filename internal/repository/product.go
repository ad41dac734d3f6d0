package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flicky/toolstore/internal/model"
)

// ProductFilter narrows a product listing. Zero values do not filter.
type ProductFilter struct {
	CategoryID  *int64
	Featured    bool
	BestSelling bool
	// Name matches the product name exactly.
	Name string

	// Limit of 0 returns every matching row.
	Limit  int
	Offset int
}

type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	// List returns one page of matching products and the number of matches
	// across all pages.
	List(ctx context.Context, filter ProductFilter) ([]model.Product, int, error)
	Upsert(ctx context.Context, product *model.Product) error
}

type pgProductRepo struct{ pool *pgxpool.Pool }

func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &pgProductRepo{pool: pool}
}

func (r *pgProductRepo) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	var row productRow
	err := r.pool.QueryRow(ctx,
		`SELECT `+productColumns+`
		 FROM products p LEFT JOIN categories c ON c.id = p.category_id
		 WHERE p.id = $1`, id,
	).Scan(row.dest()...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return row.product(), nil
}

func (r *pgProductRepo) List(ctx context.Context, filter ProductFilter) ([]model.Product, int, error) {
	var (
		where []string
		args  []any
	)
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		where = append(where, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if filter.Featured {
		where = append(where, "p.featured")
	}
	if filter.BestSelling {
		where = append(where, "p.best_selling")
	}
	if filter.Name != "" {
		args = append(args, filter.Name)
		where = append(where, fmt.Sprintf("p.name = $%d", len(args)))
	}

	from := ` FROM products p LEFT JOIN categories c ON c.id = p.category_id`
	if len(where) > 0 {
		from += " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+from, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := `SELECT ` + productColumns + from + " ORDER BY p.id"
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var row productRow
		if err := rows.Scan(row.dest()...); err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *row.product())
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

func (r *pgProductRepo) Upsert(ctx context.Context, product *model.Product) error {
	query := `INSERT INTO products (name, slug, description, price, original_price, image_url, category_id,
			  in_stock, featured, best_selling, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
			  ON CONFLICT (slug) DO UPDATE SET
			  name = EXCLUDED.name, description = EXCLUDED.description, price = EXCLUDED.price,
			  original_price = EXCLUDED.original_price, image_url = EXCLUDED.image_url,
			  category_id = EXCLUDED.category_id, in_stock = EXCLUDED.in_stock,
			  featured = EXCLUDED.featured, best_selling = EXCLUDED.best_selling, updated_at = NOW()
			  RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		product.Name, product.Slug, product.Description, product.Price, product.OriginalPrice,
		product.ImageURL, product.CategoryID, product.InStock, product.Featured, product.BestSelling,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}
