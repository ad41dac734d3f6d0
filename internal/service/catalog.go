package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/flicky/toolstore/internal/metrics"
	"github.com/flicky/toolstore/internal/model"
	"github.com/flicky/toolstore/internal/repository"
)

const categoriesCacheKey = "catalog:categories"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func productCacheKey(id int64) string {
	return "product:" + strconv.FormatInt(id, 10)
}

// CatalogService serves read-only category and product lookups. Product and
// category-list reads go through Redis when a client is configured; cache
// errors fall through to Postgres.
type CatalogService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	cache        redis.Cmdable
	cacheTTL     time.Duration
	metrics      *metrics.Metrics
}

func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	cache redis.Cmdable,
	cacheTTL time.Duration,
	m *metrics.Metrics,
) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		cache:        cache,
		cacheTTL:     cacheTTL,
		metrics:      m,
	}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if s.getCached(ctx, "categories", categoriesCacheKey, &categories) {
		return categories, nil
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	s.setCached(ctx, categoriesCacheKey, categories)
	return categories, nil
}

func (s *CatalogService) GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

func (s *CatalogService) GetProductByID(ctx context.Context, id int64) (*model.Product, error) {
	key := productCacheKey(id)

	var cached model.Product
	if s.getCached(ctx, "product", key, &cached) {
		return &cached, nil
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	s.setCached(ctx, key, product)
	return product, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.list(ctx, repository.ProductFilter{})
}

func (s *CatalogService) ListByCategory(ctx context.Context, categoryID int64) ([]model.Product, error) {
	return s.list(ctx, repository.ProductFilter{CategoryID: &categoryID})
}

func (s *CatalogService) ListFeatured(ctx context.Context) ([]model.Product, error) {
	return s.list(ctx, repository.ProductFilter{Featured: true})
}

func (s *CatalogService) ListBestSelling(ctx context.Context) ([]model.Product, error) {
	return s.list(ctx, repository.ProductFilter{BestSelling: true})
}

// Search returns products whose name equals query exactly.
func (s *CatalogService) Search(ctx context.Context, query string) ([]model.Product, error) {
	if query == "" {
		return []model.Product{}, nil
	}
	return s.list(ctx, repository.ProductFilter{Name: query})
}

func (s *CatalogService) list(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	products, _, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// ProductQuery combines the product listing filters. Every set field must match.
type ProductQuery struct {
	CategoryID  *int64
	Featured    bool
	BestSelling bool
	// Search matches the product name exactly.
	Search string
}

type ProductPage struct {
	Products []model.Product
	Total    int
	Page     int
	Limit    int
}

// BrowseProducts returns one page of the products matching q. Pages start at 1;
// a limit outside 1..MaxPageSize falls back to DefaultPageSize.
func (s *CatalogService) BrowseProducts(ctx context.Context, q ProductQuery, page, limit int) (*ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > MaxPageSize {
		limit = DefaultPageSize
	}

	products, total, err := s.productRepo.List(ctx, repository.ProductFilter{
		CategoryID:  q.CategoryID,
		Featured:    q.Featured,
		BestSelling: q.BestSelling,
		Name:        q.Search,
		Limit:       limit,
		Offset:      (page - 1) * limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return &ProductPage{Products: products, Total: total, Page: page, Limit: limit}, nil
}

// InvalidateCache drops the category list and the given products from the cache.
func (s *CatalogService) InvalidateCache(ctx context.Context, productIDs ...int64) error {
	if s.cache == nil {
		return nil
	}
	keys := make([]string, 0, len(productIDs)+1)
	keys = append(keys, categoriesCacheKey)
	for _, id := range productIDs {
		keys = append(keys, productCacheKey(id))
	}
	if err := s.cache.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate catalog cache: %w", err)
	}
	return nil
}

func (s *CatalogService) getCached(ctx context.Context, kind, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	cached, err := s.cache.Get(ctx, key).Result()
	hit := err == nil && json.Unmarshal([]byte(cached), dst) == nil
	s.metrics.CacheLookup(kind, hit)
	return hit
}

func (s *CatalogService) setCached(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if data, err := json.Marshal(value); err == nil {
		s.cache.Set(ctx, key, data, s.cacheTTL)
	}
}
