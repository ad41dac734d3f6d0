package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/flicky/toolstore/internal/model"
	"github.com/flicky/toolstore/internal/repository"
)

type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

func (s *CartService) ListCart(ctx context.Context, userID string) ([]model.CartLine, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	lines, err := s.cartRepo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	return lines, nil
}

func validQuantity(quantity int) bool {
	return quantity >= 1 && quantity <= model.MaxCartQuantity
}

// AddToCart merges quantity into the user's existing line for the product, or
// creates one.
func (s *CartService) AddToCart(ctx context.Context, userID string, productID int64, quantity int) (*model.CartLine, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if !validQuantity(quantity) {
		return nil, ErrInvalidQuantity
	}
	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	line := &model.CartLine{UserID: userID, ProductID: productID, Quantity: quantity}
	if err := s.cartRepo.Add(ctx, line); err != nil {
		if errors.Is(err, repository.ErrQuantityLimit) {
			return nil, ErrInvalidQuantity
		}
		return nil, fmt.Errorf("add to cart: %w", err)
	}
	line.Product = product
	return line, nil
}

func (s *CartService) UpdateCartItem(ctx context.Context, userID string, productID int64, quantity int) (*model.CartLine, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if !validQuantity(quantity) {
		return nil, ErrInvalidQuantity
	}

	line := &model.CartLine{UserID: userID, ProductID: productID, Quantity: quantity}
	if err := s.cartRepo.Update(ctx, line); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, fmt.Errorf("update cart item: %w", err)
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	line.Product = product
	return line, nil
}

type CartSummary struct {
	Lines int
	Total decimal.Decimal
}

// Summary counts the user's cart lines and sums their subtotals at current prices.
func (s *CartService) Summary(ctx context.Context, userID string) (*CartSummary, error) {
	lines, err := s.ListCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := &CartSummary{Lines: len(lines), Total: decimal.Zero}
	for i := range lines {
		summary.Total = summary.Total.Add(lines[i].Subtotal())
	}
	return summary, nil
}

func (s *CartService) RemoveFromCart(ctx context.Context, userID string, productID int64) error {
	if userID == "" {
		return ErrUnauthorized
	}
	if err := s.cartRepo.Remove(ctx, userID, productID); err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}
	return nil
}

func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrUnauthorized
	}
	if err := s.cartRepo.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (s *CartService) getProduct(ctx context.Context, productID int64) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}
