package service

import (
	"context"
	"fmt"

	"github.com/flicky/toolstore/internal/model"
	"github.com/flicky/toolstore/internal/repository"
)

type WishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
}

func NewWishlistService(wishlistRepo repository.WishlistRepository, productRepo repository.ProductRepository) *WishlistService {
	return &WishlistService{wishlistRepo: wishlistRepo, productRepo: productRepo}
}

func (s *WishlistService) ListWishlist(ctx context.Context, userID string) ([]model.WishlistEntry, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	entries, err := s.wishlistRepo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	return entries, nil
}

// AddToWishlist returns the existing entry when the product is already saved.
func (s *WishlistService) AddToWishlist(ctx context.Context, userID string, productID int64) (*model.WishlistEntry, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	entry := &model.WishlistEntry{UserID: userID, ProductID: productID}
	if err := s.wishlistRepo.Add(ctx, entry); err != nil {
		return nil, fmt.Errorf("add to wishlist: %w", err)
	}
	entry.Product = product
	return entry, nil
}

func (s *WishlistService) RemoveFromWishlist(ctx context.Context, userID string, productID int64) error {
	if userID == "" {
		return ErrUnauthorized
	}
	if err := s.wishlistRepo.Remove(ctx, userID, productID); err != nil {
		return fmt.Errorf("remove from wishlist: %w", err)
	}
	return nil
}

func (s *WishlistService) IsInWishlist(ctx context.Context, userID string, productID int64) (bool, error) {
	if userID == "" {
		return false, ErrUnauthorized
	}
	ok, err := s.wishlistRepo.Exists(ctx, userID, productID)
	if err != nil {
		return false, fmt.Errorf("check wishlist: %w", err)
	}
	return ok, nil
}
