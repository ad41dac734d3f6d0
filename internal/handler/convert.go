package handler

import (
	"github.com/flicky/toolstore/internal/dto"
	"github.com/flicky/toolstore/internal/model"
)

func toCategoryResponse(c *model.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Icon:        c.Icon,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}

func toProductResponse(p *model.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	resp := &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		ImageURL:    p.ImageURL,
		CategoryID:  p.CategoryID,
		InStock:     p.InStock,
		Featured:    p.Featured,
		BestSelling: p.BestSelling,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.OriginalPrice.Valid {
		original := p.OriginalPrice.Decimal.StringFixed(2)
		resp.OriginalPrice = &original
	}
	if p.Category != nil {
		category := toCategoryResponse(p.Category)
		resp.Category = &category
	}
	return resp
}

func toProductList(products []model.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, *toProductResponse(&products[i]))
	}
	return out
}

func toCartLineResponse(l *model.CartLine) dto.CartLineResponse {
	return dto.CartLineResponse{
		ID:        l.ID,
		UserID:    l.UserID,
		ProductID: l.ProductID,
		Quantity:  l.Quantity,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
		Product:   toProductResponse(l.Product),
	}
}

func toWishlistEntryResponse(e *model.WishlistEntry) dto.WishlistEntryResponse {
	return dto.WishlistEntryResponse{
		ID:        e.ID,
		UserID:    e.UserID,
		ProductID: e.ProductID,
		CreatedAt: e.CreatedAt,
		Product:   toProductResponse(e.Product),
	}
}

func toOrderResponse(o *model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items = append(items, dto.OrderItemResponse{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price.StringFixed(2),
			Product:   toProductResponse(item.Product),
		})
	}
	return dto.OrderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		Status:          o.Status,
		Total:           o.Total.StringFixed(2),
		ShippingAddress: o.ShippingAddress,
		TrackingNumber:  o.TrackingNumber,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Items:           items,
	}
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}
