package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flicky/toolstore/internal/dto"
	"github.com/flicky/toolstore/internal/service"
)

type CatalogHandler struct {
	svc *service.CatalogService
}

func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		resp = append(resp, toCategoryResponse(&categories[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) GetCategory(c *gin.Context) {
	ctx := c.Request.Context()
	category, err := h.svc.GetCategoryBySlug(ctx, c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	products, err := h.svc.ListByCategory(ctx, category.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CategoryWithProductsResponse{
		Category: toCategoryResponse(category),
		Products: toProductList(products),
	})
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var q dto.ListProductsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondValidation(c, err.Error())
		return
	}

	page, err := h.svc.BrowseProducts(c.Request.Context(), service.ProductQuery{
		CategoryID:  q.CategoryID,
		Featured:    q.Featured,
		BestSelling: q.BestSelling,
		Search:      q.Search,
	}, q.Page, q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProductListResponse{
		Products: toProductList(page.Products),
		Total:    page.Total,
		Page:     page.Page,
		Limit:    page.Limit,
	})
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	product, err := h.svc.GetProductByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}
