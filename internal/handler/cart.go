package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flicky/toolstore/internal/dto"
	"github.com/flicky/toolstore/internal/middleware"
	"github.com/flicky/toolstore/internal/service"
)

type CartHandler struct {
	svc *service.CartService
}

func NewCartHandler(svc *service.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	lines, err := h.svc.ListCart(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.CartLineResponse, 0, len(lines))
	for i := range lines {
		resp = append(resp, toCartLineResponse(&lines[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) CountCart(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CartCountResponse{Count: summary.Lines})
}

func (h *CartHandler) CartTotal(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CartTotalResponse{Total: summary.Total.StringFixed(2)})
}

func (h *CartHandler) AddToCart(c *gin.Context) {
	var req dto.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	line, err := h.svc.AddToCart(c.Request.Context(), middleware.GetUserID(c), req.ProductID, quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCartLineResponse(line))
}

func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	productID, ok := parseID(c, "productId")
	if !ok {
		return
	}
	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	line, err := h.svc.UpdateCartItem(c.Request.Context(), middleware.GetUserID(c), productID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartLineResponse(line))
}

func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	productID, ok := parseID(c, "productId")
	if !ok {
		return
	}
	if err := h.svc.RemoveFromCart(c.Request.Context(), middleware.GetUserID(c), productID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.svc.ClearCart(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
