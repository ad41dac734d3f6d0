package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flicky/toolstore/internal/dto"
	"github.com/flicky/toolstore/internal/middleware"
	"github.com/flicky/toolstore/internal/service"
)

type WishlistHandler struct {
	svc *service.WishlistService
}

func NewWishlistHandler(svc *service.WishlistService) *WishlistHandler {
	return &WishlistHandler{svc: svc}
}

func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	entries, err := h.svc.ListWishlist(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.WishlistEntryResponse, 0, len(entries))
	for i := range entries {
		resp = append(resp, toWishlistEntryResponse(&entries[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WishlistHandler) AddToWishlist(c *gin.Context) {
	var req dto.AddToWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}
	entry, err := h.svc.AddToWishlist(c.Request.Context(), middleware.GetUserID(c), req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toWishlistEntryResponse(entry))
}

func (h *WishlistHandler) CheckWishlist(c *gin.Context) {
	productID, ok := parseID(c, "productId")
	if !ok {
		return
	}
	in, err := h.svc.IsInWishlist(c.Request.Context(), middleware.GetUserID(c), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.WishlistStatusResponse{InWishlist: in})
}

func (h *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	productID, ok := parseID(c, "productId")
	if !ok {
		return
	}
	if err := h.svc.RemoveFromWishlist(c.Request.Context(), middleware.GetUserID(c), productID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
