package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flicky/toolstore/internal/dto"
	"github.com/flicky/toolstore/internal/middleware"
	"github.com/flicky/toolstore/internal/service"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	order, err := h.orderService.PlaceOrder(c.Request.Context(), middleware.GetUserID(c), service.PlaceOrderInput{
		ShippingAddress: req.ShippingAddress,
		Total:           req.Total,
		ClearCart:       req.ClearCart,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(order))
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.GetOrders(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, toOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetOrderByID(c.Request.Context(), orderID, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) GetOrderHistory(c *gin.Context) {
	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}
	history, err := h.orderService.GetOrderHistory(c.Request.Context(), orderID, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.OrderStatusChangeResponse, 0, len(history))
	for _, change := range history {
		resp = append(resp, dto.OrderStatusChangeResponse{
			ID:             change.ID,
			OrderID:        change.OrderID,
			EventID:        change.EventID,
			Status:         change.Status,
			TrackingNumber: change.TrackingNumber,
			ChangedAt:      change.ChangedAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) TrackOrder(c *gin.Context) {
	order, err := h.orderService.TrackOrder(c.Request.Context(), middleware.GetUserID(c), c.Param("trackingNumber"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}
	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), orderID, req.Status, req.TrackingNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) SetTrackingNumber(c *gin.Context) {
	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.SetTrackingNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}
	order, err := h.orderService.SetTrackingNumber(c.Request.Context(), orderID, req.TrackingNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}
