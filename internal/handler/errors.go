package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/flicky/toolstore/internal/dto"
	"github.com/flicky/toolstore/internal/service"
)

type errorKind struct {
	status int
	kind   string
}

var (
	kindNotFound     = errorKind{http.StatusNotFound, "not_found"}
	kindUnauthorized = errorKind{http.StatusUnauthorized, "unauthorized"}
	kindValidation   = errorKind{http.StatusBadRequest, "validation_error"}
	kindConflict     = errorKind{http.StatusConflict, "conflict"}
	kindInternal     = errorKind{http.StatusInternalServerError, "internal"}
)

var errorKinds = []struct {
	err  error
	kind errorKind
}{
	{service.ErrUnauthorized, kindUnauthorized},
	{service.ErrProductNotFound, kindNotFound},
	{service.ErrCategoryNotFound, kindNotFound},
	{service.ErrCartItemNotFound, kindNotFound},
	{service.ErrOrderNotFound, kindNotFound},
	{service.ErrInvalidQuantity, kindValidation},
	{service.ErrEmptyShippingAddress, kindValidation},
	{service.ErrOrderTotalTooLarge, kindValidation},
	{service.ErrEmptyTrackingNumber, kindValidation},
	{service.ErrInvalidStatus, kindValidation},
	{service.ErrEmptyCart, kindConflict},
	{service.ErrTotalMismatch, kindConflict},
	{service.ErrInvalidTransition, kindConflict},
	{service.ErrStatusConflict, kindConflict},
}

// respondError maps service errors to the JSON error envelope. Unknown errors
// become 500s; their cause is attached to the gin context for the request log
// and never sent to the client.
func respondError(c *gin.Context, err error) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			c.AbortWithStatusJSON(k.kind.status, dto.ErrorResponse{Error: k.kind.kind, Message: k.err.Error()})
			return
		}
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(kindInternal.status, dto.ErrorResponse{Error: kindInternal.kind, Message: "internal server error"})
}

func respondValidation(c *gin.Context, message string) {
	c.AbortWithStatusJSON(kindValidation.status, dto.ErrorResponse{Error: kindValidation.kind, Message: message})
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		respondValidation(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
