package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flicky/toolstore/internal/middleware"
	"github.com/flicky/toolstore/internal/service"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// GetUser refreshes the stored profile from the token and returns it.
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.svc.Sync(c.Request.Context(), middleware.GetIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}
