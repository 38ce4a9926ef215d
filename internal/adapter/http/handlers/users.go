package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/adapter/http/mapper"
	"taskmanager/internal/adapter/http/middleware"
	"taskmanager/internal/core/ports"
	"taskmanager/pkg/apierrors"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err, apierrors.MsgFailListUsers)
		return
	}

	c.JSON(http.StatusOK, mapper.ToUsersWithTasks(users))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := parseID(c)
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidUserID, middleware.GetLang(c)),
		)
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, apierrors.MsgFailGetUser)
		return
	}

	c.JSON(http.StatusOK, mapper.ToUserWithTasks(user))
}
