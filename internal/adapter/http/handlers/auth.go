package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskmanager/internal/adapter/http/dto"
	"taskmanager/internal/adapter/http/mapper"
	"taskmanager/internal/adapter/http/middleware"
	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/ports"
	"taskmanager/pkg/apierrors"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	lang := middleware.GetLang(c)

	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidSignupPayload, lang),
		)
		return
	}

	user, pair, err := h.authService.Signup(c.Request.Context(), domain.SignupInput{
		Username:  req.Username,
		Password:  req.Password,
		Role:      domain.Role(req.Role),
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeError(c, err, apierrors.MsgFailSignup)
		return
	}

	c.JSON(http.StatusCreated, dto.SignupResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
		User:    mapper.ToUserItem(user),
	})
}

// Login answers every credential failure with the same 401.
func (h *AuthHandler) Login(c *gin.Context) {
	lang := middleware.GetLang(c)

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidLoginPayload, lang),
		)
		return
	}

	pair, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err, apierrors.MsgFailLogin)
		return
	}

	c.JSON(http.StatusOK, dto.TokenPairResponse{Access: pair.Access, Refresh: pair.Refresh})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	lang := middleware.GetLang(c)

	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidRefresh, lang),
		)
		return
	}

	access, err := h.authService.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		writeError(c, err, apierrors.MsgFailRefresh)
		return
	}

	c.JSON(http.StatusOK, dto.AccessResponse{Access: access})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	lang := middleware.GetLang(c)

	user, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateFieldError(http.StatusBadRequest, "new_password", apierrors.MsgInvalidPasswordPayload, lang),
		)
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), user, domain.ChangePasswordInput{
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		writeError(c, err, apierrors.MsgFailChangePassword, zap.Uint64("user_id", user.ID))
		return
	}

	c.JSON(http.StatusOK, dto.DetailResponse{Detail: apierrors.GetTransErrorMsg(apierrors.MsgPasswordChanged, lang)})
}
