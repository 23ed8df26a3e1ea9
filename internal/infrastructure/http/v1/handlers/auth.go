package handlers

import (
	"github.com/gin-gonic/gin"

	"fieldops/internal/core/apperror"
	"fieldops/internal/domain/auth"
	"fieldops/internal/infrastructure/http/v1/dto"
)

// AuthHandler serves login and account endpoints.
type AuthHandler struct {
	BaseHandler
	service *auth.Service
}

func NewAuthHandler(service *auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Register handles POST /api/v1/auth/register. Admin only.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.service.Register(c.Request.Context(), req.Email, req.Password, req.FullName, req.Role)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, user.ID)
}

// ChangePassword handles POST /api/v1/auth/password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user := h.CurrentUser(c)
	if user == nil {
		h.Error(c, apperror.NewUnauthorized("authentication required"))
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), user.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.SuccessResponse{Success: true, Message: "password changed"})
}
