package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/middleware"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/models"
	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/services"
)

// AuthHandler serves login and caller-scoped account routes
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates an AuthHandler
func NewAuthHandler(as *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// Login handles POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginInput
	if !bindJSON(c, &input) {
		return
	}

	res, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Me handles GET /api/me
func (h *AuthHandler) Me(c *gin.Context) {
	profile, err := h.authService.Me(c.Request.Context(), middleware.CurrentCaller(c))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ChangePassword handles PATCH /api/users/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var input models.ChangePasswordInput
	if !bindJSON(c, &input) {
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), middleware.CurrentCaller(c), input); err != nil {
		middleware.RespondError(c, err)
		return
	}
	message(c, "password changed")
}
