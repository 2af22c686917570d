package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_backend/internal/services"
	"stock_backend/pkg/utils"
)

// AdminAuthHandler handles admin login and account creation.
type AdminAuthHandler struct {
	adminAuthService services.AdminAuthService
}

// NewAdminAuthHandler creates a new AdminAuthHandler.
func NewAdminAuthHandler(s services.AdminAuthService) *AdminAuthHandler {
	return &AdminAuthHandler{adminAuthService: s}
}

// Login handles POST /admin/login.
func (h *AdminAuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "Login: Failed to bind JSON")
		utils.RespondValidationFailed(c, err)
		return
	}

	resp, err := h.adminAuthService.Login(c.Request.Context(), req)
	if err != nil {
		utils.LogWarn(err, "Login: failed attempt for "+req.Username)
		switch {
		case errors.Is(err, services.ErrAdminNotFound):
			c.JSON(http.StatusUnauthorized, services.LoginResponse{Success: false, Message: "Usuario no encontrado"})
		case errors.Is(err, services.ErrWrongPassword):
			c.JSON(http.StatusUnauthorized, services.LoginResponse{Success: false, Message: "Contraseña incorrecta"})
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Login failed.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateAdmin handles POST /admin-users.
func (h *AdminAuthHandler) CreateAdmin(c *gin.Context) {
	var req services.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateAdmin: Failed to bind JSON")
		utils.RespondValidationFailed(c, err)
		return
	}

	admin, err := h.adminAuthService.CreateAdmin(c.Request.Context(), req)
	if err != nil {
		utils.LogError(err, "CreateAdmin: Error from adminAuthService.CreateAdmin")
		if errors.Is(err, services.ErrUsernameExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Username already exists.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create admin user.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, admin)
}
