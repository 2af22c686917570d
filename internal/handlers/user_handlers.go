package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock_backend/internal/middleware"
	"stock_backend/internal/services"
	"stock_backend/pkg/utils"
)

// UserHandler holds the personnel service.
type UserHandler struct {
	userService services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(s services.UserService) *UserHandler {
	return &UserHandler{userService: s}
}

// CreateUser handles POST /users/create.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req services.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateUser: Failed to bind JSON")
		utils.RespondValidationFailed(c, err)
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), middleware.ActorFromContext(c), req)
	if err != nil {
		utils.LogError(err, "CreateUser: Error from userService.CreateUser")
		if errors.Is(err, services.ErrDocumentsConflict) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Ya existe un trabajador con el documento "+req.Documents, err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create user.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, user)
}

// GetUsers handles GET /users.
func (h *UserHandler) GetUsers(c *gin.Context) {
	page, err := h.userService.ListUsers(c.Request.Context(), pageParams(c))
	if err != nil {
		utils.LogError(err, "GetUsers: Error from userService.ListUsers")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch users.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, page)
}

// SearchUsers handles GET /users/search?name=.
func (h *UserHandler) SearchUsers(c *gin.Context) {
	page, err := h.userService.SearchUsers(c.Request.Context(), c.Query("name"), pageParams(c))
	if err != nil {
		utils.LogError(err, "SearchUsers: Error from userService.SearchUsers")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to search users.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetUserByID handles GET /users/search/:id.
func (h *UserHandler) GetUserByID(c *gin.Context) {
	id := c.Param("id")
	user, err := h.userService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		utils.LogError(err, "GetUserByID: Error from userService.GetUserByID for ID "+id)
		if errors.Is(err, services.ErrUserNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "User not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch user.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser handles PUT /users/update/:id.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id := c.Param("id")
	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateUser: Failed to bind JSON for ID "+id)
		utils.RespondValidationFailed(c, err)
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), middleware.ActorFromContext(c), id, req)
	if err != nil {
		utils.LogError(err, "UpdateUser: Error from userService.UpdateUser for ID "+id)
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "User not found to update.", err.Error()))
		case errors.Is(err, services.ErrDocumentsConflict):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Ya existe un usuario con el documento: "+req.Documents, err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update user.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /users/delete/:id.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if err := h.userService.DeleteUser(c.Request.Context(), middleware.ActorFromContext(c), id); err != nil {
		utils.LogError(err, "DeleteUser: Error from userService.DeleteUser for ID "+id)
		if errors.Is(err, services.ErrUserNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "El usuario no existe.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete user.", "Internal error"))
		}
		return
	}
	c.Status(http.StatusNoContent)
}
