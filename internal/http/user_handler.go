package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"car-market/internal/domain"
	"car-market/internal/service"
)

// UserHandler mantiene dependencias para endpoints de usuarios.
type UserHandler struct {
	logger   *zap.Logger
	userServ *service.UserService
}

func NewUserHandler(logger *zap.Logger, userServ *service.UserService) *UserHandler {
	return &UserHandler{logger: logger, userServ: userServ}
}

// GetAllUsers maneja GET /users.
func (h *UserHandler) GetAllUsers(c *gin.Context) {
	identity, _ := GetActiveUser(c)

	users, err := h.userServ.GetAllUsers(c.Request.Context(), identity.Sub)
	if err != nil {
		h.logger.Error("list users failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GetSingleUser maneja GET /users/:id.
func (h *UserHandler) GetSingleUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	user, err := h.userServ.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found with this ID!"})
			return
		}
		h.logger.Error("get user failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateUserRole maneja PATCH /users/:id/role.
func (h *UserHandler) UpdateUserRole(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req struct {
		Role domain.Role `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid role update request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.userServ.UpdateUserRole(c.Request.Context(), id, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found with this ID!"})
		case errors.Is(err, service.ErrInvalidRoleUpdate):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing role value."})
		default:
			h.logger.Error("role update failed", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ToggleBlockUser maneja PATCH /users/:id/toggle-block.
func (h *UserHandler) ToggleBlockUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	result, err := h.userServ.ToggleBlockUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found with this ID!"})
			return
		}
		h.logger.Error("toggle block failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteUser maneja DELETE /users/:id.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.userServ.RemoveUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found with this ID!"})
			return
		}
		h.logger.Error("delete user failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true, "id": id})
}

// GetProfile maneja GET /me/profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	identity, ok := GetActiveUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You are not logged-in!"})
		return
	}

	user, err := h.userServ.GetProfile(c.Request.Context(), identity)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Error("get profile failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile maneja PATCH /me/profile con multipart form-data.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	identity, ok := GetActiveUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You are not logged-in!"})
		return
	}

	input := service.UpdateMeInput{
		UserName: c.PostForm("user_name"),
	}
	if file, err := c.FormFile("profile_image"); err == nil {
		input.ProfileImage = file
	}

	user, err := h.userServ.UpdateMe(c.Request.Context(), identity.Sub, input)
	if err != nil {
		if errors.Is(err, service.ErrNotSignedIn) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "You are not logged-in!"})
			return
		}
		h.logger.Error("update profile failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteAccount maneja DELETE /me/account.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	identity, ok := GetActiveUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You are not logged-in!"})
		return
	}

	if err := h.userServ.DeleteAccount(c.Request.Context(), identity.Sub); err != nil {
		if errors.Is(err, service.ErrNotSignedIn) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "You are not logged in! Please login again."})
			return
		}
		h.logger.Error("delete account failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true, "id": identity.Sub})
}

// paramID parsea el path param :id; responde 400 si no es numérico.
func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
