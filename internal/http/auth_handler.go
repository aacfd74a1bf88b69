package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"car-market/internal/service"
)

// AuthHandler mantiene dependencias para endpoints de autenticación.
type AuthHandler struct {
	logger     *zap.Logger
	authServ   *service.AuthService
	tokenServ  *service.TokenService
	googleServ *service.GoogleAuthService
}

// NewAuthHandler crea una instancia de AuthHandler con dependencias necesarias.
func NewAuthHandler(logger *zap.Logger, authServ *service.AuthService, tokenServ *service.TokenService, googleServ *service.GoogleAuthService) *AuthHandler {
	return &AuthHandler{
		logger:     logger,
		authServ:   authServ,
		tokenServ:  tokenServ,
		googleServ: googleServ,
	}
}

// SignUp maneja POST /auth/sign-up.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req struct {
		UserName string `json:"user_name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid sign-up request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.authServ.SignUp(c.Request.Context(), service.SignUpInput{
		UserName: req.UserName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists with this email"})
			return
		}
		h.logger.Error("sign-up failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": result.Tokens, "user": result.User})
}

// SignIn maneja POST /auth/sign-in.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid sign-in request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.authServ.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		case errors.Is(err, service.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		default:
			h.logger.Error("sign-in failed", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": result.Tokens, "user": result.User})
}

// SignOut maneja POST /auth/sign-out.
func (h *AuthHandler) SignOut(c *gin.Context) {
	identity, ok := GetActiveUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You are not logged-in!"})
		return
	}

	if err := h.authServ.SignOut(c.Request.Context(), identity.Sub); err != nil {
		if errors.Is(err, service.ErrNotSignedIn) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "You are not logged-in!"})
			return
		}
		h.logger.Error("sign-out failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully signed out"})
}

// RefreshTokens maneja POST /auth/refresh-tokens.
func (h *AuthHandler) RefreshTokens(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid refresh request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	tokens, err := h.tokenServ.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// UpdatePassword maneja PATCH /auth/update-password.
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	identity, ok := GetActiveUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You are not logged-in!"})
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=8"`
		ConfirmPassword string `json:"confirm_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update-password request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	tokens, err := h.authServ.UpdatePassword(c.Request.Context(), identity.Sub, req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotSignedIn):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "You are not logged-in, please log-in again!"})
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect!"})
		case errors.Is(err, service.ErrPasswordMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match!"})
		default:
			h.logger.Error("update password failed", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens, "message": "Password updated successfully!"})
}

// GoogleAuth maneja POST /auth/google.
func (h *AuthHandler) GoogleAuth(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid google auth request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.googleServ.Authenticate(c.Request.Context(), req.Token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGoogleAuthFailed):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "google authentication failed"})
		case errors.Is(err, service.ErrGoogleConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "google account already linked"})
		default:
			h.logger.Error("google auth failed", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": result.Tokens, "user": result.User})
}
