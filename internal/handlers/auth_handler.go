package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/chartsheet/server/internal/config"
	"github.com/chartsheet/server/internal/middleware"
	"github.com/chartsheet/server/internal/models"
	"github.com/chartsheet/server/internal/services"
	"github.com/gin-gonic/gin"
)

func Register(a *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Username string `json:"username" binding:"required"`
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := a.Register(c.Request.Context(), req.Username, req.Email, req.Password); err != nil {
			if errors.Is(err, models.ErrUserConflict) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
	}
}

func Login(a *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
			return
		}

		result, err := a.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrAccountBlocked):
				c.JSON(http.StatusForbidden, gin.H{"error": "Account has been blocked. Please contact administrator."})
			case errors.Is(err, models.ErrInvalidCredentials):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			}
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// UpdateCredentials handles PUT /api/auth/profile, the username/email
// subset of a profile update.
func UpdateCredentials(a *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No token, authorization denied"})
			return
		}

		var req struct {
			Username string `json:"username"`
			Email    string `json:"email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, err := a.UpdateCredentials(c.Request.Context(), userID, req.Username, req.Email)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrUserConflict):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Username or email already exists"})
			case errors.Is(err, models.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			}
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

// Health reports service status and which Cloudinary configuration form
// is active; no auth required.
func Health(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := "Separate Variables"
		if cfg.CloudinaryURL != "" {
			method = "URL"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"timestamp": time.Now().Format(time.RFC3339),
			"cloudinary": gin.H{
				"configured": cfg.CloudinaryConfigured(),
				"method":     method,
			},
		})
	}
}
