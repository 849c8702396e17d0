package handlers

import (
	"errors"
	"net/http"

	"github.com/chartsheet/server/internal/middleware"
	"github.com/chartsheet/server/internal/models"
	"github.com/chartsheet/server/internal/services"
	"github.com/gin-gonic/gin"
)

func GetSettings(p *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No token, authorization denied"})
			return
		}

		user, err := p.GetProfile(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

func ChangePassword(p *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No token, authorization denied"})
			return
		}

		var req struct {
			CurrentPassword string `json:"currentPassword" binding:"required"`
			NewPassword     string `json:"newPassword" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide both current and new password"})
			return
		}

		if err := p.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
			switch {
			case errors.Is(err, models.ErrInvalidCredentials):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
			case errors.Is(err, models.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
	}
}

func UpdateSettings(p *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No token, authorization denied"})
			return
		}

		var update services.SettingsUpdate
		if err := c.ShouldBindJSON(&update); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, err := p.UpdateSettings(c.Request.Context(), userID, update)
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

// UpdatePreferences merges only the supplied keys into the stored
// preference map.
func UpdatePreferences(p *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No token, authorization denied"})
			return
		}

		var patch models.PreferencesPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, err := p.UpdatePreferences(c.Request.Context(), userID, patch)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}
