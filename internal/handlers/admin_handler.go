package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/chartsheet/server/internal/models"
	"github.com/chartsheet/server/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func ListUsers(a *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := a.ListUsers(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

func Stats(a *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := a.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func BlockUser(a *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		var req struct {
			IsBlocked bool `json:"isBlocked"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, err := a.SetBlocked(c.Request.Context(), id, req.IsBlocked)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		action := "unblocked"
		if req.IsBlocked {
			action = "blocked"
		}
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("User %s successfully", action),
			"user":    user,
		})
	}
}

func SetRole(a *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		var req struct {
			Role string `json:"role"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, err := a.SetRole(c.Request.Context(), id, req.Role)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrInvalidRole):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			case errors.Is(err, models.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("User role updated to %s successfully", req.Role),
			"user":    user,
		})
	}
}

// DeleteUser hard-deletes the account without touching its uploads.
func DeleteUser(a *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		if err := a.DeleteUser(c.Request.Context(), id); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
	}
}

func UserActivity(a *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		activity, err := a.UserActivity(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		c.JSON(http.StatusOK, activity)
	}
}
