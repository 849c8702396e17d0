package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/chartsheet/server/internal/helpers"
	"github.com/chartsheet/server/internal/middleware"
	"github.com/chartsheet/server/internal/models"
	"github.com/chartsheet/server/internal/services"
	"github.com/gin-gonic/gin"
)

func GetProfile(p *services.ProfileService) gin.HandlerFunc {
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

func UpdateProfile(p *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No token, authorization denied"})
			return
		}

		var update services.ProfileUpdate
		if err := c.ShouldBindJSON(&update); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, err := p.UpdateProfile(c.Request.Context(), userID, update)
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

// UploadPhoto accepts the multipart field "profilePic" and stores it via
// Cloudinary or the local fallback.
func UploadPhoto(p *services.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No token, authorization denied"})
			return
		}

		fileHeader, err := c.FormFile("profilePic")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
			return
		}
		if fileHeader.Size > helpers.MaxAvatarSize {
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "File too large, maximum size is 5MB"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		contentType := fileHeader.Header.Get("Content-Type")
		url, user, err := p.UploadAvatar(c.Request.Context(), userID, data, contentType)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrUnsupportedMedia):
				c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
			case errors.Is(err, models.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store profile picture"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Profile picture updated successfully",
			"url":     url,
			"user":    user,
		})
	}
}
