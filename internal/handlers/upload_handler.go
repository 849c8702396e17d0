package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/chartsheet/server/internal/middleware"
	"github.com/chartsheet/server/internal/models"
	"github.com/chartsheet/server/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubmitUpload accepts the multipart field "file" plus the chartType,
// labels and data text fields.
func SubmitUpload(u *services.UploadService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No token, authorization denied"})
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
			return
		}

		upload, err := u.Submit(c.Request.Context(), services.SubmitInput{
			Owner:        userID,
			FileBytes:    data,
			OriginalName: fileHeader.Filename,
			ChartType:    c.PostForm("chartType"),
			LabelsJSON:   c.PostForm("labels"),
			DataJSON:     c.PostForm("data"),
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
			return
		}

		c.JSON(http.StatusCreated, upload)
	}
}

func ListUploads(u *services.UploadService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No token, authorization denied"})
			return
		}

		uploads, err := u.List(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch uploads"})
			return
		}

		c.JSON(http.StatusOK, uploads)
	}
}

func History(u *services.UploadService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No token, authorization denied"})
			return
		}

		history, err := u.History(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
			return
		}

		c.JSON(http.StatusOK, history)
	}
}

func KPIs(u *services.UploadService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No token, authorization denied"})
			return
		}

		kpis, err := u.KPIs(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch KPIs"})
			return
		}

		c.JSON(http.StatusOK, kpis)
	}
}

// RemoveUpload deletes a history entry. Ownership doubles as the
// existence check, so foreign ids read as not found.
func RemoveUpload(u *services.UploadService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No token, authorization denied"})
			return
		}

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Upload not found"})
			return
		}

		if err := u.Remove(c.Request.Context(), userID, id); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Upload not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete upload"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Upload deleted"})
	}
}

// DownloadFile streams the original file by id. Intentionally
// unauthenticated: history hands these URLs out as shareable links.
func DownloadFile(u *services.UploadService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("fileId"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}

		upload, err := u.Download(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Download failed"})
			return
		}

		c.FileAttachment(upload.Path, upload.OriginalName)
	}
}
