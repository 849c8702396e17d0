package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/chartsheet/server/internal/helpers"
	"github.com/chartsheet/server/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClaimsKey is the context key the Auth middleware stores SessionClaims
// under.
const ClaimsKey = "user"

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging middleware
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		// Process request
		c.Next()

		// Log request completion
		latency := time.Since(start)
		clientIP := c.ClientIP()
		method := c.Request.Method
		statusCode := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		requestID, _ := c.Get("request_id")

		logger.Info("HTTP Request",
			"request_id", requestID,
			"method", method,
			"path", path,
			"status", statusCode,
			"latency", latency,
			"client_ip", clientIP,
		)
	}
}

// ErrorHandler provides centralized error handling
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Handle any errors that occurred during request processing
		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			requestID, _ := c.Get("request_id")

			logger.Error("Request error",
				"request_id", requestID,
				"error", err.Error(),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)

			// Don't return error details in production
			c.JSON(500, gin.H{
				"error":      "Internal server error",
				"request_id": requestID,
			})
		}
	}
}

// Auth validates the bearer token and stores the decoded identity in the
// request context. A blocked account's still-valid token keeps passing
// this check; blocking is only enforced at login and by RequireAdmin.
func Auth(maker *helpers.TokenMaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No token, authorization denied"})
			c.Abort()
			return
		}

		claims, err := maker.ParseToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is not valid"})
			c.Abort()
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// UserFetcher is the slice of the user repository RequireAdmin needs.
type UserFetcher interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// RequireAdmin re-fetches the caller's record on every request instead of
// trusting the role baked into the token, so a demoted admin loses access
// immediately.
func RequireAdmin(users UserFetcher, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No token, authorization denied"})
			c.Abort()
			return
		}

		id, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID in token"})
			c.Abort()
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), id)
		if err != nil || !user.IsAdmin() {
			if err != nil {
				logger.Info("Admin gate lookup failed", "user_id", claims.UserID, "error", err)
			}
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied. Admin privileges required."})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentClaims pulls the authenticated identity set by Auth.
func CurrentClaims(c *gin.Context) (*helpers.SessionClaims, bool) {
	value, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*helpers.SessionClaims)
	return claims, ok
}

// CurrentUserID parses the authenticated caller's ObjectID.
func CurrentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	claims, ok := CurrentClaims(c)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
