package routes

import (
	"github.com/chartsheet/server/internal/container"
	"github.com/chartsheet/server/internal/handlers"
	"github.com/chartsheet/server/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	if container.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{container.Config.FrontendURL, "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Add middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	// Locally stored files (uploads, fallback avatars)
	r.Static("/uploads", container.Config.UploadDir)

	authRequired := middleware.Auth(container.TokenMaker)
	adminOnly := middleware.RequireAdmin(container.Users, container.Logger)

	api := r.Group("/api")
	{
		// Health check, no auth
		api.GET("/health", handlers.Health(container.Config))

		// File download by id, no auth: links are shareable
		api.GET("/download/:fileId", handlers.DownloadFile(container.UploadService))
	}

	auth := api.Group("/auth")
	{
		auth.POST("/register", handlers.Register(container.AuthService))
		auth.POST("/login", handlers.Login(container.AuthService))
		auth.PUT("/profile", authRequired, handlers.UpdateCredentials(container.AuthService))
	}

	uploads := api.Group("/")
	uploads.Use(authRequired)
	{
		uploads.POST("/uploads", handlers.SubmitUpload(container.UploadService))
		uploads.GET("/uploads", handlers.ListUploads(container.UploadService))
		uploads.GET("/history", handlers.History(container.UploadService))
		uploads.DELETE("/history/:id", handlers.RemoveUpload(container.UploadService))
		uploads.GET("/kpis", handlers.KPIs(container.UploadService))
	}

	profile := api.Group("/profile")
	profile.Use(authRequired)
	{
		profile.GET("", handlers.GetProfile(container.ProfileService))
		profile.PUT("", handlers.UpdateProfile(container.ProfileService))
		profile.POST("/photo", handlers.UploadPhoto(container.ProfileService))
	}

	settings := api.Group("/settings")
	settings.Use(authRequired)
	{
		settings.GET("", handlers.GetSettings(container.ProfileService))
		settings.PUT("/password", handlers.ChangePassword(container.ProfileService))
		settings.PUT("/profile", handlers.UpdateSettings(container.ProfileService))
		settings.PUT("/preferences", handlers.UpdatePreferences(container.ProfileService))
	}

	admin := api.Group("/admin")
	admin.Use(authRequired, adminOnly)
	{
		admin.GET("/users", handlers.ListUsers(container.AdminService))
		admin.GET("/stats", handlers.Stats(container.AdminService))
		admin.PUT("/users/:id/block", handlers.BlockUser(container.AdminService))
		admin.PUT("/users/:id/role", handlers.SetRole(container.AdminService))
		admin.DELETE("/users/:id", handlers.DeleteUser(container.AdminService))
		admin.GET("/users/:id/activity", handlers.UserActivity(container.AdminService))
	}

	return r
}
