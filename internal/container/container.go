package container

import (
	"log/slog"

	"github.com/chartsheet/server/internal/config"
	"github.com/chartsheet/server/internal/helpers"
	"github.com/chartsheet/server/internal/models"
	"github.com/chartsheet/server/internal/services"
	"github.com/cloudinary/cloudinary-go/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies
type Container struct {
	Logger     *slog.Logger
	Config     *config.Config
	Cloudinary *cloudinary.Cloudinary
	TokenMaker *helpers.TokenMaker

	Users   models.UserRepo
	Uploads models.UploadRepo

	AuthService    *services.AuthService
	ProfileService *services.ProfileService
	UploadService  *services.UploadService
	AdminService   *services.AdminService
}

// NewContainer creates a new dependency injection container
func NewContainer(
	logger *slog.Logger,
	cfg *config.Config,
	cld *cloudinary.Cloudinary,
	mongoDBClient *mongo.Client,
) *Container {
	repo := models.MongodbNewRepo(mongoDBClient, cfg.MongoDBName)
	tokenMaker := helpers.NewTokenMaker(cfg.JWTSecret, helpers.SessionTTL)

	return &Container{
		Logger:         logger,
		Config:         cfg,
		Cloudinary:     cld,
		TokenMaker:     tokenMaker,
		Users:          repo,
		Uploads:        repo,
		AuthService:    services.NewAuthService(repo, tokenMaker),
		ProfileService: services.NewProfileService(repo, cld, cfg.UploadDir),
		UploadService:  services.NewUploadService(repo, cfg.UploadDir),
		AdminService:   services.NewAdminService(repo, repo),
	}
}
