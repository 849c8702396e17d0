package services

import (
	"context"
	"time"

	"github.com/chartsheet/server/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AdminService struct {
	userRepo   models.UserRepo
	uploadRepo models.UploadRepo
}

func NewAdminService(userRepo models.UserRepo, uploadRepo models.UploadRepo) *AdminService {
	return &AdminService{
		userRepo:   userRepo,
		uploadRepo: uploadRepo,
	}
}

func (ads *AdminService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return ads.userRepo.ListUsers(ctx)
}

// Stats recomputes every count on each call; nothing is cached.
func (ads *AdminService) Stats(ctx context.Context) (*models.UserStats, error) {
	return ads.userRepo.UserStats(ctx)
}

func (ads *AdminService) SetBlocked(ctx context.Context, userID primitive.ObjectID, blocked bool) (*models.User, error) {
	return ads.userRepo.SetBlocked(ctx, userID, blocked)
}

func (ads *AdminService) SetRole(ctx context.Context, userID primitive.ObjectID, role string) (*models.User, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, models.ErrInvalidRole
	}
	return ads.userRepo.SetRole(ctx, userID, role)
}

// DeleteUser hard-deletes the account. The user's upload records and
// stored files are left in place.
func (ads *AdminService) DeleteUser(ctx context.Context, userID primitive.ObjectID) error {
	return ads.userRepo.DeleteUser(ctx, userID)
}

type LoginEvent struct {
	Date   time.Time `json:"date"`
	Action string    `json:"action"`
}

type UserActivity struct {
	User         *models.User `json:"user"`
	LoginHistory []LoginEvent `json:"loginHistory"`
	UploadCount  int64        `json:"uploadCount"`
	LastActivity time.Time    `json:"lastActivity"`
}

// UserActivity returns the record plus a single login-history entry
// derived from lastLogin/createdAt; no real audit log exists.
func (ads *AdminService) UserActivity(ctx context.Context, userID primitive.ObjectID) (*UserActivity, error) {
	user, err := ads.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	last := user.CreatedAt
	if user.LastLogin != nil {
		last = *user.LastLogin
	}

	count, err := ads.uploadRepo.CountUploadsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserActivity{
		User:         user,
		LoginHistory: []LoginEvent{{Date: last, Action: "Login"}},
		UploadCount:  count,
		LastActivity: last,
	}, nil
}
