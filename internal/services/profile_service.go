package services

import (
	"context"
	"fmt"
	"time"

	"github.com/chartsheet/server/internal/helpers"
	"github.com/chartsheet/server/internal/models"
	"github.com/cloudinary/cloudinary-go/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileService covers the authenticated user's own record: profile
// fields, settings, password and avatar.
type ProfileService struct {
	userRepo  models.UserRepo
	cld       *cloudinary.Cloudinary
	uploadDir string
}

// NewProfileService takes a nil Cloudinary client to mean "not
// configured", switching avatar storage to local disk.
func NewProfileService(userRepo models.UserRepo, cld *cloudinary.Cloudinary, uploadDir string) *ProfileService {
	return &ProfileService{
		userRepo:  userRepo,
		cld:       cld,
		uploadDir: uploadDir,
	}
}

func (ps *ProfileService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return ps.userRepo.GetUserByID(ctx, userID)
}

// ProfileUpdate carries the optional profile fields; nil means "leave as
// is", so an explicit empty string still clears a field like bio.
type ProfileUpdate struct {
	Email    *string `json:"email"`
	Username *string `json:"username"`
	Name     *string `json:"name"`
	Bio      *string `json:"bio"`
	Phone    *string `json:"phone"`
}

func (ps *ProfileService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, update ProfileUpdate) (*models.User, error) {
	var email, username string
	if update.Email != nil {
		email = *update.Email
	}
	if update.Username != nil {
		username = *update.Username
	}
	if email != "" || username != "" {
		existing, err := ps.userRepo.FindCredentialConflict(ctx, email, username, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing users: %v", err)
		}
		if existing != nil {
			return nil, models.ErrUserConflict
		}
	}

	fields := map[string]interface{}{}
	if update.Email != nil {
		fields["email"] = *update.Email
	}
	if update.Username != nil {
		fields["username"] = *update.Username
	}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Bio != nil {
		fields["bio"] = *update.Bio
	}
	if update.Phone != nil {
		fields["phone"] = *update.Phone
	}
	return ps.userRepo.UpdateUserFields(ctx, userID, fields)
}

// SettingsUpdate is the settings-page variant of a profile update; it can
// also carry a preferences patch merged in the same call.
type SettingsUpdate struct {
	Username    string                   `json:"username"`
	Email       string                   `json:"email"`
	Bio         string                   `json:"bio"`
	Phone       string                   `json:"phone"`
	Preferences *models.PreferencesPatch `json:"preferences"`
}

func (ps *ProfileService) UpdateSettings(ctx context.Context, userID primitive.ObjectID, update SettingsUpdate) (*models.User, error) {
	if update.Email != "" || update.Username != "" {
		existing, err := ps.userRepo.FindCredentialConflict(ctx, update.Email, update.Username, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing users: %v", err)
		}
		if existing != nil {
			return nil, models.ErrUserConflict
		}
	}

	fields := map[string]interface{}{}
	if update.Username != "" {
		fields["username"] = update.Username
	}
	if update.Email != "" {
		fields["email"] = update.Email
	}
	if update.Bio != "" {
		fields["bio"] = update.Bio
	}
	if update.Phone != "" {
		fields["phone"] = update.Phone
	}

	user, err := ps.userRepo.UpdateUserFields(ctx, userID, fields)
	if err != nil {
		return nil, err
	}
	if update.Preferences != nil {
		return ps.userRepo.MergePreferences(ctx, userID, *update.Preferences)
	}
	return user, nil
}

func (ps *ProfileService) UpdatePreferences(ctx context.Context, userID primitive.ObjectID, patch models.PreferencesPatch) (*models.User, error) {
	return ps.userRepo.MergePreferences(ctx, userID, patch)
}

// ChangePassword re-hashes and stores the new password after verifying
// the current one. No strength rule is enforced here.
func (ps *ProfileService) ChangePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error {
	user, err := ps.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := helpers.CheckPassword(user.Password, currentPassword); err != nil {
		return models.ErrInvalidCredentials
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return ps.userRepo.UpdatePassword(ctx, userID, hash)
}

// UploadAvatar stores the image on Cloudinary when configured (with
// retries) or on local disk otherwise, then records the resulting URL.
func (ps *ProfileService) UploadAvatar(ctx context.Context, userID primitive.ObjectID, data []byte, contentType string) (string, *models.User, error) {
	if !helpers.AllowedImageTypes[contentType] {
		return "", nil, models.ErrUnsupportedMedia
	}
	if len(data) > helpers.MaxAvatarSize {
		return "", nil, models.ErrUnsupportedMedia
	}

	var url string
	var err error
	if ps.cld != nil {
		publicID := fmt.Sprintf("profile_%s_%d", userID.Hex(), time.Now().UnixMilli())
		url, err = helpers.UploadAvatarImage(ctx, ps.cld, data, publicID)
	} else {
		url, err = helpers.SaveAvatarLocally(ps.uploadDir, data)
	}
	if err != nil {
		return "", nil, err
	}

	user, err := ps.userRepo.UpdateUserFields(ctx, userID, map[string]interface{}{"profilePic": url})
	if err != nil {
		return "", nil, err
	}
	return url, user, nil
}
