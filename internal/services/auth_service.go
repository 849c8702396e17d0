package services

import (
	"context"
	"fmt"
	"time"

	"github.com/chartsheet/server/internal/helpers"
	"github.com/chartsheet/server/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuthService struct {
	userRepo models.UserRepo
	tokens   *helpers.TokenMaker
}

func NewAuthService(userRepo models.UserRepo, tokens *helpers.TokenMaker) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Register stores a new account with a hashed password and the default
// role. The uniqueness probe and the insert are two steps; a concurrent
// identical registration can slip between them.
func (as *AuthService) Register(ctx context.Context, username, email, password string) error {
	user := &models.User{
		Username: username,
		Email:    email,
	}
	if err := models.Validate.StructPartial(user, "Username", "Email"); err != nil {
		return fmt.Errorf("invalid registration data: %w", err)
	}

	existing, err := as.userRepo.FindCredentialConflict(ctx, email, username, primitive.NilObjectID)
	if err != nil {
		return fmt.Errorf("failed to check existing users: %v", err)
	}
	if existing != nil {
		return models.ErrUserConflict
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return err
	}
	user.Password = hash

	if _, err := as.userRepo.CreateUser(ctx, user); err != nil {
		return err
	}
	return nil
}

type LoginResult struct {
	Token string             `json:"token"`
	User  *models.PublicUser `json:"user"`
}

// Login checks credentials and the blocked flag, bumps lastLogin and
// issues a session token carrying id, username and role.
func (as *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := as.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		// Unknown email and wrong password are indistinguishable to the caller.
		return nil, models.ErrInvalidCredentials
	}

	if user.IsBlocked {
		return nil, models.ErrAccountBlocked
	}

	if err := helpers.CheckPassword(user.Password, password); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	now := time.Now()
	if err := as.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now

	token, err := as.tokens.GenerateToken(user.ID.Hex(), user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %v", err)
	}

	return &LoginResult{Token: token, User: user.Public()}, nil
}

// UpdateCredentials partially updates username/email, rejecting values
// already held by another account.
func (as *AuthService) UpdateCredentials(ctx context.Context, userID primitive.ObjectID, username, email string) (*models.User, error) {
	if username != "" || email != "" {
		existing, err := as.userRepo.FindCredentialConflict(ctx, email, username, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing users: %v", err)
		}
		if existing != nil {
			return nil, models.ErrUserConflict
		}
	}

	fields := map[string]interface{}{}
	if username != "" {
		fields["username"] = username
	}
	if email != "" {
		fields["email"] = email
	}
	return as.userRepo.UpdateUserFields(ctx, userID, fields)
}
