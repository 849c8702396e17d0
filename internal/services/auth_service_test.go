package services

import (
	"context"
	"testing"
	"time"

	"github.com/chartsheet/server/internal/helpers"
	"github.com/chartsheet/server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo, *helpers.TokenMaker) {
	t.Helper()
	repo := newFakeUserRepo()
	maker := helpers.NewTokenMaker("test_secret_key", helpers.SessionTTL)
	return NewAuthService(repo, maker), repo, maker
}

func TestAuthService_Register(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)
	ctx := context.Background()

	err := svc.Register(ctx, "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	stored, err := repo.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.Username)
	assert.Equal(t, models.RoleUser, stored.Role)
	assert.Equal(t, models.DefaultProfilePic, stored.ProfilePic)
	assert.Equal(t, models.ThemeDark, stored.Preferences.Theme)
	assert.True(t, stored.Preferences.EmailNotifications)
	assert.NotEqual(t, "secret123", stored.Password, "password must be stored hashed")
	assert.NoError(t, helpers.CheckPassword(stored.Password, "secret123"))
}

func TestAuthService_RegisterConflicts(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "alice@example.com", "secret123"))

	tests := []struct {
		name     string
		username string
		email    string
	}{
		{name: "duplicate email", username: "someone_else", email: "alice@example.com"},
		{name: "duplicate username", username: "alice", email: "other@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Register(ctx, tt.username, tt.email, "secret123")
			assert.ErrorIs(t, err, models.ErrUserConflict)
		})
	}
}

func TestAuthService_RegisterRejectsInvalidEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	err := svc.Register(context.Background(), "alice", "not-an-email", "secret123")
	assert.Error(t, err)
}

func TestAuthService_Login(t *testing.T) {
	svc, repo, maker := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "alice@example.com", "secret123"))
	before := time.Now()

	result, err := svc.Login(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)
	require.NotNil(t, result.User)
	assert.Equal(t, "alice", result.User.Username)
	assert.Equal(t, models.RoleUser, result.User.Role)

	claims, err := maker.ParseToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID.Hex(), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, models.RoleUser, claims.Role)

	stored, err := repo.GetUserByID(ctx, result.User.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLogin)
	assert.False(t, stored.LastLogin.Before(before), "login must bump lastLogin")
}

func TestAuthService_LoginFailures(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "alice@example.com", "secret123"))

	_, err := svc.Login(ctx, "alice@example.com", "wrong_password")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	stored, err := repo.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	_, err = repo.SetBlocked(ctx, stored.ID, true)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice@example.com", "secret123")
	assert.ErrorIs(t, err, models.ErrAccountBlocked)
}

func TestAuthService_UpdateCredentials(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "alice", "alice@example.com", "secret123"))
	require.NoError(t, svc.Register(ctx, "bob", "bob@example.com", "secret123"))

	alice, err := repo.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)

	// Taking bob's username is a conflict.
	_, err = svc.UpdateCredentials(ctx, alice.ID, "bob", "")
	assert.ErrorIs(t, err, models.ErrUserConflict)

	// Renaming to something free works; keeping your own values is not a
	// conflict with yourself.
	updated, err := svc.UpdateCredentials(ctx, alice.ID, "alice_2", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice_2", updated.Username)
	assert.Equal(t, "alice@example.com", updated.Email)
}
