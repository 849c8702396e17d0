package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserBeforeCreateDefaults(t *testing.T) {
	u := &User{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, u.BeforeCreate())

	assert.False(t, u.ID.IsZero())
	assert.Equal(t, RoleUser, u.Role)
	assert.Equal(t, DefaultProfilePic, u.ProfilePic)
	assert.Equal(t, ThemeDark, u.Preferences.Theme)
	assert.True(t, u.Preferences.EmailNotifications)
	assert.True(t, u.Preferences.AppNotifications)
	assert.False(t, u.CreatedAt.IsZero())
}

func TestUserBeforeCreateKeepsExplicitValues(t *testing.T) {
	id := primitive.NewObjectID()
	u := &User{
		ID:          id,
		Username:    "root",
		Email:       "root@example.com",
		Role:        RoleAdmin,
		ProfilePic:  "https://example.com/pic.png",
		Preferences: Preferences{Theme: ThemeLight},
	}
	require.NoError(t, u.BeforeCreate())

	assert.Equal(t, id, u.ID)
	assert.Equal(t, RoleAdmin, u.Role)
	assert.Equal(t, "https://example.com/pic.png", u.ProfilePic)
	assert.Equal(t, ThemeLight, u.Preferences.Theme)
}

func TestUserPublicProjection(t *testing.T) {
	u := &User{
		ID:       primitive.NewObjectID(),
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hash",
		Name:     "Alice A.",
		Role:     RoleUser,
	}

	public := u.Public()
	assert.Equal(t, u.ID, public.ID)
	assert.Equal(t, "alice", public.Username)
	assert.Equal(t, "Alice A.", public.Name)
	assert.Equal(t, RoleUser, public.Role)
}

func TestUploadBeforeCreateDefaults(t *testing.T) {
	u := &Upload{User: primitive.NewObjectID(), OriginalName: "sales.csv"}
	require.NoError(t, u.BeforeCreate())

	assert.False(t, u.ID.IsZero())
	assert.Equal(t, DefaultChartType, u.ChartType)
	assert.NotNil(t, u.Labels)
	assert.NotNil(t, u.Data)
	assert.False(t, u.Date.IsZero())
}
