package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	ThemeLight = "light"
	ThemeDark  = "dark"

	// DefaultProfilePic is the placeholder avatar assigned at registration.
	DefaultProfilePic = "https://static.vecteezy.com/system/resources/thumbnails/027/951/137/small_2x/stylish-spectacles-guy-3d-avatar-character-illustrations-png.png"
)

type Preferences struct {
	Theme              string `bson:"theme" json:"theme"`
	EmailNotifications bool   `bson:"emailNotifications" json:"emailNotifications"`
	AppNotifications   bool   `bson:"appNotifications" json:"appNotifications"`
}

// PreferencesPatch carries a partial preferences update; nil fields are
// left untouched.
type PreferencesPatch struct {
	Theme              *string `json:"theme"`
	EmailNotifications *bool   `json:"emailNotifications"`
	AppNotifications   *bool   `json:"appNotifications"`
}

type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username    string             `bson:"username" json:"username" validate:"required"`
	Email       string             `bson:"email" json:"email" validate:"required,email"`
	Password    string             `bson:"password" json:"-"`
	Name        string             `bson:"name" json:"name"`
	Bio         string             `bson:"bio" json:"bio"`
	Phone       string             `bson:"phone" json:"phone"`
	ProfilePic  string             `bson:"profilePic" json:"profilePic"`
	Role        string             `bson:"role" json:"role" validate:"oneof=user admin"`
	IsBlocked   bool               `bson:"isBlocked" json:"isBlocked"`
	LastLogin   *time.Time         `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	Preferences Preferences        `bson:"preferences" json:"preferences"`
}

func (u *User) BeforeCreate() error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.ProfilePic == "" {
		u.ProfilePic = DefaultProfilePic
	}
	if u.Preferences.Theme == "" {
		u.Preferences = Preferences{
			Theme:              ThemeDark,
			EmailNotifications: true,
			AppNotifications:   true,
		}
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PublicUser is the projection returned on login.
type PublicUser struct {
	ID         primitive.ObjectID `json:"id"`
	Username   string             `json:"username"`
	Email      string             `json:"email"`
	Name       string             `json:"name"`
	ProfilePic string             `json:"profilePic"`
	Role       string             `json:"role"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Name:       u.Name,
		ProfilePic: u.ProfilePic,
		Role:       u.Role,
	}
}

// UserStats aggregates account counts for the admin dashboard.
type UserStats struct {
	TotalUsers          int64 `json:"totalUsers"`
	ActiveUsers         int64 `json:"activeUsers"`
	BlockedUsers        int64 `json:"blockedUsers"`
	AdminUsers          int64 `json:"adminUsers"`
	RecentRegistrations int64 `json:"recentRegistrations"`
	RecentlyActive      int64 `json:"recentlyActive"`
}
