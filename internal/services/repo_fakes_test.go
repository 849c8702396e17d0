package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/chartsheet/server/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeUserRepo is an in-memory models.UserRepo for service tests.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*models.User{}}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	return &c
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if err := user.BeforeCreate(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return cloneUser(u), nil
}

func (f *fakeUserRepo) FindCredentialConflict(ctx context.Context, email, username string, exclude primitive.ObjectID) (*models.User, error) {
	if email == "" && username == "" {
		return nil, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == exclude {
			continue
		}
		if (email != "" && u.Email == email) || (username != "" && u.Username == username) {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) UpdateUserFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "username":
			u.Username = value.(string)
		case "email":
			u.Email = value.(string)
		case "name":
			u.Name = value.(string)
		case "bio":
			u.Bio = value.(string)
		case "phone":
			u.Phone = value.(string)
		case "profilePic":
			u.ProfilePic = value.(string)
		case "role":
			u.Role = value.(string)
		case "isBlocked":
			u.IsBlocked = value.(bool)
		}
	}
	return cloneUser(u), nil
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, id primitive.ObjectID, when time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return models.ErrNotFound
	}
	u.LastLogin = &when
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return models.ErrNotFound
	}
	u.Password = hash
	return nil
}

func (f *fakeUserRepo) MergePreferences(ctx context.Context, id primitive.ObjectID, patch models.PreferencesPatch) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if patch.Theme != nil {
		u.Preferences.Theme = *patch.Theme
	}
	if patch.EmailNotifications != nil {
		u.Preferences.EmailNotifications = *patch.EmailNotifications
	}
	if patch.AppNotifications != nil {
		u.Preferences.AppNotifications = *patch.AppNotifications
	}
	return cloneUser(u), nil
}

func (f *fakeUserRepo) ListUsers(ctx context.Context) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := make([]*models.User, 0, len(f.users))
	for _, u := range f.users {
		users = append(users, cloneUser(u))
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (f *fakeUserRepo) UserStats(ctx context.Context) (*models.UserStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	stats := &models.UserStats{}
	for _, u := range f.users {
		stats.TotalUsers++
		if u.IsBlocked {
			stats.BlockedUsers++
		} else {
			stats.ActiveUsers++
		}
		if u.Role == models.RoleAdmin {
			stats.AdminUsers++
		}
		if !u.CreatedAt.Before(now.AddDate(0, 0, -30)) {
			stats.RecentRegistrations++
		}
		if u.LastLogin != nil && !u.LastLogin.Before(now.Add(-24*time.Hour)) {
			stats.RecentlyActive++
		}
	}
	return stats, nil
}

func (f *fakeUserRepo) SetBlocked(ctx context.Context, id primitive.ObjectID, blocked bool) (*models.User, error) {
	return f.UpdateUserFields(ctx, id, map[string]interface{}{"isBlocked": blocked})
}

func (f *fakeUserRepo) SetRole(ctx context.Context, id primitive.ObjectID, role string) (*models.User, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, models.ErrInvalidRole
	}
	return f.UpdateUserFields(ctx, id, map[string]interface{}{"role": role})
}

func (f *fakeUserRepo) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

// fakeUploadRepo is an in-memory models.UploadRepo. Insertion order breaks
// ties between uploads with the same date.
type fakeUploadRepo struct {
	mu      sync.Mutex
	uploads []*models.Upload
}

func newFakeUploadRepo() *fakeUploadRepo {
	return &fakeUploadRepo{}
}

func cloneUpload(u *models.Upload) *models.Upload {
	c := *u
	return &c
}

func (f *fakeUploadRepo) CreateUpload(ctx context.Context, upload *models.Upload) (*models.Upload, error) {
	if err := models.Validate.Struct(upload); err != nil {
		return nil, err
	}
	if err := upload.BeforeCreate(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, cloneUpload(upload))
	return cloneUpload(upload), nil
}

func (f *fakeUploadRepo) ListUploadsByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Upload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	type indexed struct {
		upload *models.Upload
		pos    int
	}
	var owned []indexed
	for i, u := range f.uploads {
		if u.User == userID {
			owned = append(owned, indexed{cloneUpload(u), i})
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		if owned[i].upload.Date.Equal(owned[j].upload.Date) {
			return owned[i].pos > owned[j].pos
		}
		return owned[i].upload.Date.After(owned[j].upload.Date)
	})
	result := make([]*models.Upload, len(owned))
	for i, o := range owned {
		result[i] = o.upload
	}
	return result, nil
}

func (f *fakeUploadRepo) GetUploadByID(ctx context.Context, id primitive.ObjectID) (*models.Upload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.uploads {
		if u.ID == id {
			return cloneUpload(u), nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeUploadRepo) DeleteOwnedUpload(ctx context.Context, id, userID primitive.ObjectID) (*models.Upload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, u := range f.uploads {
		if u.ID == id && u.User == userID {
			deleted := cloneUpload(u)
			f.uploads = append(f.uploads[:i], f.uploads[i+1:]...)
			return deleted, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeUploadRepo) CountUploadsByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, u := range f.uploads {
		if u.User == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeUploadRepo) LatestUploadByUser(ctx context.Context, userID primitive.ObjectID) (*models.Upload, error) {
	owned, err := f.ListUploadsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(owned) == 0 {
		return nil, models.ErrNotFound
	}
	return owned[0], nil
}
