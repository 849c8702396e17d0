package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chartsheet/server/internal/helpers"
	"github.com/chartsheet/server/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubFetcher struct {
	users map[primitive.ObjectID]*models.User
}

func (s *stubFetcher) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return u, nil
}

func authTestRouter(maker *helpers.TokenMaker) *gin.Engine {
	r := gin.New()
	r.GET("/protected", Auth(maker), func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "claims missing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": claims.UserID, "role": claims.Role})
	})
	return r
}

func TestAuth(t *testing.T) {
	maker := helpers.NewTokenMaker("test_secret_key", helpers.SessionTTL)
	router := authTestRouter(maker)

	userID := primitive.NewObjectID()
	token, err := maker.GenerateToken(userID.Hex(), "alice", models.RoleUser)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing header",
			header:     "",
			wantStatus: http.StatusUnauthorized,
			wantBody:   "No token, authorization denied",
		},
		{
			name:       "garbage token",
			header:     "Bearer not.a.jwt",
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Token is not valid",
		},
		{
			name:       "wrong secret",
			header:     "Bearer " + mustToken(t, "other_secret", userID.Hex()),
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Token is not valid",
		},
		{
			name:       "valid token",
			header:     "Bearer " + token,
			wantStatus: http.StatusOK,
			wantBody:   userID.Hex(),
		},
		{
			name:       "valid token without bearer prefix",
			header:     token,
			wantStatus: http.StatusOK,
			wantBody:   userID.Hex(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func mustToken(t *testing.T, secret, userID string) string {
	t.Helper()
	token, err := helpers.NewTokenMaker(secret, helpers.SessionTTL).GenerateToken(userID, "alice", models.RoleUser)
	require.NoError(t, err)
	return token
}

func TestRequireAdmin(t *testing.T) {
	maker := helpers.NewTokenMaker("test_secret_key", helpers.SessionTTL)

	adminID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	fetcher := &stubFetcher{users: map[primitive.ObjectID]*models.User{
		adminID: {ID: adminID, Username: "root", Role: models.RoleAdmin},
		userID:  {ID: userID, Username: "alice", Role: models.RoleUser},
	}}

	r := gin.New()
	r.GET("/admin", Auth(maker), RequireAdmin(fetcher, discardLogger()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	call := func(id primitive.ObjectID, role string) *httptest.ResponseRecorder {
		token, err := maker.GenerateToken(id.Hex(), "x", role)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("admin passes", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, call(adminID, models.RoleAdmin).Code)
	})

	t.Run("regular user rejected", func(t *testing.T) {
		w := call(userID, models.RoleUser)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "Admin privileges required")
	})

	t.Run("token role is not trusted", func(t *testing.T) {
		// Token claims admin, but the stored record says user.
		w := call(userID, models.RoleAdmin)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("demotion takes effect on the same token", func(t *testing.T) {
		token, err := maker.GenerateToken(adminID.Hex(), "root", models.RoleAdmin)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		fetcher.users[adminID].Role = models.RoleUser

		req = httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("deleted user rejected", func(t *testing.T) {
		w := call(primitive.NewObjectID(), models.RoleAdmin)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestCurrentUserID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := CurrentUserID(c)
	assert.False(t, ok)

	id := primitive.NewObjectID()
	c.Set(ClaimsKey, &helpers.SessionClaims{UserID: id.Hex()})
	got, ok := CurrentUserID(c)
	assert.True(t, ok)
	assert.Equal(t, id, got)

	c.Set(ClaimsKey, &helpers.SessionClaims{UserID: "not-hex"})
	_, ok = CurrentUserID(c)
	assert.False(t, ok)
}
