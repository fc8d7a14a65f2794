package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"plate-plan.backend/internal/domain/entities"
	domainerrors "plate-plan.backend/internal/domain/errors"
	"plate-plan.backend/pkg/jwt"
)

type userRepoStub struct {
	users map[uuid.UUID]*entities.User
}

func (s *userRepoStub) Create(_ context.Context, _ *entities.User) error { return nil }

func (s *userRepoStub) GetByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, domainerrors.ErrNotFound
}

func (s *userRepoStub) GetByUsername(_ context.Context, _ string) (*entities.User, error) {
	return nil, domainerrors.ErrNotFound
}

func (s *userRepoStub) GetByEmail(_ context.Context, _ string) (*entities.User, error) {
	return nil, domainerrors.ErrNotFound
}

func (s *userRepoStub) MarkVerified(_ context.Context, _ uuid.UUID) error { return nil }
func (s *userRepoStub) SoftDelete(_ context.Context, _ uuid.UUID) error   { return nil }

func newVerifiedEmailRouter(t *testing.T, repo *userRepoStub, jwtService *jwt.JWTService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/trigger", AuthMiddleware(jwtService), RequireVerifiedEmail(repo), func(c *gin.Context) {
		c.JSON(http.StatusAccepted, gin.H{"ok": true})
	})
	return r
}

func TestRequireVerifiedEmail_Verified(t *testing.T) {
	jwtService := jwt.NewJWTService("secret", time.Minute)
	user := &entities.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com", IsVerified: true}
	repo := &userRepoStub{users: map[uuid.UUID]*entities.User{user.ID: user}}

	token, err := jwtService.GenerateAccessToken(user.ID, user.Username, user.Email)
	require.NoError(t, err)

	r := newVerifiedEmailRouter(t, repo, jwtService)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/trigger", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestRequireVerifiedEmail_Unverified(t *testing.T) {
	jwtService := jwt.NewJWTService("secret", time.Minute)
	user := &entities.User{ID: uuid.New(), Username: "bob", Email: "bob@example.com", IsVerified: false}
	repo := &userRepoStub{users: map[uuid.UUID]*entities.User{user.ID: user}}

	token, err := jwtService.GenerateAccessToken(user.ID, user.Username, user.Email)
	require.NoError(t, err)

	r := newVerifiedEmailRouter(t, repo, jwtService)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/trigger", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "verification")
}

func TestRequireVerifiedEmail_UnknownUser(t *testing.T) {
	jwtService := jwt.NewJWTService("secret", time.Minute)
	repo := &userRepoStub{users: map[uuid.UUID]*entities.User{}}

	token, err := jwtService.GenerateAccessToken(uuid.New(), "ghost", "ghost@example.com")
	require.NoError(t, err)

	r := newVerifiedEmailRouter(t, repo, jwtService)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/trigger", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
