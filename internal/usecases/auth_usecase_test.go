package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"plate-plan.backend/internal/domain/entities"
	domainerrors "plate-plan.backend/internal/domain/errors"
	"plate-plan.backend/pkg/crypto"
	"plate-plan.backend/pkg/jwt"
	"plate-plan.backend/pkg/logger"
)

func newAuthUsecase(
	users *mockUserRepo,
	verifs *mockEmailVerifRepo,
	refresh *mockRefreshRepo,
	profiles *mockProfileRepo,
	mailer *mockMailer,
) *AuthUsecase {
	jwtService := jwt.NewJWTService("test-secret", 15*time.Minute)
	return NewAuthUsecase(users, verifs, refresh, profiles, jwtService, mailer, 30*24*time.Hour)
}

func TestRegister_Success(t *testing.T) {
	logger.Init("test")
	users := new(mockUserRepo)
	verifs := new(mockEmailVerifRepo)
	profiles := new(mockProfileRepo)
	mailer := new(mockMailer)

	users.On("GetByUsername", mock.Anything, "alice").Return(nil, domainerrors.ErrNotFound)
	users.On("GetByEmail", mock.Anything, "alice@example.com").Return(nil, domainerrors.ErrNotFound)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *entities.User) bool {
		return u.Username == "alice" && u.Email == "alice@example.com" && !u.IsVerified && u.PasswordHash != "secret-password"
	})).Return(nil)
	profiles.On("Create", mock.Anything, mock.MatchedBy(func(p *entities.Profile) bool {
		return p.Status == entities.StatusPending
	})).Return(nil)
	verifs.On("Upsert", mock.Anything, mock.Anything, mock.MatchedBy(func(token string) bool {
		return len(token) == 32
	})).Return(nil)
	mailer.On("SendVerificationEmail", "alice@example.com", "alice", mock.Anything).Return(nil)

	uc := newAuthUsecase(users, verifs, new(mockRefreshRepo), profiles, mailer)
	user, err := uc.Register(context.Background(), &entities.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret-password",
	})

	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	users.AssertExpectations(t)
	verifs.AssertExpectations(t)
	profiles.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	logger.Init("test")
	users := new(mockUserRepo)
	users.On("GetByUsername", mock.Anything, "alice").Return(&entities.User{Username: "alice"}, nil)

	uc := newAuthUsecase(users, new(mockEmailVerifRepo), new(mockRefreshRepo), new(mockProfileRepo), new(mockMailer))
	_, err := uc.Register(context.Background(), &entities.RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "secret-password",
	})

	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	logger.Init("test")
	users := new(mockUserRepo)
	users.On("GetByUsername", mock.Anything, "alice").Return(nil, domainerrors.ErrNotFound)
	users.On("GetByEmail", mock.Anything, "alice@example.com").Return(&entities.User{Email: "alice@example.com"}, nil)

	uc := newAuthUsecase(users, new(mockEmailVerifRepo), new(mockRefreshRepo), new(mockProfileRepo), new(mockMailer))
	_, err := uc.Register(context.Background(), &entities.RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "secret-password",
	})

	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestRegister_MailFailureDoesNotFail(t *testing.T) {
	logger.Init("test")
	users := new(mockUserRepo)
	verifs := new(mockEmailVerifRepo)
	profiles := new(mockProfileRepo)
	mailer := new(mockMailer)

	users.On("GetByUsername", mock.Anything, mock.Anything).Return(nil, domainerrors.ErrNotFound)
	users.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, domainerrors.ErrNotFound)
	users.On("Create", mock.Anything, mock.Anything).Return(nil)
	profiles.On("Create", mock.Anything, mock.Anything).Return(nil)
	verifs.On("Upsert", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	mailer.On("SendVerificationEmail", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	uc := newAuthUsecase(users, verifs, new(mockRefreshRepo), profiles, mailer)
	_, err := uc.Register(context.Background(), &entities.RegisterInput{
		Username: "bob", Email: "bob@example.com", Password: "secret-password",
	})

	require.NoError(t, err)
}

func TestLogin_Success(t *testing.T) {
	hash, err := crypto.HashPassword("secret-password")
	require.NoError(t, err)

	user := &entities.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com", PasswordHash: hash}

	users := new(mockUserRepo)
	refresh := new(mockRefreshRepo)
	users.On("GetByUsername", mock.Anything, "alice").Return(user, nil)
	refresh.On("Replace", mock.Anything, mock.MatchedBy(func(rt *entities.RefreshToken) bool {
		return rt.UserID == user.ID && rt.IsValid && rt.Token != "" &&
			time.Until(rt.ExpiresAt) > 29*24*time.Hour
	})).Return(nil)

	uc := newAuthUsecase(users, new(mockEmailVerifRepo), refresh, new(mockProfileRepo), new(mockMailer))
	resp, err := uc.Login(context.Background(), &entities.LoginInput{Username: "alice", Password: "secret-password"})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, user.ID, resp.User.ID)
	refresh.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := crypto.HashPassword("secret-password")
	require.NoError(t, err)

	users := new(mockUserRepo)
	users.On("GetByUsername", mock.Anything, "alice").Return(&entities.User{Username: "alice", PasswordHash: hash}, nil)

	uc := newAuthUsecase(users, new(mockEmailVerifRepo), new(mockRefreshRepo), new(mockProfileRepo), new(mockMailer))
	_, err = uc.Login(context.Background(), &entities.LoginInput{Username: "alice", Password: "wrong"})

	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	users := new(mockUserRepo)
	users.On("GetByUsername", mock.Anything, "ghost").Return(nil, domainerrors.ErrNotFound)

	uc := newAuthUsecase(users, new(mockEmailVerifRepo), new(mockRefreshRepo), new(mockProfileRepo), new(mockMailer))
	_, err := uc.Login(context.Background(), &entities.LoginInput{Username: "ghost", Password: "whatever"})

	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestRefresh_RotatesToken(t *testing.T) {
	user := &entities.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}
	stored := &entities.RefreshToken{
		ID: uuid.New(), UserID: user.ID, Token: "old-token",
		ExpiresAt: time.Now().Add(time.Hour), IsValid: true,
	}

	users := new(mockUserRepo)
	refresh := new(mockRefreshRepo)
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	refresh.On("GetValid", mock.Anything, "old-token").Return(stored, nil)
	refresh.On("Replace", mock.Anything, mock.MatchedBy(func(rt *entities.RefreshToken) bool {
		return rt.Token != "old-token" && rt.UserID == user.ID
	})).Return(nil)

	uc := newAuthUsecase(users, new(mockEmailVerifRepo), refresh, new(mockProfileRepo), new(mockMailer))
	resp, err := uc.Refresh(context.Background(), "old-token")

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEqual(t, "old-token", resp.RefreshToken)
	refresh.AssertExpectations(t)
}

func TestRefresh_ExpiredToken(t *testing.T) {
	stored := &entities.RefreshToken{
		ID: uuid.New(), UserID: uuid.New(), Token: "old-token",
		ExpiresAt: time.Now().Add(-time.Hour), IsValid: true,
	}

	refresh := new(mockRefreshRepo)
	refresh.On("GetValid", mock.Anything, "old-token").Return(stored, nil)

	uc := newAuthUsecase(new(mockUserRepo), new(mockEmailVerifRepo), refresh, new(mockProfileRepo), new(mockMailer))
	_, err := uc.Refresh(context.Background(), "old-token")

	assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)
}

func TestRefresh_UnknownToken(t *testing.T) {
	refresh := new(mockRefreshRepo)
	refresh.On("GetValid", mock.Anything, "missing").Return(nil, domainerrors.ErrNotFound)

	uc := newAuthUsecase(new(mockUserRepo), new(mockEmailVerifRepo), refresh, new(mockProfileRepo), new(mockMailer))
	_, err := uc.Refresh(context.Background(), "missing")

	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestVerifyEmail_Success(t *testing.T) {
	user := &entities.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}

	users := new(mockUserRepo)
	verifs := new(mockEmailVerifRepo)
	verifs.On("GetUserByToken", mock.Anything, "tok").Return(user, nil)
	users.On("MarkVerified", mock.Anything, user.ID).Return(nil)
	verifs.On("Consume", mock.Anything, "tok").Return(nil)

	uc := newAuthUsecase(users, verifs, new(mockRefreshRepo), new(mockProfileRepo), new(mockMailer))
	err := uc.VerifyEmail(context.Background(), "tok")

	require.NoError(t, err)
	users.AssertExpectations(t)
	verifs.AssertExpectations(t)
}

func TestVerifyEmail_AlreadyVerified(t *testing.T) {
	user := &entities.User{ID: uuid.New(), IsVerified: true}

	users := new(mockUserRepo)
	verifs := new(mockEmailVerifRepo)
	verifs.On("GetUserByToken", mock.Anything, "tok").Return(user, nil)
	verifs.On("Consume", mock.Anything, "tok").Return(nil)

	uc := newAuthUsecase(users, verifs, new(mockRefreshRepo), new(mockProfileRepo), new(mockMailer))
	err := uc.VerifyEmail(context.Background(), "tok")

	require.NoError(t, err)
	users.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything)
}

func TestVerifyEmail_InvalidToken(t *testing.T) {
	verifs := new(mockEmailVerifRepo)
	verifs.On("GetUserByToken", mock.Anything, "bogus").Return(nil, domainerrors.ErrNotFound)

	uc := newAuthUsecase(new(mockUserRepo), verifs, new(mockRefreshRepo), new(mockProfileRepo), new(mockMailer))
	err := uc.VerifyEmail(context.Background(), "bogus")

	require.Error(t, err)
	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Status)
}

func TestResendVerification_AlreadyVerifiedNoOp(t *testing.T) {
	user := &entities.User{ID: uuid.New(), IsVerified: true}

	users := new(mockUserRepo)
	verifs := new(mockEmailVerifRepo)
	mailer := new(mockMailer)
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	uc := newAuthUsecase(users, verifs, new(mockRefreshRepo), new(mockProfileRepo), mailer)
	err := uc.ResendVerification(context.Background(), user.ID)

	require.NoError(t, err)
	verifs.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	mailer.AssertNotCalled(t, "SendVerificationEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestResendVerification_IssuesFreshToken(t *testing.T) {
	user := &entities.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}

	users := new(mockUserRepo)
	verifs := new(mockEmailVerifRepo)
	mailer := new(mockMailer)
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	verifs.On("Upsert", mock.Anything, user.ID, mock.Anything).Return(nil)
	mailer.On("SendVerificationEmail", user.Email, user.Username, mock.Anything).Return(nil)

	uc := newAuthUsecase(users, verifs, new(mockRefreshRepo), new(mockProfileRepo), mailer)
	err := uc.ResendVerification(context.Background(), user.ID)

	require.NoError(t, err)
	verifs.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestVerificationStatus(t *testing.T) {
	user := &entities.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com", IsVerified: true}

	users := new(mockUserRepo)
	users.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	uc := newAuthUsecase(users, new(mockEmailVerifRepo), new(mockRefreshRepo), new(mockProfileRepo), new(mockMailer))
	status, err := uc.VerificationStatus(context.Background(), user.ID)

	require.NoError(t, err)
	assert.True(t, status.IsVerified)
	assert.Equal(t, "alice@example.com", status.Email)
	assert.Equal(t, "alice", status.Username)
}

func TestLogout(t *testing.T) {
	userID := uuid.New()
	refresh := new(mockRefreshRepo)
	refresh.On("Invalidate", mock.Anything, userID).Return(nil)

	uc := newAuthUsecase(new(mockUserRepo), new(mockEmailVerifRepo), refresh, new(mockProfileRepo), new(mockMailer))
	err := uc.Logout(context.Background(), userID)

	require.NoError(t, err)
	refresh.AssertExpectations(t)
}
