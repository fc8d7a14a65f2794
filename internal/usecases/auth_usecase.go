package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"plate-plan.backend/internal/domain/entities"
	domainerrors "plate-plan.backend/internal/domain/errors"
	"plate-plan.backend/internal/domain/repositories"
	"plate-plan.backend/pkg/crypto"
	"plate-plan.backend/pkg/jwt"
	"plate-plan.backend/pkg/logger"
	"plate-plan.backend/pkg/mail"
)

// AuthUsecase handles authentication business logic
type AuthUsecase struct {
	userRepo       repositories.UserRepository
	emailVerifRepo repositories.EmailVerificationRepository
	refreshRepo    repositories.RefreshTokenRepository
	profileRepo    repositories.ProfileRepository
	jwtService     *jwt.JWTService
	mailer         mail.Sender
	refreshExpiry  time.Duration
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	emailVerifRepo repositories.EmailVerificationRepository,
	refreshRepo repositories.RefreshTokenRepository,
	profileRepo repositories.ProfileRepository,
	jwtService *jwt.JWTService,
	mailer mail.Sender,
	refreshExpiry time.Duration,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:       userRepo,
		emailVerifRepo: emailVerifRepo,
		refreshRepo:    refreshRepo,
		profileRepo:    profileRepo,
		jwtService:     jwtService,
		mailer:         mailer,
		refreshExpiry:  refreshExpiry,
	}
}

// Register creates a user, an empty profile and a verification token.
// The account starts unverified; a verification email is sent but a delivery
// failure does not fail the registration.
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.User, error) {
	// Check if username already taken
	_, err := u.userRepo.GetByUsername(ctx, input.Username)
	if err == nil {
		return nil, domainerrors.Conflict("username already taken")
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	// Check if email already registered
	_, err = u.userRepo.GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, domainerrors.Conflict("email already registered")
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: passwordHash,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	profile := &entities.Profile{
		UserID: user.ID,
		Status: entities.StatusPending,
	}
	if err := u.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}

	token, err := crypto.GenerateVerificationToken()
	if err != nil {
		return nil, err
	}
	if err := u.emailVerifRepo.Upsert(ctx, user.ID, token); err != nil {
		return nil, err
	}

	if err := u.mailer.SendVerificationEmail(user.Email, user.Username, token); err != nil {
		logger.Error(ctx, "Failed to send verification email",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}

	return user, nil
}

// Login authenticates a user and issues an access/refresh token pair.
// The previous refresh token for the user is replaced.
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	user, err := u.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	accessToken, err := u.jwtService.GenerateAccessToken(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, err
	}

	refreshToken := &entities.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     crypto.GenerateRefreshToken(),
		ExpiresAt: time.Now().Add(u.refreshExpiry),
		IsValid:   true,
	}
	if err := u.refreshRepo.Replace(ctx, refreshToken); err != nil {
		return nil, err
	}

	return &entities.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken.Token,
		User:         user,
	}, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
// The refresh token is rotated; the old one stops working.
func (u *AuthUsecase) Refresh(ctx context.Context, token string) (*entities.AuthResponse, error) {
	stored, err := u.refreshRepo.GetValid(ctx, token)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrUnauthorized
		}
		return nil, err
	}
	if stored.Expired(time.Now()) {
		return nil, domainerrors.ErrTokenExpired
	}

	user, err := u.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}

	accessToken, err := u.jwtService.GenerateAccessToken(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, err
	}

	rotated := &entities.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     crypto.GenerateRefreshToken(),
		ExpiresAt: time.Now().Add(u.refreshExpiry),
		IsValid:   true,
	}
	if err := u.refreshRepo.Replace(ctx, rotated); err != nil {
		return nil, err
	}

	return &entities.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: rotated.Token,
		User:         user,
	}, nil
}

// Logout invalidates the user's refresh tokens
func (u *AuthUsecase) Logout(ctx context.Context, userID uuid.UUID) error {
	return u.refreshRepo.Invalidate(ctx, userID)
}

// VerifyEmail marks the token owner's email as verified.
// Verifying an already-verified account succeeds.
func (u *AuthUsecase) VerifyEmail(ctx context.Context, token string) error {
	user, err := u.emailVerifRepo.GetUserByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.BadRequest("invalid or expired verification token")
		}
		return err
	}

	if user.IsVerified {
		// Consume the leftover token so it cannot be replayed
		_ = u.emailVerifRepo.Consume(ctx, token)
		return nil
	}

	if err := u.userRepo.MarkVerified(ctx, user.ID); err != nil {
		return err
	}
	return u.emailVerifRepo.Consume(ctx, token)
}

// ResendVerification issues a fresh token for an unverified account.
// Resending for an already-verified account is a no-op.
func (u *AuthUsecase) ResendVerification(ctx context.Context, userID uuid.UUID) error {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return nil
	}

	token, err := crypto.GenerateVerificationToken()
	if err != nil {
		return err
	}
	if err := u.emailVerifRepo.Upsert(ctx, user.ID, token); err != nil {
		return err
	}

	return u.mailer.SendVerificationEmail(user.Email, user.Username, token)
}

// VerificationStatus reports whether the user's email is verified
func (u *AuthUsecase) VerificationStatus(ctx context.Context, userID uuid.UUID) (*entities.VerificationStatus, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &entities.VerificationStatus{
		IsVerified: user.IsVerified,
		Email:      user.Email,
		Username:   user.Username,
	}, nil
}

// GetUserByID gets a user by ID
func (u *AuthUsecase) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, id)
}
