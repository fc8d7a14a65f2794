package repositories

import (
	"context"

	"github.com/google/uuid"
	"plate-plan.backend/internal/domain/entities"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	MarkVerified(ctx context.Context, id uuid.UUID) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// EmailVerificationRepository defines email verification operations
type EmailVerificationRepository interface {
	// Upsert replaces any pending verification for the user with a fresh token
	Upsert(ctx context.Context, userID uuid.UUID, token string) error
	GetUserByToken(ctx context.Context, token string) (*entities.User, error)
	Consume(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// RefreshTokenRepository defines refresh token operations
type RefreshTokenRepository interface {
	// Replace removes the user's previous token and stores the new one
	Replace(ctx context.Context, token *entities.RefreshToken) error
	GetValid(ctx context.Context, token string) (*entities.RefreshToken, error)
	Invalidate(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
}
