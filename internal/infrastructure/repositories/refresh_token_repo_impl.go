package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"plate-plan.backend/internal/domain/entities"
	domainerrors "plate-plan.backend/internal/domain/errors"
	"plate-plan.backend/internal/infrastructure/models"
)

// RefreshTokenRepository implements refresh token operations
type RefreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository creates a new refresh token repository
func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

// Replace removes the user's previous token and stores the new one
func (r *RefreshTokenRepository) Replace(ctx context.Context, token *entities.RefreshToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", token.UserID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		m := &models.RefreshToken{
			ID:        token.ID,
			UserID:    token.UserID,
			Token:     token.Token,
			ExpiresAt: token.ExpiresAt,
			IsValid:   token.IsValid,
			CreatedAt: token.CreatedAt,
		}
		return tx.Create(m).Error
	})
}

// GetValid gets a token that is valid and not expired
func (r *RefreshTokenRepository) GetValid(ctx context.Context, token string) (*entities.RefreshToken, error) {
	var m models.RefreshToken
	err := r.db.WithContext(ctx).
		Where("token = ? AND is_valid = ? AND expires_at > ?", token, true, time.Now()).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.RefreshToken{
		ID:        m.ID,
		UserID:    m.UserID,
		Token:     m.Token,
		ExpiresAt: m.ExpiresAt,
		IsValid:   m.IsValid,
		CreatedAt: m.CreatedAt,
	}, nil
}

// Invalidate marks all of a user's refresh tokens invalid
func (r *RefreshTokenRepository) Invalidate(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("user_id = ?", userID).
		Update("is_valid", false).Error
}

// DeleteExpired removes tokens past expiry or marked invalid
func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ? OR is_valid = ?", time.Now(), false).
		Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}
