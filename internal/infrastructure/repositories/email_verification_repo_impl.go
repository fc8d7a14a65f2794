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

// VerificationTTL is how long a verification token stays usable
const VerificationTTL = 24 * time.Hour

// EmailVerificationRepository implements email verification operations
type EmailVerificationRepository struct {
	db *gorm.DB
}

// NewEmailVerificationRepository creates a new email verification repository
func NewEmailVerificationRepository(db *gorm.DB) *EmailVerificationRepository {
	return &EmailVerificationRepository{db: db}
}

// Upsert replaces any pending verification row for the user with a fresh token
func (r *EmailVerificationRepository) Upsert(ctx context.Context, userID uuid.UUID, token string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.EmailVerification{}).Error; err != nil {
			return err
		}
		m := &models.EmailVerification{
			ID:        uuid.New(),
			UserID:    userID,
			Token:     token,
			ExpiresAt: time.Now().Add(VerificationTTL),
			CreatedAt: time.Now(),
		}
		return tx.Create(m).Error
	})
}

// GetUserByToken gets the user owning an unconsumed, unexpired verification token
func (r *EmailVerificationRepository) GetUserByToken(ctx context.Context, token string) (*entities.User, error) {
	var m models.User

	err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN email_verifications ev ON ev.user_id = users.id").
		Where("ev.token = ? AND ev.expires_at > ? AND ev.verified_at IS NULL", token, time.Now()).
		First(&m).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return userToEntity(&m), nil
}

// Consume marks a verification token as used. Consuming an already-used
// token reports ErrNotFound; callers decide whether that is an error.
func (r *EmailVerificationRepository) Consume(ctx context.Context, token string) error {
	result := r.db.WithContext(ctx).
		Model(&models.EmailVerification{}).
		Where("token = ? AND verified_at IS NULL", token).
		Update("verified_at", time.Now())

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// DeleteExpired removes unconsumed verifications past their expiry
func (r *EmailVerificationRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ? AND verified_at IS NULL", time.Now()).
		Delete(&models.EmailVerification{})
	return result.RowsAffected, result.Error
}
