package usecases

import (
	"context"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"plate-plan.backend/internal/domain/entities"
	"plate-plan.backend/internal/domain/repositories"
)

// ProfileUsecase handles dietary profile business logic
type ProfileUsecase struct {
	profileRepo repositories.ProfileRepository
}

// NewProfileUsecase creates a new profile usecase
func NewProfileUsecase(profileRepo repositories.ProfileRepository) *ProfileUsecase {
	return &ProfileUsecase{profileRepo: profileRepo}
}

// GetByUserID returns the caller's profile
func (u *ProfileUsecase) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Profile, error) {
	return u.profileRepo.GetByUserID(ctx, userID)
}

// Update applies partial profile changes. Absent fields are left untouched.
func (u *ProfileUsecase) Update(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.Profile, error) {
	profile, err := u.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Bio != nil {
		profile.Bio = *input.Bio
	}
	if input.Preferences != nil {
		profile.Preferences = input.Preferences
	}
	if input.DietaryRestrictions != nil {
		profile.DietaryRestrictions = input.DietaryRestrictions
	}
	if input.WeeklyBudget != nil {
		profile.WeeklyBudget = null.Float64From(*input.WeeklyBudget)
	}
	if input.PreferredStoreID != nil {
		profile.PreferredStoreID = null.StringFrom(*input.PreferredStoreID)
	}

	if err := u.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return u.profileRepo.GetByUserID(ctx, userID)
}

// UpdateLocation stores the caller's location string and optional coordinates
func (u *ProfileUsecase) UpdateLocation(ctx context.Context, userID uuid.UUID, input *entities.UpdateLocationInput) (*entities.Profile, error) {
	profile, err := u.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := u.profileRepo.UpdateLocation(ctx, profile.ID, input.Location, input.Latitude, input.Longitude); err != nil {
		return nil, err
	}
	return u.profileRepo.GetByUserID(ctx, userID)
}
