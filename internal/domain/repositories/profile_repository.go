package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"plate-plan.backend/internal/domain/entities"
)

// ProfileRepository defines profile data operations
type ProfileRepository interface {
	Create(ctx context.Context, profile *entities.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Profile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Profile, error)
	Update(ctx context.Context, profile *entities.Profile) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.ProfileStatus) error
	UpdateLocation(ctx context.Context, id uuid.UUID, location string, lat, lng *float64) error
	// SaveMealPlan writes the plan and marks the profile COMPLETED in one update
	SaveMealPlan(ctx context.Context, id uuid.UUID, plan *entities.MealPlan) error
	// SaveScrapedData writes scrape results and marks the profile COMPLETED in one update
	SaveScrapedData(ctx context.Context, id uuid.UUID, data *entities.ScrapedData) error
	// ResetStaleProcessing marks profiles stuck in PROCESSING since before cutoff as FAILED
	ResetStaleProcessing(ctx context.Context, cutoff time.Time) (int64, error)
}
