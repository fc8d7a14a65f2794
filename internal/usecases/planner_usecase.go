package usecases

import (
	"context"

	"github.com/google/uuid"
	domainerrors "plate-plan.backend/internal/domain/errors"
	"plate-plan.backend/internal/domain/repositories"
	"plate-plan.backend/internal/infrastructure/tasks"
)

type taskQueue interface {
	Enqueue(ctx context.Context, kind tasks.Kind, profileID uuid.UUID) (string, error)
	GetStatus(ctx context.Context, taskID string) (*tasks.Status, error)
}

// PlannerUsecase triggers background planning tasks and reports their state
type PlannerUsecase struct {
	profileRepo repositories.ProfileRepository
	queue       taskQueue
}

// NewPlannerUsecase creates a new planner usecase
func NewPlannerUsecase(profileRepo repositories.ProfileRepository, queue taskQueue) *PlannerUsecase {
	return &PlannerUsecase{profileRepo: profileRepo, queue: queue}
}

// TriggerMealPlan enqueues meal-plan generation for the caller's profile.
// Callers may only trigger their own profile.
func (u *PlannerUsecase) TriggerMealPlan(ctx context.Context, userID, profileID uuid.UUID) (string, error) {
	if err := u.checkOwnership(ctx, userID, profileID); err != nil {
		return "", err
	}
	return u.queue.Enqueue(ctx, tasks.KindMealPlan, profileID)
}

// TriggerScrape enqueues the nearby-store scrape for the caller's profile
func (u *PlannerUsecase) TriggerScrape(ctx context.Context, userID, profileID uuid.UUID) (string, error) {
	if err := u.checkOwnership(ctx, userID, profileID); err != nil {
		return "", err
	}
	return u.queue.Enqueue(ctx, tasks.KindStoreScrape, profileID)
}

// GetTask reads the state mirror for a task id
func (u *PlannerUsecase) GetTask(ctx context.Context, taskID string) (*tasks.Status, error) {
	return u.queue.GetStatus(ctx, taskID)
}

func (u *PlannerUsecase) checkOwnership(ctx context.Context, userID, profileID uuid.UUID) error {
	profile, err := u.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return err
	}
	if profile.UserID != userID {
		return domainerrors.Forbidden("profile does not belong to the authenticated user")
	}
	return nil
}
