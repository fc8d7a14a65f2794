package usecases

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"plate-plan.backend/internal/domain/entities"
	domainerrors "plate-plan.backend/internal/domain/errors"
	"plate-plan.backend/internal/infrastructure/tasks"
)

func TestTriggerMealPlan_OwnProfile(t *testing.T) {
	userID := uuid.New()
	profileID := uuid.New()

	profiles := new(mockProfileRepo)
	queue := new(mockTaskQueue)
	profiles.On("GetByID", mock.Anything, profileID).Return(&entities.Profile{ID: profileID, UserID: userID}, nil)
	queue.On("Enqueue", mock.Anything, tasks.KindMealPlan, profileID).Return("task-1", nil)

	uc := NewPlannerUsecase(profiles, queue)
	taskID, err := uc.TriggerMealPlan(context.Background(), userID, profileID)

	require.NoError(t, err)
	assert.Equal(t, "task-1", taskID)
	queue.AssertExpectations(t)
}

func TestTriggerMealPlan_ForeignProfile(t *testing.T) {
	profileID := uuid.New()

	profiles := new(mockProfileRepo)
	queue := new(mockTaskQueue)
	profiles.On("GetByID", mock.Anything, profileID).Return(&entities.Profile{ID: profileID, UserID: uuid.New()}, nil)

	uc := NewPlannerUsecase(profiles, queue)
	_, err := uc.TriggerMealPlan(context.Background(), uuid.New(), profileID)

	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything)
}

func TestTriggerMealPlan_ProfileNotFound(t *testing.T) {
	profileID := uuid.New()

	profiles := new(mockProfileRepo)
	profiles.On("GetByID", mock.Anything, profileID).Return(nil, domainerrors.ErrNotFound)

	uc := NewPlannerUsecase(profiles, new(mockTaskQueue))
	_, err := uc.TriggerMealPlan(context.Background(), uuid.New(), profileID)

	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestTriggerScrape_OwnProfile(t *testing.T) {
	userID := uuid.New()
	profileID := uuid.New()

	profiles := new(mockProfileRepo)
	queue := new(mockTaskQueue)
	profiles.On("GetByID", mock.Anything, profileID).Return(&entities.Profile{ID: profileID, UserID: userID}, nil)
	queue.On("Enqueue", mock.Anything, tasks.KindStoreScrape, profileID).Return("task-2", nil)

	uc := NewPlannerUsecase(profiles, queue)
	taskID, err := uc.TriggerScrape(context.Background(), userID, profileID)

	require.NoError(t, err)
	assert.Equal(t, "task-2", taskID)
}

func TestGetTask(t *testing.T) {
	queue := new(mockTaskQueue)
	queue.On("GetStatus", mock.Anything, "task-3").Return(&tasks.Status{TaskID: "task-3", State: tasks.StateSuccess}, nil)

	uc := NewPlannerUsecase(new(mockProfileRepo), queue)
	status, err := uc.GetTask(context.Background(), "task-3")

	require.NoError(t, err)
	assert.Equal(t, tasks.StateSuccess, status.State)
}

func TestGetTask_Unknown(t *testing.T) {
	queue := new(mockTaskQueue)
	queue.On("GetStatus", mock.Anything, "missing").Return(nil, domainerrors.ErrNotFound)

	uc := NewPlannerUsecase(new(mockProfileRepo), queue)
	_, err := uc.GetTask(context.Background(), "missing")

	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
