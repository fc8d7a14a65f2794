package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	domainerrors "plate-plan.backend/internal/domain/errors"
	"plate-plan.backend/internal/infrastructure/tasks"
	"plate-plan.backend/internal/interfaces/http/middleware"
	"plate-plan.backend/internal/interfaces/http/response"
)

// PlannerService is the usecase surface the planner handler depends on
type PlannerService interface {
	TriggerMealPlan(ctx context.Context, userID, profileID uuid.UUID) (string, error)
	TriggerScrape(ctx context.Context, userID, profileID uuid.UUID) (string, error)
	GetTask(ctx context.Context, taskID string) (*tasks.Status, error)
}

// PlannerHandler handles background task trigger and polling endpoints
type PlannerHandler struct {
	plannerUsecase PlannerService
}

// NewPlannerHandler creates a new planner handler
func NewPlannerHandler(plannerUsecase PlannerService) *PlannerHandler {
	return &PlannerHandler{
		plannerUsecase: plannerUsecase,
	}
}

// TriggerMealPlan enqueues meal-plan generation for a profile
// POST /api/v1/profiles/:id/trigger-meal-plan
func (h *PlannerHandler) TriggerMealPlan(c *gin.Context) {
	userID, profileID, ok := h.callerAndProfile(c)
	if !ok {
		return
	}

	taskID, err := h.plannerUsecase.TriggerMealPlan(c.Request.Context(), userID, profileID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{
		"message": "Meal plan generation started",
		"task_id": taskID,
	})
}

// TriggerScrape enqueues the nearby-store scrape for a profile
// POST /api/v1/profiles/:id/trigger-scrape
func (h *PlannerHandler) TriggerScrape(c *gin.Context) {
	userID, profileID, ok := h.callerAndProfile(c)
	if !ok {
		return
	}

	taskID, err := h.plannerUsecase.TriggerScrape(c.Request.Context(), userID, profileID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{
		"message": "Store scrape started",
		"task_id": taskID,
	})
}

// GetTask polls the state of a background task
// GET /api/v1/tasks/:id
func (h *PlannerHandler) GetTask(c *gin.Context) {
	status, err := h.plannerUsecase.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, status)
}

func (h *PlannerHandler) callerAndProfile(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.ErrUnauthorized)
		return uuid.Nil, uuid.Nil, false
	}

	profileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid profile id"))
		return uuid.Nil, uuid.Nil, false
	}

	return userID, profileID, true
}
