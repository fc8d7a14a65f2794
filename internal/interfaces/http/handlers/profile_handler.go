package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"plate-plan.backend/internal/domain/entities"
	domainerrors "plate-plan.backend/internal/domain/errors"
	"plate-plan.backend/internal/interfaces/http/middleware"
	"plate-plan.backend/internal/interfaces/http/response"
)

// ProfileService is the usecase surface the profile handler depends on
type ProfileService interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.Profile, error)
	UpdateLocation(ctx context.Context, userID uuid.UUID, input *entities.UpdateLocationInput) (*entities.Profile, error)
}

// UserGetter loads the user record for the combined profile view
type UserGetter interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
}

// ProfileHandler handles dietary profile endpoints
type ProfileHandler struct {
	profileUsecase ProfileService
	users          UserGetter
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileUsecase ProfileService, users UserGetter) *ProfileHandler {
	return &ProfileHandler{
		profileUsecase: profileUsecase,
		users:          users,
	}
}

// Get returns the caller's user and profile
// GET /api/v1/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.ErrUnauthorized)
		return
	}

	user, err := h.users.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	profile, err := h.profileUsecase.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":    user,
		"profile": profile,
	})
}

// Update applies partial profile changes
// PUT /api/v1/profile
func (h *ProfileHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.ErrUnauthorized)
		return
	}

	var input entities.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	profile, err := h.profileUsecase.Update(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"profile": profile})
}

// UpdateLocation stores the caller's location
// PUT /api/v1/profile/location
func (h *ProfileHandler) UpdateLocation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.ErrUnauthorized)
		return
	}

	var input entities.UpdateLocationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	profile, err := h.profileUsecase.UpdateLocation(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"profile": profile})
}
