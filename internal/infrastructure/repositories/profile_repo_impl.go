package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"plate-plan.backend/internal/domain/entities"
	domainerrors "plate-plan.backend/internal/domain/errors"
	"plate-plan.backend/internal/infrastructure/models"
)

// ProfileRepository implements profile data operations
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create creates a new profile
func (r *ProfileRepository) Create(ctx context.Context, profile *entities.Profile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	if profile.Status == "" {
		profile.Status = entities.StatusPending
	}
	m := &models.Profile{
		ID:                  profile.ID,
		UserID:              profile.UserID,
		Bio:                 profile.Bio,
		Location:            profile.Location,
		Latitude:            profile.Latitude.Ptr(),
		Longitude:           profile.Longitude.Ptr(),
		Preferences:         toJSONMap(profile.Preferences),
		DietaryRestrictions: toJSONMap(profile.DietaryRestrictions),
		WeeklyBudget:        profile.WeeklyBudget.Ptr(),
		PreferredStoreID:    profile.PreferredStoreID.Ptr(),
		Status:              string(profile.Status),
		CreatedAt:           profile.CreatedAt,
		UpdatedAt:           profile.UpdatedAt,
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// GetByID gets a profile by ID
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Profile, error) {
	var m models.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return profileToEntity(&m)
}

// GetByUserID gets the profile owned by a user
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Profile, error) {
	var m models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return profileToEntity(&m)
}

// Update updates the mutable planning fields
func (r *ProfileRepository) Update(ctx context.Context, profile *entities.Profile) error {
	updates := map[string]interface{}{
		"bio":                  profile.Bio,
		"preferences":          toJSONMap(profile.Preferences),
		"dietary_restrictions": toJSONMap(profile.DietaryRestrictions),
		"weekly_budget":        profile.WeeklyBudget.Ptr(),
		"preferred_store_id":   profile.PreferredStoreID.Ptr(),
		"updated_at":           time.Now(),
	}

	result := r.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", profile.ID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// UpdateStatus sets the pipeline status
func (r *ProfileRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.ProfileStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// UpdateLocation sets the location label and optional coordinates
func (r *ProfileRepository) UpdateLocation(ctx context.Context, id uuid.UUID, location string, lat, lng *float64) error {
	updates := map[string]interface{}{
		"location":   location,
		"updated_at": time.Now(),
	}
	if lat != nil {
		updates["latitude"] = *lat
	}
	if lng != nil {
		updates["longitude"] = *lng
	}

	result := r.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// SaveMealPlan writes the generated plan and marks the profile COMPLETED
func (r *ProfileRepository) SaveMealPlan(ctx context.Context, id uuid.UUID, plan *entities.MealPlan) error {
	planMap, err := structToJSONMap(plan)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"meal_plan":  planMap,
			"status":     string(entities.StatusCompleted),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// SaveScrapedData writes scrape results and marks the profile COMPLETED
func (r *ProfileRepository) SaveScrapedData(ctx context.Context, id uuid.UUID, data *entities.ScrapedData) error {
	dataMap, err := structToJSONMap(data)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"scraped_data": dataMap,
			"status":       string(entities.StatusCompleted),
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ResetStaleProcessing marks profiles stuck in PROCESSING since before cutoff as FAILED
func (r *ProfileRepository) ResetStaleProcessing(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("status = ? AND updated_at < ?", string(entities.StatusProcessing), cutoff).
		Updates(map[string]interface{}{
			"status":     string(entities.StatusFailed),
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

func profileToEntity(m *models.Profile) (*entities.Profile, error) {
	p := &entities.Profile{
		ID:                  m.ID,
		UserID:              m.UserID,
		Bio:                 m.Bio,
		Location:            m.Location,
		Latitude:            null.Float64FromPtr(m.Latitude),
		Longitude:           null.Float64FromPtr(m.Longitude),
		Preferences:         map[string]interface{}(m.Preferences),
		DietaryRestrictions: map[string]interface{}(m.DietaryRestrictions),
		WeeklyBudget:        null.Float64FromPtr(m.WeeklyBudget),
		PreferredStoreID:    null.StringFromPtr(m.PreferredStoreID),
		Status:              entities.ProfileStatus(m.Status),
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
	if p.Preferences == nil {
		p.Preferences = map[string]interface{}{}
	}
	if p.DietaryRestrictions == nil {
		p.DietaryRestrictions = map[string]interface{}{}
	}

	if len(m.MealPlan) > 0 {
		var plan entities.MealPlan
		if err := jsonMapToStruct(m.MealPlan, &plan); err != nil {
			return nil, err
		}
		p.MealPlan = &plan
	}
	if len(m.ScrapedData) > 0 {
		var data entities.ScrapedData
		if err := jsonMapToStruct(m.ScrapedData, &data); err != nil {
			return nil, err
		}
		p.ScrapedData = &data
	}
	return p, nil
}

func toJSONMap(m map[string]interface{}) datatypes.JSONMap {
	if m == nil {
		return datatypes.JSONMap{}
	}
	return datatypes.JSONMap(m)
}

func structToJSONMap(v interface{}) (datatypes.JSONMap, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out datatypes.JSONMap
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func jsonMapToStruct(m datatypes.JSONMap, out interface{}) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
