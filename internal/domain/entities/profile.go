package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// ProfileStatus tracks the state of the latest pipeline run for a profile
type ProfileStatus string

const (
	StatusPending    ProfileStatus = "PENDING"
	StatusProcessing ProfileStatus = "PROCESSING"
	StatusCompleted  ProfileStatus = "COMPLETED"
	StatusFailed     ProfileStatus = "FAILED"
)

// MealPlan holds the generated plan and the cart created from it
type MealPlan struct {
	Plan        string `json:"plan"`
	CartURL     string `json:"cart_url"`
	GeneratedAt string `json:"generated_at"`
}

// Store is one nearby grocery store kept from a places search
type Store struct {
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	Rating         float64  `json:"rating"`
	PlaceID        string   `json:"place_id"`
	BusinessStatus string   `json:"business_status"`
	Types          []string `json:"types"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
}

// ScrapedData holds the raw scrape response plus the filtered store list
type ScrapedData struct {
	APIData      map[string]interface{} `json:"api_data"`
	NearbyStores []Store                `json:"nearby_stores"`
}

// Profile is the per-user meal planning record (1:1 with User)
type Profile struct {
	ID                  uuid.UUID              `json:"id"`
	UserID              uuid.UUID              `json:"userId"`
	Bio                 string                 `json:"bio"`
	Location            string                 `json:"location"`
	Latitude            null.Float64           `json:"latitude,omitempty"`
	Longitude           null.Float64           `json:"longitude,omitempty"`
	Preferences         map[string]interface{} `json:"preferences"`
	DietaryRestrictions map[string]interface{} `json:"dietaryRestrictions"`
	WeeklyBudget        null.Float64           `json:"weeklyBudget,omitempty"`
	PreferredStoreID    null.String            `json:"preferredStoreId,omitempty"`
	Status              ProfileStatus          `json:"status"`
	MealPlan            *MealPlan              `json:"mealPlan,omitempty"`
	ScrapedData         *ScrapedData           `json:"scrapedData,omitempty"`
	CreatedAt           time.Time              `json:"createdAt"`
	UpdatedAt           time.Time              `json:"updatedAt"`
}

// HasLocation reports whether the profile has usable coordinates
func (p *Profile) HasLocation() bool {
	return p.Latitude.Valid && p.Longitude.Valid
}

// UpdateProfileInput represents mutable profile fields
type UpdateProfileInput struct {
	Bio                 *string                `json:"bio"`
	Preferences         map[string]interface{} `json:"preferences"`
	DietaryRestrictions map[string]interface{} `json:"dietaryRestrictions"`
	WeeklyBudget        *float64               `json:"weeklyBudget"`
	PreferredStoreID    *string                `json:"preferredStoreId"`
}

// UpdateLocationInput represents a location update
type UpdateLocationInput struct {
	Location  string   `json:"location" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
}
