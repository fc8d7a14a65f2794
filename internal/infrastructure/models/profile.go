package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Profile struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID              uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Bio                 string    `gorm:"type:text"`
	Location            string    `gorm:"type:varchar(100)"`
	Latitude            *float64
	Longitude           *float64
	Preferences         datatypes.JSONMap `gorm:"not null;default:'{}'"`
	DietaryRestrictions datatypes.JSONMap `gorm:"not null;default:'{}'"`
	WeeklyBudget        *float64          `gorm:"type:numeric(10,2)"`
	PreferredStoreID    *string           `gorm:"type:varchar(100)"`
	Status              string            `gorm:"type:varchar(20);not null;default:'PENDING'"`
	MealPlan            datatypes.JSONMap
	ScrapedData         datatypes.JSONMap
	CreatedAt           time.Time
	UpdatedAt           time.Time

	// Associations
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
