package tasks

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"plate-plan.backend/internal/domain/entities"
	domainerrors "plate-plan.backend/internal/domain/errors"
	"plate-plan.backend/internal/domain/repositories"
	"plate-plan.backend/pkg/logger"
)

type placesSearcher interface {
	Configured() bool
	FindNearbyStores(ctx context.Context, lat, lng float64) ([]entities.Store, error)
}

type storeScraper interface {
	Configured() bool
	Scrape(ctx context.Context, profileID uuid.UUID, stores []entities.Store) (map[string]interface{}, error)
}

// StoreScrapeTask finds grocery stores near a profile's location and
// forwards them to the scraping service
type StoreScrapeTask struct {
	profiles repositories.ProfileRepository
	places   placesSearcher
	scraper  storeScraper
}

// NewStoreScrapeTask creates the store-scrape task runner
func NewStoreScrapeTask(profiles repositories.ProfileRepository, places placesSearcher, scraper storeScraper) *StoreScrapeTask {
	return &StoreScrapeTask{profiles: profiles, places: places, scraper: scraper}
}

// Run locates stores for the profile, hands them to the scraping
// service, and persists the results. A profile without coordinates
// proceeds with an empty store list; any scraper failure marks the
// profile FAILED.
func (t *StoreScrapeTask) Run(ctx context.Context, profileID uuid.UUID) error {
	profile, err := t.profiles.GetByID(ctx, profileID)
	if err != nil {
		return err
	}

	if err := t.profiles.UpdateStatus(ctx, profileID, entities.StatusProcessing); err != nil {
		return err
	}

	if !t.places.Configured() && !t.scraper.Configured() {
		err := fmt.Errorf("GOOGLE_PLACES_API_KEY and SCRAPER_SERVICE_URL not set: %w", domainerrors.ErrConfiguration)
		t.markFailed(ctx, profileID)
		return err
	}

	stores := []entities.Store{}
	if profile.HasLocation() {
		if !t.places.Configured() {
			err := fmt.Errorf("GOOGLE_PLACES_API_KEY not set: %w", domainerrors.ErrConfiguration)
			t.markFailed(ctx, profileID)
			return err
		}
		stores, err = t.places.FindNearbyStores(ctx, profile.Latitude.Float64, profile.Longitude.Float64)
		if err != nil {
			t.markFailed(ctx, profileID)
			return err
		}
	} else {
		logger.Info(ctx, "Profile has no coordinates, scraping with empty store list",
			zap.String("profile_id", profileID.String()),
		)
	}

	apiData, err := t.scraper.Scrape(ctx, profileID, stores)
	if err != nil {
		logger.Error(ctx, "Scraper call failed",
			zap.String("profile_id", profileID.String()),
			zap.Error(err),
		)
		t.markFailed(ctx, profileID)
		return err
	}

	return t.profiles.SaveScrapedData(ctx, profileID, &entities.ScrapedData{
		APIData:      apiData,
		NearbyStores: stores,
	})
}

func (t *StoreScrapeTask) markFailed(ctx context.Context, profileID uuid.UUID) {
	if err := t.profiles.UpdateStatus(ctx, profileID, entities.StatusFailed); err != nil {
		logger.Error(ctx, "Failed to mark profile FAILED",
			zap.String("profile_id", profileID.String()),
			zap.Error(err),
		)
	}
}
