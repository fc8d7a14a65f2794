package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"plate-plan.backend/internal/config"
	"plate-plan.backend/internal/domain/entities"
	domainerrors "plate-plan.backend/internal/domain/errors"
)

// ScraperClient calls the external store-scraping service
type ScraperClient struct {
	serviceURL string
	client     *http.Client
}

// NewScraperClient creates a new scraper client with a bounded wait
func NewScraperClient(cfg config.ScraperConfig) *ScraperClient {
	return &ScraperClient{
		serviceURL: strings.TrimRight(cfg.ServiceURL, "/"),
		client:     &http.Client{Timeout: cfg.Timeout},
	}
}

// Configured reports whether a service URL is available
func (c *ScraperClient) Configured() bool {
	return c.serviceURL != ""
}

type scrapeRequest struct {
	ProfileID string           `json:"profile_id"`
	Stores    []entities.Store `json:"stores"`
}

// Scrape submits the store list for scraping and returns the raw response.
// Transport failures wrap ErrNetwork; non-2xx responses wrap ErrProvider.
func (c *ScraperClient) Scrape(ctx context.Context, profileID uuid.UUID, stores []entities.Store) (map[string]interface{}, error) {
	if c.serviceURL == "" {
		return nil, fmt.Errorf("SCRAPER_SERVICE_URL not set: %w", domainerrors.ErrConfiguration)
	}

	body, err := json.Marshal(scrapeRequest{
		ProfileID: profileID.String(),
		Stores:    stores,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serviceURL+"/scrape", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scraper request failed: %w: %v", domainerrors.ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("scraper response read failed: %w: %v", domainerrors.ErrNetwork, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("scraper returned %d: %w", resp.StatusCode, domainerrors.ErrProvider)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("scraper response parse failed: %w: %v", domainerrors.ErrProvider, err)
	}
	return parsed, nil
}
