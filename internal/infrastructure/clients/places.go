package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"plate-plan.backend/internal/config"
	"plate-plan.backend/internal/domain/entities"
	domainerrors "plate-plan.backend/internal/domain/errors"
	"plate-plan.backend/pkg/logger"
)

// searchRadiusMeters bounds the nearby search to 10 km
const searchRadiusMeters = 10000

// retailerAllowList is matched case-insensitively against each result's name
var retailerAllowList = []string{"walmart", "frys", "aldi", "albertsons", "safeway"}

// PlacesClient queries the nearby-search endpoint for grocery stores
type PlacesClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewPlacesClient creates a new places client
func NewPlacesClient(cfg config.PlacesConfig) *PlacesClient {
	return &PlacesClient{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{},
	}
}

// Configured reports whether an API key is available
func (c *PlacesClient) Configured() bool {
	return c.apiKey != ""
}

type nearbySearchResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Name           string   `json:"name"`
		Vicinity       string   `json:"vicinity"`
		Rating         float64  `json:"rating"`
		PlaceID        string   `json:"place_id"`
		BusinessStatus string   `json:"business_status"`
		Types          []string `json:"types"`
		Geometry       struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// FindNearbyStores searches for supermarkets near the given coordinates and
// filters them against the retailer allow-list. A non-OK provider status is
// logged and yields an empty list; callers cannot tell it apart from a search
// with no matches.
func (c *PlacesClient) FindNearbyStores(ctx context.Context, lat, lng float64) ([]entities.Store, error) {
	params := url.Values{}
	params.Set("location", fmt.Sprintf("%f,%f", lat, lng))
	params.Set("radius", fmt.Sprintf("%d", searchRadiusMeters))
	params.Set("type", "grocery_or_supermarket")
	params.Set("keyword", strings.Join(retailerAllowList, "|"))
	params.Set("language", "en")
	params.Set("key", c.apiKey)

	reqURL := c.baseURL + "/nearbysearch/json?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places request failed: %w: %v", domainerrors.ErrNetwork, err)
	}
	defer resp.Body.Close()

	var parsed nearbySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("places response parse failed: %w: %v", domainerrors.ErrProvider, err)
	}

	if parsed.Status != "OK" {
		logger.Error(ctx, "Places API returned non-OK status",
			zap.String("status", parsed.Status),
			zap.String("error_message", parsed.ErrorMessage),
		)
		return []entities.Store{}, nil
	}

	stores := make([]entities.Store, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		if !matchesAllowList(r.Name) {
			continue
		}
		stores = append(stores, entities.Store{
			Name:           r.Name,
			Address:        r.Vicinity,
			Rating:         r.Rating,
			PlaceID:        r.PlaceID,
			BusinessStatus: r.BusinessStatus,
			Types:          r.Types,
			Latitude:       r.Geometry.Location.Lat,
			Longitude:      r.Geometry.Location.Lng,
		})
	}
	return stores, nil
}

func matchesAllowList(name string) bool {
	lower := strings.ToLower(name)
	for _, retailer := range retailerAllowList {
		if strings.Contains(lower, retailer) {
			return true
		}
	}
	return false
}
