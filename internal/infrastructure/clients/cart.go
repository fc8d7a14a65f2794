package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"plate-plan.backend/internal/config"
	domainerrors "plate-plan.backend/internal/domain/errors"
)

// MockCartURL is returned when a shareable cart could not be produced.
// Callers treat a plan with this URL as generated anyway.
const MockCartURL = "https://www.instacart.com/store/shopping-lists/mock"

// cartLinkExpiryDays is how long the shareable list link stays alive
const cartLinkExpiryDays = 7

// LineItem is one product on the shopping list
type LineItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// CartClient creates shareable shopping lists through the grocery API
type CartClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewCartClient creates a new cart client. No timeout on the HTTP client;
// the task layer owns degradation policy for slow or failed calls.
func NewCartClient(cfg config.InstacartConfig) *CartClient {
	return &CartClient{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{},
	}
}

type productsLinkRequest struct {
	Title                    string   `json:"title"`
	LinkType                 string   `json:"link_type"`
	ExpiresIn                int      `json:"expires_in"`
	LineItems                []LineItem `json:"line_items"`
	LandingPageConfiguration struct {
		EnablePantryItems bool `json:"enable_pantry_items"`
	} `json:"landing_page_configuration"`
}

type productsLinkResponse struct {
	ProductsLinkURL string `json:"products_link_url"`
}

// CreateShoppingList creates a shareable shopping list and returns its URL.
// A response that lacks the URL field yields MockCartURL, not an error.
func (c *CartClient) CreateShoppingList(ctx context.Context, title string, items []LineItem) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("INSTACART_API_KEY not set: %w", domainerrors.ErrConfiguration)
	}

	payload := productsLinkRequest{
		Title:     title,
		LinkType:  "shopping_list",
		ExpiresIn: cartLinkExpiryDays,
		LineItems: items,
	}
	payload.LandingPageConfiguration.EnablePantryItems = true

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/idp/v1/products/products_link", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("cart request failed: %w: %v", domainerrors.ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("cart response read failed: %w: %v", domainerrors.ErrNetwork, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("cart provider returned %d: %w", resp.StatusCode, domainerrors.ErrProvider)
	}

	var parsed productsLinkResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("cart response parse failed: %w: %v", domainerrors.ErrProvider, err)
	}
	if parsed.ProductsLinkURL == "" {
		return MockCartURL, nil
	}
	return parsed.ProductsLinkURL, nil
}
