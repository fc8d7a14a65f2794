package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/volatiletech/null/v8"
	"plate-plan.backend/internal/config"
	domainerrors "plate-plan.backend/internal/domain/errors"
)

// LLMClient calls the chat-completions API to generate meal plans.
// A single direct call, no tool use.
type LLMClient struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	client      *http.Client
}

// NewLLMClient creates a new LLM client. The underlying HTTP client has no
// timeout; plan generation can legitimately take minutes.
func NewLLMClient(cfg config.OpenAIConfig) *LLMClient {
	return &LLMClient{
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		client:      &http.Client{},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GeneratePlan builds a weekly meal-plan prompt and returns the generated text
func (c *LLMClient) GeneratePlan(ctx context.Context, preferences, restrictions map[string]interface{}, budget null.Float64) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not set: %w", domainerrors.ErrConfiguration)
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a meal planning assistant."},
			{Role: "user", Content: BuildMealPlanPrompt(preferences, restrictions, budget)},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w: %v", domainerrors.ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("llm response read failed: %w: %v", domainerrors.ErrNetwork, err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("llm response parse failed: %w: %v", domainerrors.ErrProvider, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := resp.Status
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return "", fmt.Errorf("llm returned %d: %s: %w", resp.StatusCode, msg, domainerrors.ErrProvider)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("llm returned no completion: %w", domainerrors.ErrProvider)
	}

	return parsed.Choices[0].Message.Content, nil
}

// BuildMealPlanPrompt composes the weekly plan instructions. Budget and
// restrictions are expressed to the model as natural language only; nothing
// validates the returned plan against them.
func BuildMealPlanPrompt(preferences, restrictions map[string]interface{}, budget null.Float64) string {
	var b strings.Builder

	b.WriteString("Create a weekly meal plan based on the user's preferences and dietary restrictions.\n\n")

	b.WriteString("User Preferences:\n")
	writeSortedPairs(&b, preferences)

	b.WriteString("\nDietary Restrictions:\n")
	writeSortedPairs(&b, restrictions)

	if budget.Valid {
		fmt.Fprintf(&b, "\nWeekly Budget: $%.2f\n", budget.Float64)
	} else {
		b.WriteString("\nWeekly Budget: not specified\n")
	}

	b.WriteString(`
Create a detailed meal plan that:
1. Stays within budget
2. Respects dietary restrictions
3. Matches user preferences

Include:
- 7 days of meals (breakfast, lunch, dinner)
- Complete ingredient list with quantities
- Estimated total cost
- Instructions for each recipe
`)

	return b.String()
}

func writeSortedPairs(b *strings.Builder, m map[string]interface{}) {
	if len(m) == 0 {
		b.WriteString("- none\n")
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "- %s: %v\n", k, m[k])
	}
}
