package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"plate-plan.backend/internal/domain/entities"
	"plate-plan.backend/internal/domain/repositories"
	"plate-plan.backend/internal/infrastructure/clients"
	"plate-plan.backend/pkg/logger"
)

type planGenerator interface {
	GeneratePlan(ctx context.Context, preferences, restrictions map[string]interface{}, budget null.Float64) (string, error)
}

type cartCreator interface {
	CreateShoppingList(ctx context.Context, title string, items []clients.LineItem) (string, error)
}

// shoppingListItems is the fixed list sent to the cart provider. The
// generated plan text is not parsed for ingredients.
var shoppingListItems = []clients.LineItem{
	{Name: "chicken breast", Quantity: 2, Unit: "lb"},
	{Name: "ground beef", Quantity: 1, Unit: "lb"},
	{Name: "eggs", Quantity: 12, Unit: "each"},
	{Name: "milk", Quantity: 1, Unit: "gallon"},
	{Name: "brown rice", Quantity: 1, Unit: "bag"},
	{Name: "pasta", Quantity: 1, Unit: "box"},
	{Name: "broccoli", Quantity: 2, Unit: "each"},
	{Name: "spinach", Quantity: 1, Unit: "bag"},
	{Name: "bell peppers", Quantity: 3, Unit: "each"},
	{Name: "onions", Quantity: 3, Unit: "each"},
	{Name: "bananas", Quantity: 6, Unit: "each"},
	{Name: "apples", Quantity: 6, Unit: "each"},
	{Name: "bread", Quantity: 1, Unit: "loaf"},
	{Name: "olive oil", Quantity: 1, Unit: "bottle"},
	{Name: "greek yogurt", Quantity: 1, Unit: "tub"},
}

// MealPlanTask generates a weekly meal plan and a shopping cart for a profile
type MealPlanTask struct {
	profiles repositories.ProfileRepository
	llm      planGenerator
	cart     cartCreator
}

// NewMealPlanTask creates the meal-plan task runner
func NewMealPlanTask(profiles repositories.ProfileRepository, llm planGenerator, cart cartCreator) *MealPlanTask {
	return &MealPlanTask{profiles: profiles, llm: llm, cart: cart}
}

// Run generates a plan for the profile and persists it.
// A generation failure marks the profile FAILED and writes nothing; a cart
// failure falls back to the placeholder cart URL and still completes.
func (t *MealPlanTask) Run(ctx context.Context, profileID uuid.UUID) error {
	profile, err := t.profiles.GetByID(ctx, profileID)
	if err != nil {
		return err
	}

	if err := t.profiles.UpdateStatus(ctx, profileID, entities.StatusProcessing); err != nil {
		return err
	}

	plan, err := t.llm.GeneratePlan(ctx, profile.Preferences, profile.DietaryRestrictions, profile.WeeklyBudget)
	if err != nil {
		if statusErr := t.profiles.UpdateStatus(ctx, profileID, entities.StatusFailed); statusErr != nil {
			logger.Error(ctx, "Failed to mark profile FAILED",
				zap.String("profile_id", profileID.String()),
				zap.Error(statusErr),
			)
		}
		return err
	}

	cartURL, err := t.cart.CreateShoppingList(ctx, "Weekly Meal Plan Groceries", shoppingListItems)
	if err != nil {
		logger.Warn(ctx, "Cart creation failed, using placeholder URL",
			zap.String("profile_id", profileID.String()),
			zap.Error(err),
		)
		cartURL = clients.MockCartURL
	}

	return t.profiles.SaveMealPlan(ctx, profileID, &entities.MealPlan{
		Plan:        plan,
		CartURL:     cartURL,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	})
}
