package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/meal-cart/internal/models"
)

func aislePtr(a models.Aisle) *models.Aisle {
	return &a
}

func floatPtr(f float64) *float64 {
	return &f
}

func strPtr(s string) *string {
	return &s
}

var (
	tomato = models.Ingredient{ID: 1, Label: "Tomate", Aisle: aislePtr(models.AisleFruitsVegetable)}
	salt   = models.Ingredient{ID: 2, Label: "Sel", Aisle: aislePtr(models.AisleSpices)}
	flour  = models.Ingredient{ID: 3, Label: "Farine", Aisle: aislePtr(models.AisleGrocery)}
	basil  = models.Ingredient{ID: 4, Label: "Basilic"}
	butter = models.Ingredient{ID: 5, Label: "Beurre", Aisle: aislePtr(models.AisleDairy)}
)

func scalable(i models.Ingredient, q float64, unit string) models.RecipeIngredient {
	return models.RecipeIngredient{Ingredient: i, Quantity: floatPtr(q), Unit: strPtr(unit), Scalable: true}
}

func toTaste(i models.Ingredient) models.RecipeIngredient {
	return models.RecipeIngredient{Ingredient: i}
}

func recipeEntry(id int64, servings float64, recipe models.Recipe) models.MealPlanEntry {
	return models.MealPlanEntry{ID: id, Slot: models.SlotLunch, Servings: servings, Meal: models.RecipeMeal{Recipe: recipe}}
}

func menuEntry(id int64, servings float64, menu models.Menu) models.MealPlanEntry {
	return models.MealPlanEntry{ID: id, Slot: models.SlotDinner, Servings: servings, Meal: models.MenuMeal{Menu: menu}}
}

func directEntry(id int64, i models.Ingredient, q *float64, unit *string) models.MealPlanEntry {
	return models.MealPlanEntry{ID: id, Slot: models.SlotSnack, Servings: 1, Meal: models.DirectIngredient{Ingredient: i, Quantity: q, Unit: unit}}
}

func contribution(i models.Ingredient, q string, unit string, source int64) ResolvedContribution {
	u := unit
	return ResolvedContribution{
		IngredientID: i.ID,
		Label:        i.Label,
		Aisle:        i.Aisle,
		Quantity:     decimal.NewNullDecimal(decimal.RequireFromString(q)),
		Unit:         &u,
		Scalable:     true,
		SourceID:     source,
	}
}

func toTasteContribution(i models.Ingredient, source int64) ResolvedContribution {
	return ResolvedContribution{IngredientID: i.ID, Label: i.Label, Aisle: i.Aisle, SourceID: source}
}

func assertQuantity(t *testing.T, want string, got decimal.NullDecimal) {
	t.Helper()
	require.True(t, got.Valid, "quantity should be set")
	assert.True(t, decimal.RequireFromString(want).Equal(got.Decimal), "want %s, got %s", want, got.Decimal)
}
