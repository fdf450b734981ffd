package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/meal-cart/internal/models"
)

func TestAssembleRoundsQuantitiesUp(t *testing.T) {
	tests := []struct {
		name string
		sum  string
		want float64
	}{
		{"repeating third", "33.3333333333333333", 33.34},
		{"three decimals", "33.333", 33.34},
		{"already two decimals", "33.33", 33.33},
		{"tiny excess", "1.001", 1.01},
		{"integer", "200", 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drafts := Assemble(Aggregate([]ResolvedContribution{contribution(flour, tt.sum, "g", 1)}))

			require.Len(t, drafts, 1)
			require.NotNil(t, drafts[0].Quantity)
			assert.Equal(t, tt.want, *drafts[0].Quantity)
		})
	}
}

func TestAssembleOneThirdOfRecipe(t *testing.T) {
	recipe := models.Recipe{ID: 1, Servings: 3, Ingredients: []models.RecipeIngredient{scalable(flour, 100, "g")}}
	contributions, err := ResolveMealEntry(recipeEntry(1, 1, recipe))
	require.NoError(t, err)

	drafts := Assemble(Aggregate(contributions))

	require.Len(t, drafts, 1)
	assert.Equal(t, 33.34, *drafts[0].Quantity)
	assert.Equal(t, "g", *drafts[0].Unit)
}

func TestAssembleNonScalableHasNoQuantity(t *testing.T) {
	drafts := Assemble(Aggregate([]ResolvedContribution{toTasteContribution(salt, 3), toTasteContribution(salt, 8)}))

	require.Len(t, drafts, 1)
	assert.Nil(t, drafts[0].Quantity)
	assert.Nil(t, drafts[0].Unit)
	assert.Equal(t, "Sel", drafts[0].Label)
	assert.Equal(t, salt.ID, *drafts[0].IngredientID)
	assert.Equal(t, []int64{3, 8}, drafts[0].MealPlanEntryIDs)
	assert.False(t, drafts[0].Checked)
	assert.False(t, drafts[0].IsManual)
}

func TestAssembleSortsByAisleWithMissingAisleLast(t *testing.T) {
	drafts := Assemble(Aggregate([]ResolvedContribution{
		contribution(basil, "1", "botte", 1),
		toTasteContribution(salt, 1),
		contribution(tomato, "3", DefaultUnit, 1),
		contribution(butter, "250", "g", 2),
		contribution(flour, "1", "kg", 2),
	}))

	labels := make([]string, 0, len(drafts))
	for _, d := range drafts {
		labels = append(labels, d.Label)
	}
	assert.Equal(t, []string{"Beurre", "Tomate", "Farine", "Sel", "Basilic"}, labels)
}

func TestSortDraftsByAisleIsStable(t *testing.T) {
	dairy := aislePtr(models.AisleDairy)
	drafts := []models.ShoppingListItemDraft{
		{Label: "Lait", Aisle: dairy},
		{Label: "Eponge"},
		{Label: "Yaourt", Aisle: dairy},
		{Label: "Pain", Aisle: aislePtr(models.AisleBakery)},
		{Label: "Bougie"},
		{Label: "Crème", Aisle: dairy},
	}

	SortDraftsByAisle(drafts)

	labels := make([]string, 0, len(drafts))
	for _, d := range drafts {
		labels = append(labels, d.Label)
	}
	assert.Equal(t, []string{"Pain", "Lait", "Yaourt", "Crème", "Eponge", "Bougie"}, labels)
}

func TestAssembleScalableBeforeNonScalableWithinAisle(t *testing.T) {
	drafts := Assemble(Aggregate([]ResolvedContribution{
		toTasteContribution(salt, 1),
		contribution(salt, "5", "g", 2),
	}))

	require.Len(t, drafts, 2)
	assert.NotNil(t, drafts[0].Quantity)
	assert.Nil(t, drafts[1].Quantity)
}

func TestAssembleCopiesSourceIDs(t *testing.T) {
	agg := Aggregate([]ResolvedContribution{contribution(tomato, "1", "g", 1)})
	drafts := Assemble(agg)

	drafts[0].MealPlanEntryIDs[0] = 99
	assert.Equal(t, []int64{1}, agg.Scalable[0].SourceIDs)
}

func TestListName(t *testing.T) {
	from := time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 22, 23, 59, 59, 0, time.UTC)
	paris := time.FixedZone("CET", 2*60*60)

	tests := []struct {
		name     string
		listName *string
		from, to time.Time
		want     string
	}{
		{"default", nil, from, to, "Courses du 16/01/2025 au 22/01/2025"},
		{"blank name", strPtr("   "), from, to, "Courses du 16/01/2025 au 22/01/2025"},
		{"custom name", strPtr("Week-end à la mer"), from, to, "Week-end à la mer"},
		{"formats in UTC", nil, time.Date(2025, 1, 16, 1, 0, 0, 0, paris), to, "Courses du 15/01/2025 au 22/01/2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ListName(tt.listName, tt.from, tt.to))
		})
	}
}

func TestAssembleThirdsSumToWholeQuantity(t *testing.T) {
	recipe := models.Recipe{ID: 1, Servings: 3, Ingredients: []models.RecipeIngredient{scalable(tomato, 200, "g")}}

	agg := NewAggregation()
	for id := int64(1); id <= 3; id++ {
		contributions, err := ResolveMealEntry(recipeEntry(id, 1, recipe))
		require.NoError(t, err)
		for _, c := range contributions {
			agg.Add(c)
		}
	}

	drafts := Assemble(agg)
	require.Len(t, drafts, 1)
	assert.Equal(t, 200.0, *drafts[0].Quantity)
	assert.Equal(t, []int64{1, 2, 3}, drafts[0].MealPlanEntryIDs)
}

func TestAssembleRepeatedFractionsMatchExactCeiling(t *testing.T) {
	for baseline := 1; baseline <= 9; baseline++ {
		for meals := 1; meals <= 12; meals++ {
			for _, grams := range []int{1, 7, 100, 125, 200, 333} {
				recipe := models.Recipe{ID: 1, Servings: baseline, Ingredients: []models.RecipeIngredient{scalable(flour, float64(grams), "g")}}

				agg := NewAggregation()
				for id := 1; id <= meals; id++ {
					contributions, err := ResolveMealEntry(recipeEntry(int64(id), 1, recipe))
					require.NoError(t, err)
					agg.Add(contributions[0])
				}
				drafts := Assemble(agg)

				// ceil(grams * meals / baseline * 100) / 100 in integers
				cents := (grams*meals*100 + baseline - 1) / baseline
				want := float64(cents) / 100
				require.Equal(t, want, *drafts[0].Quantity, "%d g / %d servings x %d meals", grams, baseline, meals)
			}
		}
	}
}

func TestRoundUp(t *testing.T) {
	tests := []struct {
		sum, want string
	}{
		{"200.0000000000000001", "200"},
		{"99.9999999999999999", "100"},
		{"33.3333333333333333", "33.34"},
		{"0.001", "0.01"},
		{"12.5", "12.5"},
	}

	for _, tt := range tests {
		t.Run(tt.sum, func(t *testing.T) {
			got := roundUp(decimal.RequireFromString(tt.sum))
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}
