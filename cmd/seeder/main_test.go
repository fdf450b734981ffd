package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/foxxcyber/meal-cart/internal/models"
	"github.com/foxxcyber/meal-cart/internal/services"
)

func TestParseCatalogue(t *testing.T) {
	csv := "Aisle,Label\n" +
		"fruits_vegetables,Tomate\n" +
		"DAIRY, Beurre \n" +
		",Sel\n" +
		"NOWHERE,Poivre\n" +
		"BAKERY,\n"

	rows, err := parseCatalogue(strings.NewReader(csv), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, "Tomate", rows[0].Label)
	require.NotNil(t, rows[0].Aisle)
	assert.Equal(t, models.AisleFruitsVegetable, *rows[0].Aisle)

	assert.Equal(t, "Beurre", rows[1].Label)
	assert.Equal(t, models.AisleDairy, *rows[1].Aisle)

	assert.Equal(t, "Sel", rows[2].Label)
	assert.Nil(t, rows[2].Aisle)

	assert.Equal(t, "Poivre", rows[3].Label)
	assert.Nil(t, rows[3].Aisle)
}

func TestParseCatalogueRequiresLabelColumn(t *testing.T) {
	_, err := parseCatalogue(strings.NewReader("name,aisle\nTomate,DAIRY\n"), zap.NewNop())
	assert.Error(t, err)
}

func TestDedupe(t *testing.T) {
	existing := []models.Ingredient{{ID: 1, Label: "Tomate"}}
	rows := []models.CreateIngredientRequest{
		{Label: "tomates"},
		{Label: "Crème fraîche"},
		{Label: "creme fraiche"},
		{Label: "Oignon"},
	}

	fresh, dups := dedupe(rows, existing, services.NewIngredientMatcher(0.85))

	require.Len(t, fresh, 2)
	assert.Equal(t, "Crème fraîche", fresh[0].Label)
	assert.Equal(t, "Oignon", fresh[1].Label)

	require.Len(t, dups, 2)
	assert.Equal(t, "Tomate", dups[0].Existing)
	assert.Equal(t, "Crème fraîche", dups[1].Existing)
	assert.Equal(t, 1.0, dups[1].Confidence)
}
