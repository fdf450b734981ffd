package services

import (
	"github.com/shopspring/decimal"

	"github.com/foxxcyber/meal-cart/internal/models"
)

// DefaultUnit is used for direct ingredients scheduled without a unit
const DefaultUnit = "unité"

// ResolvedContribution is one flattened ingredient need coming from a meal plan
// entry. Non-scalable contributions carry neither quantity nor unit.
type ResolvedContribution struct {
	IngredientID int64
	Label        string
	Aisle        *models.Aisle
	Quantity     decimal.NullDecimal
	Unit         *string
	Scalable     bool
	SourceID     int64
}

// factor is one servings ratio, requested over baseline
type factor struct {
	num decimal.Decimal
	den decimal.Decimal
}

// ratio is the ordered list of factors from the outermost meal down to the
// ingredient line. Numerators are multiplied before the single division.
type ratio []factor

func (r ratio) then(num, den decimal.Decimal) ratio {
	out := make(ratio, len(r), len(r)+1)
	copy(out, r)
	return append(out, factor{num: num, den: den})
}

func (r ratio) apply(q decimal.Decimal) decimal.Decimal {
	den := decimal.NewFromInt(1)
	for _, f := range r {
		q = q.Mul(f.num)
		den = den.Mul(f.den)
	}
	return q.Div(den)
}

// ResolveMealEntry flattens a meal plan entry into ingredient contributions.
// Menus are expanded into their recipes and ingredients with composed ratios.
// A non-positive servings denominator, a negative menu item servings and a
// meal or menu item with nothing to serve are data integrity errors.
func ResolveMealEntry(entry models.MealPlanEntry) ([]ResolvedContribution, error) {
	switch meal := entry.Meal.(type) {
	case models.DirectIngredient:
		return []ResolvedContribution{resolveDirect(entry.ID, meal.Ingredient, meal.Quantity, meal.Unit, nil)}, nil

	case models.RecipeMeal:
		if err := checkEntryServings(entry); err != nil {
			return nil, err
		}
		if err := checkRecipeServings(meal.Recipe); err != nil {
			return nil, err
		}
		r := ratio{}.then(decimal.NewFromFloat(entry.Servings), decimal.NewFromInt(int64(meal.Recipe.Servings)))
		return resolveRecipe(entry.ID, meal.Recipe, r), nil

	case models.MenuMeal:
		if err := checkEntryServings(entry); err != nil {
			return nil, err
		}
		return resolveMenu(entry, meal.Menu)

	default:
		return nil, &DataIntegrityError{Entity: "meal plan entry", ID: entry.ID, Reason: "no ingredient, recipe or menu scheduled"}
	}
}

func resolveMenu(entry models.MealPlanEntry, menu models.Menu) ([]ResolvedContribution, error) {
	if menu.Servings <= 0 {
		return nil, &DataIntegrityError{Entity: "menu", ID: menu.ID, Reason: "baseline servings must be positive"}
	}
	menuRatio := ratio{}.then(decimal.NewFromFloat(entry.Servings), decimal.NewFromInt(int64(menu.Servings)))

	var out []ResolvedContribution
	for _, item := range menu.Items {
		switch {
		case item.Recipe != nil:
			if err := checkRecipeServings(*item.Recipe); err != nil {
				return nil, err
			}
			if item.Servings < 0 {
				return nil, &DataIntegrityError{Entity: "menu item", ID: item.ID, Reason: "servings must not be negative"}
			}
			// Zero is an unset servings column: the recipe is served as written
			baseline := decimal.NewFromInt(int64(item.Recipe.Servings))
			servings := baseline
			if item.Servings > 0 {
				servings = decimal.NewFromFloat(item.Servings)
			}
			out = append(out, resolveRecipe(entry.ID, *item.Recipe, menuRatio.then(servings, baseline))...)
		case item.Ingredient != nil:
			out = append(out, resolveDirect(entry.ID, *item.Ingredient, item.Quantity, item.Unit, menuRatio))
		default:
			return nil, &DataIntegrityError{Entity: "menu item", ID: item.ID, Reason: "no recipe or ingredient"}
		}
	}
	return out, nil
}

func resolveRecipe(sourceID int64, recipe models.Recipe, r ratio) []ResolvedContribution {
	out := make([]ResolvedContribution, 0, len(recipe.Ingredients))
	for _, line := range recipe.Ingredients {
		if !line.Scalable {
			out = append(out, ResolvedContribution{
				IngredientID: line.Ingredient.ID,
				Label:        line.Ingredient.Label,
				Aisle:        line.Ingredient.Aisle,
				SourceID:     sourceID,
			})
			continue
		}
		if line.Quantity == nil || line.Unit == nil {
			continue
		}
		unit := *line.Unit
		out = append(out, ResolvedContribution{
			IngredientID: line.Ingredient.ID,
			Label:        line.Ingredient.Label,
			Aisle:        line.Ingredient.Aisle,
			Quantity:     decimal.NewNullDecimal(r.apply(decimal.NewFromFloat(*line.Quantity))),
			Unit:         &unit,
			Scalable:     true,
			SourceID:     sourceID,
		})
	}
	return out
}

func resolveDirect(sourceID int64, ingredient models.Ingredient, quantity *float64, unit *string, r ratio) ResolvedContribution {
	q := decimal.NewFromInt(1)
	if quantity != nil {
		q = decimal.NewFromFloat(*quantity)
	}
	u := DefaultUnit
	if unit != nil {
		u = *unit
	}
	return ResolvedContribution{
		IngredientID: ingredient.ID,
		Label:        ingredient.Label,
		Aisle:        ingredient.Aisle,
		Quantity:     decimal.NewNullDecimal(r.apply(q)),
		Unit:         &u,
		Scalable:     true,
		SourceID:     sourceID,
	}
}

func checkEntryServings(entry models.MealPlanEntry) error {
	if entry.Servings <= 0 {
		return &DataIntegrityError{Entity: "meal plan entry", ID: entry.ID, Reason: "servings must be positive"}
	}
	return nil
}

func checkRecipeServings(recipe models.Recipe) error {
	if recipe.Servings <= 0 {
		return &DataIntegrityError{Entity: "recipe", ID: recipe.ID, Reason: "baseline servings must be positive"}
	}
	return nil
}
