package database

import (
	"context"
	"fmt"
	"time"

	"github.com/foxxcyber/meal-cart/internal/models"
)

// mealPlanRow is a meal plan entry before its recipe or menu graph is attached
type mealPlanRow struct {
	entry        models.MealPlanEntry
	ingredientID *int64
	label        *string
	aisle        *models.Aisle
	quantity     *float64
	unit         *string
	recipeID     *int64
	menuID       *int64
}

// ListMealPlanEntries returns a user's meal plan entries dated within [from, to]
// with their ingredient, recipe and menu graphs loaded
func (db *DB) ListMealPlanEntries(ctx context.Context, userID int, from, to time.Time) ([]models.MealPlanEntry, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT
			e.id, e.user_id, e.date, e.slot, e.servings,
			e.ingredient_id, i.label, i.aisle, e.quantity, e.unit,
			e.recipe_id, e.menu_id
		FROM meal_plan_entries e
		LEFT JOIN ingredients i ON i.id = e.ingredient_id
		WHERE e.user_id = $1 AND e.date BETWEEN $2 AND $3
	`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query meal plan entries: %w", err)
	}
	defer rows.Close()

	var planRows []mealPlanRow
	var recipeIDs, menuIDs []int64
	for rows.Next() {
		r := mealPlanRow{}
		err := rows.Scan(
			&r.entry.ID, &r.entry.UserID, &r.entry.Date, &r.entry.Slot, &r.entry.Servings,
			&r.ingredientID, &r.label, &r.aisle, &r.quantity, &r.unit,
			&r.recipeID, &r.menuID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal plan entry: %w", err)
		}
		if r.recipeID != nil {
			recipeIDs = append(recipeIDs, *r.recipeID)
		}
		if r.menuID != nil {
			menuIDs = append(menuIDs, *r.menuID)
		}
		planRows = append(planRows, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	menus, menuRecipeIDs, err := db.loadMenus(ctx, menuIDs)
	if err != nil {
		return nil, err
	}

	recipes, err := db.loadRecipes(ctx, append(recipeIDs, menuRecipeIDs...))
	if err != nil {
		return nil, err
	}

	for _, menu := range menus {
		for i := range menu.Items {
			if ref := menu.Items[i].Recipe; ref != nil {
				if full, ok := recipes[ref.ID]; ok {
					menu.Items[i].Recipe = full
				}
			}
		}
	}

	entries := make([]models.MealPlanEntry, 0, len(planRows))
	for _, r := range planRows {
		entry := r.entry
		entry.Date = entry.Date.UTC()
		switch {
		case r.ingredientID != nil:
			entry.Meal = models.DirectIngredient{
				Ingredient: models.Ingredient{ID: *r.ingredientID, Label: deref(r.label), Aisle: r.aisle},
				Quantity:   r.quantity,
				Unit:       r.unit,
			}
		case r.recipeID != nil:
			if recipe, ok := recipes[*r.recipeID]; ok {
				entry.Meal = models.RecipeMeal{Recipe: *recipe}
			}
		case r.menuID != nil:
			if menu, ok := menus[*r.menuID]; ok {
				entry.Meal = models.MenuMeal{Menu: *menu}
			}
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// loadRecipes fetches recipes with their ingredient lines in position order
func (db *DB) loadRecipes(ctx context.Context, ids []int64) (map[int64]*models.Recipe, error) {
	recipes := make(map[int64]*models.Recipe)
	if len(ids) == 0 {
		return recipes, nil
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, title, COALESCE(servings, 0) FROM recipes WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		r := &models.Recipe{Ingredients: []models.RecipeIngredient{}}
		if err := rows.Scan(&r.ID, &r.Title, &r.Servings); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes[r.ID] = r
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lines, err := db.Pool.Query(ctx, `
		SELECT ri.recipe_id, i.id, i.label, i.aisle, ri.quantity, ri.unit, ri.scalable
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id = ANY($1)
		ORDER BY ri.recipe_id, ri.position, ri.id
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipe ingredients: %w", err)
	}
	defer lines.Close()

	for lines.Next() {
		var recipeID int64
		line := models.RecipeIngredient{}
		err := lines.Scan(
			&recipeID, &line.Ingredient.ID, &line.Ingredient.Label, &line.Ingredient.Aisle,
			&line.Quantity, &line.Unit, &line.Scalable,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe ingredient: %w", err)
		}
		if r, ok := recipes[recipeID]; ok {
			r.Ingredients = append(r.Ingredients, line)
		}
	}

	return recipes, lines.Err()
}

// loadMenus fetches menus with their items. Recipe items only carry the recipe
// id; the ids are returned so the caller can load the recipe graphs.
func (db *DB) loadMenus(ctx context.Context, ids []int64) (map[int64]*models.Menu, []int64, error) {
	menus := make(map[int64]*models.Menu)
	if len(ids) == 0 {
		return menus, nil, nil
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, title, COALESCE(servings, 0) FROM menus WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query menus: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m := &models.Menu{Items: []models.MenuItem{}}
		if err := rows.Scan(&m.ID, &m.Title, &m.Servings); err != nil {
			return nil, nil, fmt.Errorf("failed to scan menu: %w", err)
		}
		menus[m.ID] = m
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	items, err := db.Pool.Query(ctx, `
		SELECT
			mi.menu_id, mi.id, mi.recipe_id, COALESCE(mi.servings, 0),
			mi.ingredient_id, i.label, i.aisle, mi.quantity, mi.unit
		FROM menu_items mi
		LEFT JOIN ingredients i ON i.id = mi.ingredient_id
		WHERE mi.menu_id = ANY($1)
		ORDER BY mi.menu_id, mi.position, mi.id
	`, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer items.Close()

	var recipeIDs []int64
	for items.Next() {
		var menuID int64
		var recipeID, ingredientID *int64
		var label *string
		var aisle *models.Aisle
		item := models.MenuItem{}
		err := items.Scan(
			&menuID, &item.ID, &recipeID, &item.Servings,
			&ingredientID, &label, &aisle, &item.Quantity, &item.Unit,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		if recipeID != nil {
			item.Recipe = &models.Recipe{ID: *recipeID}
			recipeIDs = append(recipeIDs, *recipeID)
		}
		if ingredientID != nil {
			item.Ingredient = &models.Ingredient{ID: *ingredientID, Label: deref(label), Aisle: aisle}
		}
		if m, ok := menus[menuID]; ok {
			m.Items = append(m.Items, item)
		}
	}

	return menus, recipeIDs, items.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
