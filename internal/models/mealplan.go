package models

import (
	"time"
)

// Slot is the moment of the day a meal is scheduled for
type Slot string

const (
	SlotBreakfast Slot = "BREAKFAST"
	SlotLunch     Slot = "LUNCH"
	SlotDinner    Slot = "DINNER"
	SlotSnack     Slot = "SNACK"
)

// MealPlanEntry is one scheduled occurrence of food on a day and slot
type MealPlanEntry struct {
	ID       int64     `json:"id"`
	UserID   int       `json:"user_id"`
	Date     time.Time `json:"date"`
	Slot     Slot      `json:"slot"`
	Servings float64   `json:"servings"`
	Meal     Meal      `json:"meal"`
}

// Meal is what a meal plan entry serves. It is implemented by DirectIngredient,
// RecipeMeal and MenuMeal only.
type Meal interface {
	isMeal()
}

// DirectIngredient schedules a single ingredient. Missing quantity and unit fall
// back to 1 "unité" when resolved.
type DirectIngredient struct {
	Ingredient Ingredient `json:"ingredient"`
	Quantity   *float64   `json:"quantity,omitempty"`
	Unit       *string    `json:"unit,omitempty"`
}

// RecipeMeal schedules a recipe
type RecipeMeal struct {
	Recipe Recipe `json:"recipe"`
}

// MenuMeal schedules a menu
type MenuMeal struct {
	Menu Menu `json:"menu"`
}

func (DirectIngredient) isMeal() {}
func (RecipeMeal) isMeal()       {}
func (MenuMeal) isMeal()         {}
