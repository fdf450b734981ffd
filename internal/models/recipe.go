package models

// Recipe holds ingredient quantities for a baseline number of servings
type Recipe struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	Servings    int                `json:"servings"`
	Ingredients []RecipeIngredient `json:"ingredients"`
}

// RecipeIngredient is one line of a recipe. A non-scalable line ("salt to taste")
// never carries a quantity into a shopping list.
type RecipeIngredient struct {
	Ingredient Ingredient `json:"ingredient"`
	Quantity   *float64   `json:"quantity,omitempty"`
	Unit       *string    `json:"unit,omitempty"`
	Scalable   bool       `json:"scalable"`
}
