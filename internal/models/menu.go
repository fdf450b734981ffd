package models

// Menu groups recipes and loose ingredients served together
type Menu struct {
	ID       int64      `json:"id"`
	Title    string     `json:"title"`
	Servings int        `json:"servings"`
	Items    []MenuItem `json:"items"`
}

// MenuItem wraps either a recipe (with its own servings) or a direct ingredient
// (with quantity and unit). Exactly one of Recipe and Ingredient is set.
type MenuItem struct {
	ID         int64       `json:"id"`
	Recipe     *Recipe     `json:"recipe,omitempty"`
	Servings   float64     `json:"servings,omitempty"`
	Ingredient *Ingredient `json:"ingredient,omitempty"`
	Quantity   *float64    `json:"quantity,omitempty"`
	Unit       *string     `json:"unit,omitempty"`
}
