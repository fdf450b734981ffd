package models

import (
	"time"
)

// Aisle is the store department an ingredient is shelved in. The string value is
// the canonical code used for sorting shopping lists.
type Aisle string

const (
	AisleBakery          Aisle = "BAKERY"
	AisleBeverages       Aisle = "BEVERAGES"
	AisleCondiments      Aisle = "CONDIMENTS"
	AisleDairy           Aisle = "DAIRY"
	AisleFish            Aisle = "FISH"
	AisleFrozen          Aisle = "FROZEN"
	AisleFruitsVegetable Aisle = "FRUITS_VEGETABLES"
	AisleGrocery         Aisle = "GROCERY"
	AisleHousehold       Aisle = "HOUSEHOLD"
	AisleMeat            Aisle = "MEAT"
	AisleSpices          Aisle = "SPICES"
	AisleOther           Aisle = "OTHER"
)

var validAisles = map[Aisle]bool{
	AisleBakery:          true,
	AisleBeverages:       true,
	AisleCondiments:      true,
	AisleDairy:           true,
	AisleFish:            true,
	AisleFrozen:          true,
	AisleFruitsVegetable: true,
	AisleGrocery:         true,
	AisleHousehold:       true,
	AisleMeat:            true,
	AisleSpices:          true,
	AisleOther:           true,
}

// Valid reports whether a is one of the known aisle codes
func (a Aisle) Valid() bool {
	return validAisles[a]
}

// Ingredient is a canonical article that recipes, menus and meal plans refer to
type Ingredient struct {
	ID        int64     `json:"id"`
	Label     string    `json:"label"`
	Aisle     *Aisle    `json:"aisle,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateIngredientRequest is the request body for creating an ingredient
type CreateIngredientRequest struct {
	Label string `json:"label"`
	Aisle *Aisle `json:"aisle,omitempty"`
}
