package models

import (
	"time"
)

// ShoppingList represents a user's shopping list
type ShoppingList struct {
	ID        int64      `json:"id"`
	UserID    int        `json:"user_id"`
	Name      string     `json:"name"`
	FromDate  *time.Time `json:"from_date,omitempty"`
	ToDate    *time.Time `json:"to_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ShoppingListItem is one line of a shopping list. Generated items trace back to
// the meal plan entries that contributed to them.
type ShoppingListItem struct {
	ID               int64     `json:"id"`
	ListID           int64     `json:"list_id"`
	Position         int       `json:"position"`
	IngredientID     *int64    `json:"ingredient_id,omitempty"`
	Label            string    `json:"label"`
	Aisle            *Aisle    `json:"aisle,omitempty"`
	Quantity         *float64  `json:"quantity,omitempty"`
	Unit             *string   `json:"unit,omitempty"`
	Checked          bool      `json:"checked"`
	IsManual         bool      `json:"is_manual"`
	MealPlanEntryIDs []int64   `json:"meal_plan_entry_ids"`
	CreatedAt        time.Time `json:"created_at"`
}

// ShoppingListWithItems includes the list and all its items
type ShoppingListWithItems struct {
	ShoppingList
	Items     []ShoppingListItem `json:"items"`
	ItemCount int                `json:"item_count"`
}

// ShoppingListSummary is a compact representation for list views
type ShoppingListSummary struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	FromDate     *time.Time `json:"from_date,omitempty"`
	ToDate       *time.Time `json:"to_date,omitempty"`
	ItemCount    int        `json:"item_count"`
	CheckedCount int        `json:"checked_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ShoppingListItemDraft is an item ready to be persisted
type ShoppingListItemDraft struct {
	IngredientID     *int64
	Label            string
	Aisle            *Aisle
	Quantity         *float64
	Unit             *string
	Checked          bool
	IsManual         bool
	MealPlanEntryIDs []int64
}

// ShoppingListDraft is a whole list ready to be persisted in a single write
type ShoppingListDraft struct {
	Name     string
	FromDate *time.Time
	ToDate   *time.Time
	Items    []ShoppingListItemDraft
}

// Request types

// GenerateListRequest is the request body for generating a list from the meal plan.
// Dates use the YYYY-MM-DD layout.
type GenerateListRequest struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	Name *string `json:"name,omitempty"`
}

// AddListItemRequest is the request body for adding a free-text item to a list
type AddListItemRequest struct {
	Label    string   `json:"label"`
	Aisle    *Aisle   `json:"aisle,omitempty"`
	Quantity *float64 `json:"quantity,omitempty"`
	Unit     *string  `json:"unit,omitempty"`
}

// UpdateListItemRequest is the request body for updating a list item
type UpdateListItemRequest struct {
	Checked bool `json:"checked"`
}

// ListListParams contains parameters for listing shopping lists
type ListListParams struct {
	Limit  int
	Offset int
	UserID int // Required - lists are always scoped to a user
}

// ExportResult describes a list snapshot written to object storage
type ExportResult struct {
	Key         string    `json:"key"`
	Size        int64     `json:"size"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}
