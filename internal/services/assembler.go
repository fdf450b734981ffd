package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/foxxcyber/meal-cart/internal/models"
)

const listDateLayout = "02/01/2006"

// Assemble turns aggregated totals into list item drafts sorted by aisle.
// Quantities are rounded up to two decimals so a shopper never under-buys.
func Assemble(agg *Aggregation) []models.ShoppingListItemDraft {
	drafts := make([]models.ShoppingListItemDraft, 0, len(agg.Scalable)+len(agg.NonScalable))

	for _, total := range agg.Scalable {
		quantity := roundUp(total.Sum).InexactFloat64()
		unit := total.Unit
		drafts = append(drafts, models.ShoppingListItemDraft{
			IngredientID:     int64Ptr(total.IngredientID),
			Label:            total.Label,
			Aisle:            total.Aisle,
			Quantity:         &quantity,
			Unit:             &unit,
			MealPlanEntryIDs: append([]int64(nil), total.SourceIDs...),
		})
	}

	for _, entry := range agg.NonScalable {
		drafts = append(drafts, models.ShoppingListItemDraft{
			IngredientID:     int64Ptr(entry.IngredientID),
			Label:            entry.Label,
			Aisle:            entry.Aisle,
			MealPlanEntryIDs: append([]int64(nil), entry.SourceIDs...),
		})
	}

	SortDraftsByAisle(drafts)
	return drafts
}

// SortDraftsByAisle orders drafts by aisle code. Drafts without an aisle go last;
// ties keep their relative order.
func SortDraftsByAisle(drafts []models.ShoppingListItemDraft) {
	sort.SliceStable(drafts, func(i, j int) bool {
		a, b := drafts[i].Aisle, drafts[j].Aisle
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return *a < *b
	})
}

// ListName returns the caller's name when given, otherwise a name built from
// the requested calendar dates
func ListName(name *string, from, to time.Time) string {
	if name != nil && strings.TrimSpace(*name) != "" {
		return *name
	}
	return fmt.Sprintf("Courses du %s au %s", from.UTC().Format(listDateLayout), to.UTC().Format(listDateLayout))
}

// roundUp rounds a total up to two decimals. The residue that ratio divisions
// leave past decimal.DivisionPrecision-2 digits is dropped first: three thirds
// of 200 g sum to 200.0000000000000001 and must stay 200.
func roundUp(sum decimal.Decimal) decimal.Decimal {
	return sum.Round(int32(decimal.DivisionPrecision - 2)).RoundCeil(2)
}

func int64Ptr(v int64) *int64 {
	return &v
}
