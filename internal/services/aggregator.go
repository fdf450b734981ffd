package services

import (
	"github.com/shopspring/decimal"

	"github.com/foxxcyber/meal-cart/internal/models"
)

type scalableKey struct {
	ingredientID int64
	unit         string
}

// ScalableTotal is the running sum of one ingredient in one unit
type ScalableTotal struct {
	IngredientID int64
	Label        string
	Aisle        *models.Aisle
	Unit         string
	Sum          decimal.Decimal
	SourceIDs    []int64
}

// NonScalableEntry tracks a to-taste ingredient. It never carries a quantity.
type NonScalableEntry struct {
	IngredientID int64
	Label        string
	Aisle        *models.Aisle
	SourceIDs    []int64
}

// Aggregation accumulates contributions. Both buckets keep the order in which
// their keys were first seen.
type Aggregation struct {
	Scalable    []*ScalableTotal
	NonScalable []*NonScalableEntry

	scalableIdx    map[scalableKey]*ScalableTotal
	nonScalableIdx map[int64]*NonScalableEntry
}

// NewAggregation creates an empty accumulator
func NewAggregation() *Aggregation {
	return &Aggregation{
		scalableIdx:    make(map[scalableKey]*ScalableTotal),
		nonScalableIdx: make(map[int64]*NonScalableEntry),
	}
}

// Aggregate merges contributions by (ingredient, unit) for scalable ones and by
// ingredient alone for non-scalable ones
func Aggregate(contributions []ResolvedContribution) *Aggregation {
	agg := NewAggregation()
	for _, c := range contributions {
		agg.Add(c)
	}
	return agg
}

// Add folds one contribution into the accumulator. Source ids are appended as
// they come, repeats included.
func (a *Aggregation) Add(c ResolvedContribution) {
	if !c.Scalable {
		entry, ok := a.nonScalableIdx[c.IngredientID]
		if !ok {
			entry = &NonScalableEntry{
				IngredientID: c.IngredientID,
				Label:        c.Label,
				Aisle:        c.Aisle,
			}
			a.nonScalableIdx[c.IngredientID] = entry
			a.NonScalable = append(a.NonScalable, entry)
		}
		entry.SourceIDs = append(entry.SourceIDs, c.SourceID)
		return
	}

	// Scalable lines without quantity or unit are filtered at resolution
	if !c.Quantity.Valid || c.Unit == nil {
		return
	}

	key := scalableKey{ingredientID: c.IngredientID, unit: *c.Unit}
	total, ok := a.scalableIdx[key]
	if !ok {
		total = &ScalableTotal{
			IngredientID: c.IngredientID,
			Label:        c.Label,
			Aisle:        c.Aisle,
			Unit:         *c.Unit,
			Sum:          decimal.Zero,
		}
		a.scalableIdx[key] = total
		a.Scalable = append(a.Scalable, total)
	}
	total.Sum = total.Sum.Add(c.Quantity.Decimal)
	total.SourceIDs = append(total.SourceIDs, c.SourceID)
}
