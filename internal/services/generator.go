package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/foxxcyber/meal-cart/internal/models"
)

// MealPlanReader loads a user's meal plan entries in a date range with their
// ingredient, recipe and menu graphs populated. Entries may come in any order.
type MealPlanReader interface {
	ListMealPlanEntries(ctx context.Context, userID int, from, to time.Time) ([]models.MealPlanEntry, error)
}

// ShoppingListWriter persists a whole list with its items in one write,
// keeping the item order of the draft
type ShoppingListWriter interface {
	CreateShoppingList(ctx context.Context, userID int, draft *models.ShoppingListDraft) (*models.ShoppingListWithItems, error)
}

// ShoppingListGenerator builds shopping lists from scheduled meals
type ShoppingListGenerator struct {
	reader MealPlanReader
	writer ShoppingListWriter
	logger *zap.Logger
	now    func() time.Time
}

// GeneratorOption customizes a ShoppingListGenerator
type GeneratorOption func(*ShoppingListGenerator)

// WithClock overrides the clock used to exclude past meals
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *ShoppingListGenerator) {
		g.now = now
	}
}

// NewShoppingListGenerator creates a generator. A nil logger disables logging.
func NewShoppingListGenerator(reader MealPlanReader, writer ShoppingListWriter, logger *zap.Logger, opts ...GeneratorOption) *ShoppingListGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &ShoppingListGenerator{
		reader: reader,
		writer: writer,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate creates a shopping list covering the meals a user still has to eat
// between from and to, both days included. name may be nil.
func (g *ShoppingListGenerator) Generate(ctx context.Context, userID int, from, to time.Time, name *string) (*models.ShoppingListWithItems, error) {
	start, end := DayBounds(from, to)
	if start.After(end) {
		return nil, ErrInvalidDateRange
	}

	log := g.logger.With(
		zap.String("generation_id", uuid.NewString()),
		zap.Int("user_id", userID),
		zap.Time("from", start),
		zap.Time("to", end),
	)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := g.reader.ListMealPlanEntries(ctx, userID, start, end)
	if err != nil {
		return nil, &UpstreamError{Op: "read meal plan", Err: err}
	}

	entries = FilterScope(entries, start, end, g.now())
	if len(entries) == 0 {
		log.Debug("no upcoming meal plan entries in range")
		return nil, ErrNoMealPlanEntries
	}

	agg := NewAggregation()
	for _, entry := range entries {
		contributions, err := ResolveMealEntry(entry)
		if err != nil {
			log.Warn("meal plan entry could not be resolved", zap.Int64("entry_id", entry.ID), zap.Error(err))
			return nil, err
		}
		log.Debug("resolved meal plan entry",
			zap.Int64("entry_id", entry.ID),
			zap.Time("date", entry.Date),
			zap.String("slot", string(entry.Slot)),
			zap.Int("contributions", len(contributions)),
		)
		for _, c := range contributions {
			agg.Add(c)
		}
	}

	draft := &models.ShoppingListDraft{
		Name:     ListName(name, start, end),
		FromDate: &start,
		ToDate:   &end,
		Items:    Assemble(agg),
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	list, err := g.writer.CreateShoppingList(ctx, userID, draft)
	if err != nil {
		return nil, &UpstreamError{Op: "create shopping list", Err: err}
	}

	log.Info("shopping list generated",
		zap.Int64("list_id", list.ID),
		zap.Int("entries", len(entries)),
		zap.Int("items", len(draft.Items)),
	)
	return list, nil
}

// DayBounds widens a date range to whole UTC days: from at 00:00:00.000 and to
// at 23:59:59.999
func DayBounds(from, to time.Time) (start, end time.Time) {
	from, to = from.UTC(), to.UTC()
	start = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, int(999*time.Millisecond), time.UTC)
	return start, end
}

// FilterScope keeps the entries dated within [start, end] that are not in the
// past relative to now, ordered by date then id
func FilterScope(entries []models.MealPlanEntry, start, end, now time.Time) []models.MealPlanEntry {
	scoped := make([]models.MealPlanEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Date.Before(start) || entry.Date.After(end) || entry.Date.Before(now) {
			continue
		}
		scoped = append(scoped, entry)
	}

	sort.SliceStable(scoped, func(i, j int) bool {
		if !scoped[i].Date.Equal(scoped[j].Date) {
			return scoped[i].Date.Before(scoped[j].Date)
		}
		return scoped[i].ID < scoped[j].ID
	})
	return scoped
}
