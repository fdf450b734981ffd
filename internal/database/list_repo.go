package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/meal-cart/internal/models"
)

var (
	ErrListNotFound     = errors.New("shopping list not found")
	ErrListItemNotFound = errors.New("list item not found")
	ErrNotListOwner     = errors.New("not the owner of this list")
)

const listItemColumns = `
	id, list_id, position, ingredient_id, label, aisle, quantity, unit,
	checked, is_manual, meal_plan_entry_ids, created_at`

func scanListItem(row pgx.Row, item *models.ShoppingListItem) error {
	return row.Scan(
		&item.ID, &item.ListID, &item.Position, &item.IngredientID, &item.Label, &item.Aisle,
		&item.Quantity, &item.Unit, &item.Checked, &item.IsManual, &item.MealPlanEntryIDs, &item.CreatedAt,
	)
}

// CreateShoppingList persists a list and all its items in one transaction.
// Items keep the order of the draft.
func (db *DB) CreateShoppingList(ctx context.Context, userID int, draft *models.ShoppingListDraft) (*models.ShoppingListWithItems, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	list := &models.ShoppingListWithItems{}
	err = tx.QueryRow(ctx, `
		INSERT INTO shopping_lists (user_id, name, from_date, to_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, user_id, name, from_date, to_date, created_at, updated_at
	`, userID, draft.Name, draft.FromDate, draft.ToDate).Scan(
		&list.ID, &list.UserID, &list.Name, &list.FromDate, &list.ToDate, &list.CreatedAt, &list.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	list.Items = make([]models.ShoppingListItem, 0, len(draft.Items))
	for i, d := range draft.Items {
		sourceIDs := d.MealPlanEntryIDs
		if sourceIDs == nil {
			sourceIDs = []int64{}
		}

		item := models.ShoppingListItem{}
		err := scanListItem(tx.QueryRow(ctx, `
			INSERT INTO shopping_list_items
				(list_id, position, ingredient_id, label, aisle, quantity, unit, checked, is_manual, meal_plan_entry_ids, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
			RETURNING`+listItemColumns,
			list.ID, i, d.IngredientID, d.Label, d.Aisle, d.Quantity, d.Unit, d.Checked, d.IsManual, sourceIDs,
		), &item)
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, item)
	}
	list.ItemCount = len(list.Items)

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return list, nil
}

// ListShoppingLists returns all shopping lists for a user
func (db *DB) ListShoppingLists(ctx context.Context, params *models.ListListParams) ([]*models.ShoppingListSummary, int, error) {
	var total int
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM shopping_lists WHERE user_id = $1`,
		params.UserID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT
			sl.id, sl.name, sl.from_date, sl.to_date, sl.created_at, sl.updated_at,
			COALESCE((SELECT COUNT(*) FROM shopping_list_items WHERE list_id = sl.id), 0) as item_count,
			COALESCE((SELECT COUNT(*) FROM shopping_list_items WHERE list_id = sl.id AND checked), 0) as checked_count
		FROM shopping_lists sl
		WHERE sl.user_id = $1
		ORDER BY sl.updated_at DESC
		LIMIT $2 OFFSET $3
	`, params.UserID, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	lists := []*models.ShoppingListSummary{}
	for rows.Next() {
		l := &models.ShoppingListSummary{}
		err := rows.Scan(
			&l.ID, &l.Name, &l.FromDate, &l.ToDate, &l.CreatedAt, &l.UpdatedAt,
			&l.ItemCount, &l.CheckedCount,
		)
		if err != nil {
			return nil, 0, err
		}
		lists = append(lists, l)
	}

	return lists, total, rows.Err()
}

// GetShoppingListByID retrieves a shopping list with all its items
func (db *DB) GetShoppingListByID(ctx context.Context, id int64, userID int) (*models.ShoppingListWithItems, error) {
	list := &models.ShoppingListWithItems{}
	err := db.Pool.QueryRow(ctx, `
		SELECT id, user_id, name, from_date, to_date, created_at, updated_at
		FROM shopping_lists
		WHERE id = $1
	`, id).Scan(
		&list.ID, &list.UserID, &list.Name, &list.FromDate, &list.ToDate, &list.CreatedAt, &list.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrListNotFound
		}
		return nil, err
	}

	// Check ownership
	if list.UserID != userID {
		return nil, ErrNotListOwner
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT`+listItemColumns+`
		FROM shopping_list_items
		WHERE list_id = $1
		ORDER BY position ASC, id ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list.Items = []models.ShoppingListItem{}
	for rows.Next() {
		item := models.ShoppingListItem{}
		if err := scanListItem(rows, &item); err != nil {
			return nil, err
		}
		list.Items = append(list.Items, item)
	}
	list.ItemCount = len(list.Items)

	return list, rows.Err()
}

// DeleteShoppingList deletes a shopping list
func (db *DB) DeleteShoppingList(ctx context.Context, id int64, userID int) error {
	result, err := db.Pool.Exec(ctx, `
		DELETE FROM shopping_lists WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrListNotFound
	}

	return nil
}

// AddItemToList appends a manual free-text item at the end of a list
func (db *DB) AddItemToList(ctx context.Context, listID int64, userID int, req *models.AddListItemRequest) (*models.ShoppingListItem, error) {
	if err := db.checkListOwner(ctx, listID, userID); err != nil {
		return nil, err
	}

	item := &models.ShoppingListItem{}
	err := scanListItem(db.Pool.QueryRow(ctx, `
		INSERT INTO shopping_list_items (list_id, position, label, aisle, quantity, unit, is_manual, created_at)
		VALUES ($1, COALESCE((SELECT MAX(position) + 1 FROM shopping_list_items WHERE list_id = $1), 0), $2, $3, $4, $5, TRUE, NOW())
		RETURNING`+listItemColumns,
		listID, req.Label, req.Aisle, req.Quantity, req.Unit,
	), item)
	if err != nil {
		return nil, err
	}

	// Update list's updated_at
	_, _ = db.Pool.Exec(ctx, `UPDATE shopping_lists SET updated_at = NOW() WHERE id = $1`, listID)

	return item, nil
}

// UpdateListItem sets the checked flag of an item in a list
func (db *DB) UpdateListItem(ctx context.Context, listID int64, itemID int64, userID int, req *models.UpdateListItemRequest) (*models.ShoppingListItem, error) {
	if err := db.checkListOwner(ctx, listID, userID); err != nil {
		return nil, err
	}

	item := &models.ShoppingListItem{}
	err := scanListItem(db.Pool.QueryRow(ctx, `
		UPDATE shopping_list_items
		SET checked = $3
		WHERE list_id = $1 AND id = $2
		RETURNING`+listItemColumns,
		listID, itemID, req.Checked,
	), item)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrListItemNotFound
		}
		return nil, err
	}

	_, _ = db.Pool.Exec(ctx, `UPDATE shopping_lists SET updated_at = NOW() WHERE id = $1`, listID)

	return item, nil
}

func (db *DB) checkListOwner(ctx context.Context, listID int64, userID int) error {
	var ownerID int
	err := db.Pool.QueryRow(ctx, `SELECT user_id FROM shopping_lists WHERE id = $1`, listID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrListNotFound
		}
		return err
	}
	if ownerID != userID {
		return ErrNotListOwner
	}
	return nil
}
