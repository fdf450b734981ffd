package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/meal-cart/internal/models"
)

var ErrIngredientNotFound = errors.New("ingredient not found")

// ListIngredients returns the whole ingredient catalogue ordered by label
func (db *DB) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, label, aisle, created_at FROM ingredients ORDER BY label ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ingredients := []models.Ingredient{}
	for rows.Next() {
		var i models.Ingredient
		if err := rows.Scan(&i.ID, &i.Label, &i.Aisle, &i.CreatedAt); err != nil {
			return nil, err
		}
		ingredients = append(ingredients, i)
	}

	return ingredients, rows.Err()
}

// GetIngredientByID retrieves one ingredient
func (db *DB) GetIngredientByID(ctx context.Context, id int64) (*models.Ingredient, error) {
	i := &models.Ingredient{}
	err := db.Pool.QueryRow(ctx, `
		SELECT id, label, aisle, created_at FROM ingredients WHERE id = $1
	`, id).Scan(&i.ID, &i.Label, &i.Aisle, &i.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIngredientNotFound
		}
		return nil, err
	}
	return i, nil
}

// CreateIngredient inserts a new ingredient
func (db *DB) CreateIngredient(ctx context.Context, req *models.CreateIngredientRequest) (*models.Ingredient, error) {
	i := &models.Ingredient{}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO ingredients (label, aisle, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, label, aisle, created_at
	`, req.Label, req.Aisle).Scan(&i.ID, &i.Label, &i.Aisle, &i.CreatedAt)
	if err != nil {
		return nil, err
	}
	return i, nil
}

// CreateIngredients inserts a batch of ingredients in a single transaction
func (db *DB) CreateIngredients(ctx context.Context, reqs []models.CreateIngredientRequest) ([]models.Ingredient, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	created := make([]models.Ingredient, 0, len(reqs))
	for _, req := range reqs {
		var i models.Ingredient
		err := tx.QueryRow(ctx, `
			INSERT INTO ingredients (label, aisle, created_at)
			VALUES ($1, $2, NOW())
			RETURNING id, label, aisle, created_at
		`, req.Label, req.Aisle).Scan(&i.ID, &i.Label, &i.Aisle, &i.CreatedAt)
		if err != nil {
			return nil, err
		}
		created = append(created, i)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}
