package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/akazakov/cookbook/internal/models"
	"github.com/akazakov/cookbook/internal/repository"
)

type ingredientRepository struct {
	db *sql.DB
}

// NewIngredientRepository creates a new ingredient catalog repository
func NewIngredientRepository(db *sql.DB) repository.IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) Create(ctx context.Context, ingredient *models.Ingredient) (*models.Ingredient, error) {
	query := `
		INSERT INTO ingredients (name, unit, created_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	ingredient.CreatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		ingredient.Name,
		ingredient.Unit,
		ingredient.CreatedAt,
	).Scan(&ingredient.ID, &ingredient.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create ingredient: %w", err)
	}

	return ingredient, nil
}

func (r *ingredientRepository) GetByID(ctx context.Context, id int64) (*models.Ingredient, error) {
	query := `SELECT id, name, unit, created_at FROM ingredients WHERE id = $1`

	ingredient := &models.Ingredient{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&ingredient.ID,
		&ingredient.Name,
		&ingredient.Unit,
		&ingredient.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}

	return ingredient, nil
}

func (r *ingredientRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.Ingredient, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT id, name, unit, created_at FROM ingredients WHERE id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query ingredients: %w", err)
	}
	defer rows.Close()

	return scanIngredients(rows)
}

func (r *ingredientRepository) SearchByPrefix(ctx context.Context, prefix string, limit int) ([]*models.Ingredient, error) {
	query := `
		SELECT id, name, unit, created_at
		FROM ingredients
		WHERE name ILIKE $1 || '%'
		ORDER BY name ASC
		LIMIT $2`

	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, query, escapeLikePrefix(prefix), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search ingredients: %w", err)
	}
	defer rows.Close()

	return scanIngredients(rows)
}

// escapeLikePrefix neutralizes LIKE metacharacters in a user-supplied prefix
// so "%" and "_" match themselves instead of acting as wildcards.
func escapeLikePrefix(prefix string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(prefix)
}

func scanIngredients(rows *sql.Rows) ([]*models.Ingredient, error) {
	var ingredients []*models.Ingredient
	for rows.Next() {
		ingredient := &models.Ingredient{}
		if err := rows.Scan(
			&ingredient.ID,
			&ingredient.Name,
			&ingredient.Unit,
			&ingredient.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, ingredient)
	}
	return ingredients, rows.Err()
}
