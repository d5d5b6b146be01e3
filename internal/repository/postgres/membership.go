package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/akazakov/cookbook/internal/apperrors"
	"github.com/akazakov/cookbook/internal/models"
	"github.com/akazakov/cookbook/internal/repository"
)

// membershipRepository serves both user-recipe relations; the table name is
// the only difference between favorites and the shopping cart.
type membershipRepository struct {
	db    *sql.DB
	table string
}

// NewFavoriteRepository creates the favorite membership repository
func NewFavoriteRepository(db *sql.DB) repository.MembershipRepository {
	return &membershipRepository{db: db, table: "favorite_recipes"}
}

type cartRepository struct {
	membershipRepository
}

// NewCartRepository creates the shopping-cart repository
func NewCartRepository(db *sql.DB) repository.CartRepository {
	return &cartRepository{membershipRepository{db: db, table: "cart_recipes"}}
}

func (r *membershipRepository) Add(ctx context.Context, userID, recipeID int64) error {
	query := fmt.Sprintf(`INSERT INTO %s (user_id, recipe_id) VALUES ($1, $2)`, r.table)

	if _, err := r.db.ExecContext(ctx, query, userID, recipeID); err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflictf("recipe %d is already a member", recipeID)
		}
		if isForeignKeyViolation(err) {
			return apperrors.NotFoundf("recipe %d not found", recipeID)
		}
		return fmt.Errorf("failed to add membership: %w", err)
	}
	return nil
}

func (r *membershipRepository) Remove(ctx context.Context, userID, recipeID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1 AND recipe_id = $2`, r.table)

	result, err := r.db.ExecContext(ctx, query, userID, recipeID)
	if err != nil {
		return fmt.Errorf("failed to remove membership: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NotFoundf("recipe %d is not a member", recipeID)
	}
	return nil
}

func (r *membershipRepository) Exists(ctx context.Context, userID, recipeID int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE user_id = $1 AND recipe_id = $2)`, r.table)

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, recipeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}

// AggregateLines sums ingredient amounts over every recipe in the user's
// cart with a single grouped read. Grouping by (name, unit) merges the same
// ingredient across recipes; the ORDER BY keeps the output deterministic for
// a given database state.
func (r *cartRepository) AggregateLines(ctx context.Context, userID int64) ([]models.ShoppingListLine, error) {
	query := `
		SELECT i.name, i.unit, SUM(il.amount)
		FROM cart_recipes cr
		INNER JOIN ingredient_lines il ON il.recipe_id = cr.recipe_id
		INNER JOIN ingredients i ON i.id = il.ingredient_id
		WHERE cr.user_id = $1
		GROUP BY i.name, i.unit
		ORDER BY i.name ASC, i.unit ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate shopping list: %w", err)
	}
	defer rows.Close()

	var lines []models.ShoppingListLine
	for rows.Next() {
		var line models.ShoppingListLine
		if err := rows.Scan(&line.IngredientName, &line.Unit, &line.TotalAmount); err != nil {
			return nil, fmt.Errorf("failed to scan shopping list line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
