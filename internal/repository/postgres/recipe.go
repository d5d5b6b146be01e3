package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/akazakov/cookbook/internal/apperrors"
	"github.com/akazakov/cookbook/internal/models"
	"github.com/akazakov/cookbook/internal/repository"
)

type recipeRepository struct {
	db *sql.DB
}

// NewRecipeRepository creates a new recipe aggregate repository
func NewRecipeRepository(db *sql.DB) repository.RecipeRepository {
	return &recipeRepository{db: db}
}

// Create inserts the recipe row and its ingredient-line and tag-link sets in
// one transaction. Either all rows exist after the call or none do.
func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO recipes (author_id, name, image, text, cooking_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	recipe.CreatedAt = time.Now()

	err = tx.QueryRowContext(ctx, query,
		recipe.AuthorID,
		recipe.Name,
		recipe.Image,
		recipe.Text,
		recipe.CookingTime,
		recipe.CreatedAt,
	).Scan(&recipe.ID, &recipe.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflictf("recipe %q already exists for this author", recipe.Name)
		}
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	if err := insertLines(ctx, tx, recipe.ID, recipe.Lines); err != nil {
		return nil, err
	}
	if err := insertTagLinks(ctx, tx, recipe.ID, recipe.Tags); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit recipe create: %w", err)
	}

	return recipe, nil
}

// Update rewrites the scalar columns and replaces the association sets that
// were flagged for replacement. Delete-all-then-insert runs inside the same
// transaction as the scalar update, so concurrent readers never see a
// half-rewritten aggregate.
func (r *recipeRepository) Update(ctx context.Context, recipe *models.Recipe, replaceLines, replaceTags bool) (*models.Recipe, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE recipes
		SET name = $2, image = $3, text = $4, cooking_time = $5
		WHERE id = $1`

	result, err := tx.ExecContext(ctx, query,
		recipe.ID,
		recipe.Name,
		recipe.Image,
		recipe.Text,
		recipe.CookingTime,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflictf("recipe %q already exists for this author", recipe.Name)
		}
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, apperrors.NotFoundf("recipe %d not found", recipe.ID)
	}

	if replaceLines {
		if _, err := tx.ExecContext(ctx, `DELETE FROM ingredient_lines WHERE recipe_id = $1`, recipe.ID); err != nil {
			return nil, fmt.Errorf("failed to clear ingredient lines: %w", err)
		}
		if err := insertLines(ctx, tx, recipe.ID, recipe.Lines); err != nil {
			return nil, err
		}
	}

	if replaceTags {
		if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_tags WHERE recipe_id = $1`, recipe.ID); err != nil {
			return nil, fmt.Errorf("failed to clear tag links: %w", err)
		}
		if err := insertTagLinks(ctx, tx, recipe.ID, recipe.Tags); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit recipe update: %w", err)
	}

	return recipe, nil
}

func insertLines(ctx context.Context, tx *sql.Tx, recipeID int64, lines []models.IngredientLine) error {
	query := `
		INSERT INTO ingredient_lines (recipe_id, ingredient_id, amount)
		VALUES ($1, $2, $3)
		RETURNING id`

	for i := range lines {
		lines[i].RecipeID = recipeID
		err := tx.QueryRowContext(ctx, query, recipeID, lines[i].IngredientID, lines[i].Amount).Scan(&lines[i].ID)
		if err != nil {
			if isForeignKeyViolation(err) {
				return apperrors.NotFoundf("ingredient %d not found", lines[i].IngredientID)
			}
			return fmt.Errorf("failed to insert ingredient line: %w", err)
		}
	}
	return nil
}

func insertTagLinks(ctx context.Context, tx *sql.Tx, recipeID int64, tags []models.Tag) error {
	query := `INSERT INTO recipe_tags (recipe_id, tag_id) VALUES ($1, $2)`

	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx, query, recipeID, tag.ID); err != nil {
			if isForeignKeyViolation(err) {
				return apperrors.NotFoundf("tag %d not found", tag.ID)
			}
			return fmt.Errorf("failed to insert tag link: %w", err)
		}
	}
	return nil
}

func (r *recipeRepository) GetByID(ctx context.Context, id int64) (*models.Recipe, error) {
	query := `
		SELECT r.id, r.author_id, r.name, r.image, r.text, r.cooking_time, r.created_at,
		       u.id, u.email, u.username, u.first_name, u.last_name, u.password_hash, u.created_at, u.updated_at
		FROM recipes r
		INNER JOIN users u ON u.id = r.author_id
		WHERE r.id = $1`

	recipe := &models.Recipe{Author: &models.User{}}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&recipe.ID, &recipe.AuthorID, &recipe.Name, &recipe.Image, &recipe.Text,
		&recipe.CookingTime, &recipe.CreatedAt,
		&recipe.Author.ID, &recipe.Author.Email, &recipe.Author.Username,
		&recipe.Author.FirstName, &recipe.Author.LastName, &recipe.Author.PasswordHash,
		&recipe.Author.CreatedAt, &recipe.Author.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	if err := r.loadAssociations(ctx, recipe); err != nil {
		return nil, err
	}

	return recipe, nil
}

func (r *recipeRepository) loadAssociations(ctx context.Context, recipe *models.Recipe) error {
	lineQuery := `
		SELECT il.id, il.recipe_id, il.ingredient_id, il.amount,
		       i.id, i.name, i.unit, i.created_at
		FROM ingredient_lines il
		INNER JOIN ingredients i ON i.id = il.ingredient_id
		WHERE il.recipe_id = $1
		ORDER BY il.id ASC`

	rows, err := r.db.QueryContext(ctx, lineQuery, recipe.ID)
	if err != nil {
		return fmt.Errorf("failed to query ingredient lines: %w", err)
	}
	defer rows.Close()

	recipe.Lines = recipe.Lines[:0]
	for rows.Next() {
		line := models.IngredientLine{Ingredient: &models.Ingredient{}}
		if err := rows.Scan(
			&line.ID, &line.RecipeID, &line.IngredientID, &line.Amount,
			&line.Ingredient.ID, &line.Ingredient.Name, &line.Ingredient.Unit,
			&line.Ingredient.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to scan ingredient line: %w", err)
		}
		recipe.Lines = append(recipe.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	tagQuery := `
		SELECT t.id, t.name, t.color, t.slug
		FROM recipe_tags rt
		INNER JOIN tags t ON t.id = rt.tag_id
		WHERE rt.recipe_id = $1
		ORDER BY t.id ASC`

	tagRows, err := r.db.QueryContext(ctx, tagQuery, recipe.ID)
	if err != nil {
		return fmt.Errorf("failed to query tag links: %w", err)
	}
	defer tagRows.Close()

	recipe.Tags = recipe.Tags[:0]
	for tagRows.Next() {
		var tag models.Tag
		if err := tagRows.Scan(&tag.ID, &tag.Name, &tag.Color, &tag.Slug); err != nil {
			return fmt.Errorf("failed to scan tag link: %w", err)
		}
		recipe.Tags = append(recipe.Tags, tag)
	}
	return tagRows.Err()
}

func (r *recipeRepository) List(ctx context.Context, filters repository.RecipeFilters) ([]*models.Recipe, error) {
	query := `
		SELECT DISTINCT r.id, r.author_id, r.name, r.image, r.text, r.cooking_time, r.created_at,
		       u.email, u.username, u.first_name, u.last_name
		FROM recipes r
		INNER JOIN users u ON u.id = r.author_id`
	args := []interface{}{}
	argIdx := 1

	if filters.TagSlug != "" {
		query += `
		INNER JOIN recipe_tags rt ON rt.recipe_id = r.id
		INNER JOIN tags t ON t.id = rt.tag_id`
	}

	where := ""
	if filters.AuthorID != nil {
		where = fmt.Sprintf(" WHERE r.author_id = $%d", argIdx)
		args = append(args, *filters.AuthorID)
		argIdx++
	}
	if filters.TagSlug != "" {
		if where == "" {
			where = fmt.Sprintf(" WHERE t.slug = $%d", argIdx)
		} else {
			where += fmt.Sprintf(" AND t.slug = $%d", argIdx)
		}
		args = append(args, filters.TagSlug)
		argIdx++
	}
	query += where

	query += " ORDER BY r.created_at DESC, r.id DESC"
	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, filters.Limit)
		argIdx++
	}
	if filters.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, filters.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	var recipes []*models.Recipe
	for rows.Next() {
		recipe := &models.Recipe{Author: &models.User{}}
		if err := rows.Scan(
			&recipe.ID, &recipe.AuthorID, &recipe.Name, &recipe.Image,
			&recipe.Text, &recipe.CookingTime, &recipe.CreatedAt,
			&recipe.Author.Email, &recipe.Author.Username,
			&recipe.Author.FirstName, &recipe.Author.LastName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipe.Author.ID = recipe.AuthorID
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadAssociationsBatch(ctx, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// loadAssociationsBatch fills the ingredient-line and tag sets for a whole
// page of recipes with two set-based queries rather than a pair per recipe.
func (r *recipeRepository) loadAssociationsBatch(ctx context.Context, recipes []*models.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(recipes))
	byID := make(map[int64]*models.Recipe, len(recipes))
	for _, recipe := range recipes {
		ids = append(ids, recipe.ID)
		byID[recipe.ID] = recipe
	}

	lineQuery := `
		SELECT il.id, il.recipe_id, il.ingredient_id, il.amount,
		       i.id, i.name, i.unit, i.created_at
		FROM ingredient_lines il
		INNER JOIN ingredients i ON i.id = il.ingredient_id
		WHERE il.recipe_id = ANY($1)
		ORDER BY il.recipe_id ASC, il.id ASC`

	rows, err := r.db.QueryContext(ctx, lineQuery, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to query ingredient lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		line := models.IngredientLine{Ingredient: &models.Ingredient{}}
		if err := rows.Scan(
			&line.ID, &line.RecipeID, &line.IngredientID, &line.Amount,
			&line.Ingredient.ID, &line.Ingredient.Name, &line.Ingredient.Unit,
			&line.Ingredient.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to scan ingredient line: %w", err)
		}
		if recipe := byID[line.RecipeID]; recipe != nil {
			recipe.Lines = append(recipe.Lines, line)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	tagQuery := `
		SELECT rt.recipe_id, t.id, t.name, t.color, t.slug
		FROM recipe_tags rt
		INNER JOIN tags t ON t.id = rt.tag_id
		WHERE rt.recipe_id = ANY($1)
		ORDER BY rt.recipe_id ASC, t.id ASC`

	tagRows, err := r.db.QueryContext(ctx, tagQuery, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to query tag links: %w", err)
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var recipeID int64
		var tag models.Tag
		if err := tagRows.Scan(&recipeID, &tag.ID, &tag.Name, &tag.Color, &tag.Slug); err != nil {
			return fmt.Errorf("failed to scan tag link: %w", err)
		}
		if recipe := byID[recipeID]; recipe != nil {
			recipe.Tags = append(recipe.Tags, tag)
		}
	}
	return tagRows.Err()
}

func (r *recipeRepository) ExistsByAuthorAndName(ctx context.Context, authorID int64, name string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM recipes WHERE author_id = $1 AND name = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, authorID, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check recipe name: %w", err)
	}
	return exists, nil
}

// Delete removes the recipe row. Ingredient-lines, tag-links and cart and
// favorite memberships all cascade at the schema level, so no orphaned rows
// survive.
func (r *recipeRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NotFoundf("recipe %d not found", id)
	}
	return nil
}
