package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/akazakov/cookbook/internal/apperrors"
	"github.com/akazakov/cookbook/internal/models"
	"github.com/akazakov/cookbook/internal/repository"
)

type tagRepository struct {
	db *sql.DB
}

// NewTagRepository creates a new tag catalog repository
func NewTagRepository(db *sql.DB) repository.TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(ctx context.Context, tag *models.Tag) (*models.Tag, error) {
	query := `
		INSERT INTO tags (name, color, slug)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		tag.Name,
		tag.Color,
		tag.Slug,
	).Scan(&tag.ID)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflictf("tag with this name, color or slug already exists")
		}
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	return tag, nil
}

func (r *tagRepository) GetByID(ctx context.Context, id int64) (*models.Tag, error) {
	query := `SELECT id, name, color, slug FROM tags WHERE id = $1`

	tag := &models.Tag{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&tag.ID,
		&tag.Name,
		&tag.Color,
		&tag.Slug,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}

	return tag, nil
}

func (r *tagRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT id, name, color, slug FROM tags WHERE id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	return scanTags(rows)
}

func (r *tagRepository) List(ctx context.Context) ([]*models.Tag, error) {
	query := `SELECT id, name, color, slug FROM tags ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	return scanTags(rows)
}

func scanTags(rows *sql.Rows) ([]*models.Tag, error) {
	var tags []*models.Tag
	for rows.Next() {
		tag := &models.Tag{}
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Color, &tag.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}
