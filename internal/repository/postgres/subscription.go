package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/akazakov/cookbook/internal/apperrors"
	"github.com/akazakov/cookbook/internal/models"
	"github.com/akazakov/cookbook/internal/repository"
)

type subscriptionRepository struct {
	db *sql.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *sql.DB) repository.SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Add(ctx context.Context, subscriberID, authorID int64) error {
	query := `
		INSERT INTO subscriptions (subscriber_id, author_id, created_at)
		VALUES ($1, $2, $3)`

	if _, err := r.db.ExecContext(ctx, query, subscriberID, authorID, time.Now()); err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflictf("already subscribed to user %d", authorID)
		}
		if isForeignKeyViolation(err) {
			return apperrors.NotFoundf("user %d not found", authorID)
		}
		return fmt.Errorf("failed to add subscription: %w", err)
	}
	return nil
}

func (r *subscriptionRepository) Remove(ctx context.Context, subscriberID, authorID int64) error {
	query := `DELETE FROM subscriptions WHERE subscriber_id = $1 AND author_id = $2`

	result, err := r.db.ExecContext(ctx, query, subscriberID, authorID)
	if err != nil {
		return fmt.Errorf("failed to remove subscription: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NotFoundf("not subscribed to user %d", authorID)
	}
	return nil
}

func (r *subscriptionRepository) Exists(ctx context.Context, subscriberID, authorID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM subscriptions WHERE subscriber_id = $1 AND author_id = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, subscriberID, authorID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check subscription: %w", err)
	}
	return exists, nil
}

func (r *subscriptionRepository) ListAuthors(ctx context.Context, subscriberID int64) ([]*models.User, error) {
	query := `
		SELECT u.id, u.email, u.username, u.first_name, u.last_name, u.password_hash, u.created_at, u.updated_at
		FROM users u
		INNER JOIN subscriptions s ON s.author_id = u.id
		WHERE s.subscriber_id = $1
		ORDER BY s.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	var authors []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.Username,
			&user.FirstName,
			&user.LastName,
			&user.PasswordHash,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan subscription author: %w", err)
		}
		authors = append(authors, user)
	}
	return authors, rows.Err()
}
