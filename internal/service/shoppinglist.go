package service

import (
	"context"

	"github.com/akazakov/cookbook/internal/apperrors"
	"github.com/akazakov/cookbook/internal/models"
)

// ShoppingList returns the actor's aggregated shopping list: for every
// ingredient appearing in any recipe in the cart, one line with the amount
// summed across all of those recipes. An empty cart yields an empty list.
//
// The aggregation is one grouped read in the repository; it is never
// assembled recipe-by-recipe, so the query count stays constant as the cart
// grows.
func (s *Service) ShoppingList(ctx context.Context, actor *models.User) ([]models.ShoppingListLine, error) {
	lines, err := s.Cart.AggregateLines(ctx, actor.ID)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if lines == nil {
		lines = []models.ShoppingListLine{}
	}
	return lines, nil
}
