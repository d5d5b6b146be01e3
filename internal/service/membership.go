package service

import (
	"context"

	"github.com/akazakov/cookbook/internal/apperrors"
	"github.com/akazakov/cookbook/internal/models"
	"github.com/akazakov/cookbook/internal/repository"
)

// addMembership inserts a (user, recipe) pair into one of the two relations.
// A pair that is already a member is a conflict, not a silent no-op, and the
// success payload is the recipe summary view.
func (s *Service) addMembership(ctx context.Context, repo repository.MembershipRepository, actor *models.User, recipeID int64) (*models.RecipeSummary, error) {
	recipe, err := s.Recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if recipe == nil {
		return nil, apperrors.NotFoundf("recipe %d not found", recipeID)
	}

	member, err := repo.Exists(ctx, actor.ID, recipeID)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if member {
		return nil, apperrors.Conflictf("recipe %d is already a member", recipeID)
	}

	if err := repo.Add(ctx, actor.ID, recipeID); err != nil {
		return nil, apperrors.Storage(err)
	}

	summary := models.NewRecipeSummary(recipe)
	return &summary, nil
}

// removeMembership deletes a (user, recipe) pair. Removing a pair that is
// not a member is not-found.
func (s *Service) removeMembership(ctx context.Context, repo repository.MembershipRepository, actor *models.User, recipeID int64) error {
	member, err := repo.Exists(ctx, actor.ID, recipeID)
	if err != nil {
		return apperrors.Storage(err)
	}
	if !member {
		return apperrors.NotFoundf("recipe %d is not a member", recipeID)
	}

	if err := repo.Remove(ctx, actor.ID, recipeID); err != nil {
		return apperrors.Storage(err)
	}
	return nil
}

// AddFavorite marks the recipe as favorited by the actor.
func (s *Service) AddFavorite(ctx context.Context, actor *models.User, recipeID int64) (*models.RecipeSummary, error) {
	return s.addMembership(ctx, s.Favorites, actor, recipeID)
}

// RemoveFavorite clears the actor's favorite mark from the recipe.
func (s *Service) RemoveFavorite(ctx context.Context, actor *models.User, recipeID int64) error {
	return s.removeMembership(ctx, s.Favorites, actor, recipeID)
}

// AddToCart puts the recipe into the actor's shopping cart.
func (s *Service) AddToCart(ctx context.Context, actor *models.User, recipeID int64) (*models.RecipeSummary, error) {
	return s.addMembership(ctx, s.Cart, actor, recipeID)
}

// RemoveFromCart takes the recipe out of the actor's shopping cart.
func (s *Service) RemoveFromCart(ctx context.Context, actor *models.User, recipeID int64) error {
	return s.removeMembership(ctx, s.Cart, actor, recipeID)
}
