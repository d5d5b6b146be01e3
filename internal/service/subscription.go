package service

import (
	"context"

	"github.com/akazakov/cookbook/internal/apperrors"
	"github.com/akazakov/cookbook/internal/models"
	"github.com/akazakov/cookbook/internal/repository"
)

// subscriptionRecipeLimit caps how many recipe summaries each author
// contributes to the subscriptions listing.
const subscriptionRecipeLimit = 6

// Subscribe adds authorID to the actor's subscriptions. Subscribing to
// yourself or subscribing twice is rejected.
func (s *Service) Subscribe(ctx context.Context, actor *models.User, authorID int64) error {
	if authorID == actor.ID {
		return apperrors.Validationf("cannot subscribe to yourself")
	}

	author, err := s.Users.GetByID(ctx, authorID)
	if err != nil {
		return apperrors.Storage(err)
	}
	if author == nil {
		return apperrors.NotFoundf("user %d not found", authorID)
	}

	subscribed, err := s.Subscriptions.Exists(ctx, actor.ID, authorID)
	if err != nil {
		return apperrors.Storage(err)
	}
	if subscribed {
		return apperrors.Conflictf("already subscribed to %s", author.DisplayName())
	}

	if err := s.Subscriptions.Add(ctx, actor.ID, authorID); err != nil {
		return apperrors.Storage(err)
	}

	s.logger.WithFields(map[string]interface{}{
		"subscriber_id": actor.ID,
		"author_id":     authorID,
	}).Info("Subscription added")
	return nil
}

// Unsubscribe removes authorID from the actor's subscriptions.
func (s *Service) Unsubscribe(ctx context.Context, actor *models.User, authorID int64) error {
	subscribed, err := s.Subscriptions.Exists(ctx, actor.ID, authorID)
	if err != nil {
		return apperrors.Storage(err)
	}
	if !subscribed {
		return apperrors.NotFoundf("not subscribed to user %d", authorID)
	}

	if err := s.Subscriptions.Remove(ctx, actor.ID, authorID); err != nil {
		return apperrors.Storage(err)
	}
	return nil
}

// ListSubscriptions returns every author the actor follows, each with a
// short slice of their newest recipes.
func (s *Service) ListSubscriptions(ctx context.Context, actor *models.User) ([]models.SubscriptionView, error) {
	authors, err := s.Subscriptions.ListAuthors(ctx, actor.ID)
	if err != nil {
		return nil, apperrors.Storage(err)
	}

	views := make([]models.SubscriptionView, 0, len(authors))
	for _, author := range authors {
		authorID := author.ID
		recipes, err := s.Recipes.List(ctx, repository.RecipeFilters{
			AuthorID: &authorID,
			Limit:    subscriptionRecipeLimit,
		})
		if err != nil {
			return nil, apperrors.Storage(err)
		}

		view := models.SubscriptionView{
			Author:  models.NewUserView(author),
			Recipes: make([]models.RecipeSummary, 0, len(recipes)),
		}
		for _, recipe := range recipes {
			view.Recipes = append(view.Recipes, models.NewRecipeSummary(recipe))
		}
		views = append(views, view)
	}
	return views, nil
}
