package service

import (
	"context"
	"strings"

	"github.com/akazakov/cookbook/internal/apperrors"
	"github.com/akazakov/cookbook/internal/models"
)

// ListTags returns the whole tag catalog.
func (s *Service) ListTags(ctx context.Context) ([]*models.Tag, error) {
	tags, err := s.Tags.List(ctx)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return tags, nil
}

// GetTag returns one tag by id.
func (s *Service) GetTag(ctx context.Context, id int64) (*models.Tag, error) {
	tag, err := s.Tags.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if tag == nil {
		return nil, apperrors.NotFoundf("tag %d not found", id)
	}
	return tag, nil
}

// SearchIngredients returns catalog ingredients whose name starts with the
// given prefix.
func (s *Service) SearchIngredients(ctx context.Context, prefix string, limit int) ([]*models.Ingredient, error) {
	ingredients, err := s.Ingredients.SearchByPrefix(ctx, strings.TrimSpace(prefix), limit)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return ingredients, nil
}

// GetIngredient returns one ingredient by id.
func (s *Service) GetIngredient(ctx context.Context, id int64) (*models.Ingredient, error) {
	ingredient, err := s.Ingredients.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if ingredient == nil {
		return nil, apperrors.NotFoundf("ingredient %d not found", id)
	}
	return ingredient, nil
}
