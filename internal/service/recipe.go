package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/akazakov/cookbook/internal/apperrors"
	"github.com/akazakov/cookbook/internal/models"
	"github.com/akazakov/cookbook/internal/repository"
)

// IngredientLineInput is one (ingredient, amount) entry of a recipe payload.
type IngredientLineInput struct {
	IngredientID int64 `json:"id"`
	Amount       int   `json:"amount"`
}

// CreateRecipeInput carries a full recipe payload.
type CreateRecipeInput struct {
	Name        string                `json:"name"`
	Image       string                `json:"image"`
	Text        string                `json:"text"`
	CookingTime int                   `json:"cooking_time"`
	TagIDs      []int64               `json:"tags"`
	Ingredients []IngredientLineInput `json:"ingredients"`
}

// UpdateRecipeInput carries a partial recipe payload. Nil pointers mean the
// field was absent and the stored value is preserved. A nil Ingredients
// slice (or one that is empty after dropping entries with no ingredient
// reference) leaves the existing line set untouched; a nil TagIDs pointer
// leaves the tag-link set untouched.
type UpdateRecipeInput struct {
	Name        *string               `json:"name"`
	Image       *string               `json:"image"`
	Text        *string               `json:"text"`
	CookingTime *int                  `json:"cooking_time"`
	TagIDs      *[]int64              `json:"tags"`
	Ingredients []IngredientLineInput `json:"ingredients"`
}

// CreateRecipe validates the payload, resolves every catalog reference and
// writes the aggregate in one transaction. All validation happens before the
// first write.
func (s *Service) CreateRecipe(ctx context.Context, actor *models.User, in CreateRecipeInput) (*models.Recipe, error) {
	in.Name = strings.TrimSpace(in.Name)

	var verr *multierror.Error
	if in.Name == "" {
		verr = multierror.Append(verr, fmt.Errorf("name is required"))
	}
	if in.CookingTime < 1 {
		verr = multierror.Append(verr, fmt.Errorf("cooking_time must be at least 1, got %d", in.CookingTime))
	}
	if len(in.Ingredients) == 0 {
		verr = multierror.Append(verr, fmt.Errorf("at least one ingredient is required"))
	}
	for i, line := range in.Ingredients {
		if line.Amount < 1 {
			verr = multierror.Append(verr, fmt.Errorf("ingredient line %d: amount must be at least 1, got %d", i, line.Amount))
		}
	}
	if err := verr.ErrorOrNil(); err != nil {
		return nil, apperrors.Validation(err)
	}

	taken, err := s.Recipes.ExistsByAuthorAndName(ctx, actor.ID, in.Name)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if taken {
		return nil, apperrors.Conflictf("recipe %q already exists for this author", in.Name)
	}

	lines, err := s.resolveLines(ctx, in.Ingredients)
	if err != nil {
		return nil, err
	}
	tags, err := s.resolveTags(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}

	image, err := s.storeImage(in.Image)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		AuthorID:    actor.ID,
		Name:        in.Name,
		Image:       image,
		Text:        in.Text,
		CookingTime: in.CookingTime,
		Lines:       lines,
		Tags:        tags,
		Author:      actor,
	}

	created, err := s.Recipes.Create(ctx, recipe)
	if err != nil {
		return nil, apperrors.Storage(err)
	}

	s.logger.WithFields(map[string]interface{}{
		"recipe_id": created.ID,
		"author_id": actor.ID,
	}).Info("Recipe created")

	return created, nil
}

// UpdateRecipe applies a partial payload to an existing recipe. Only the
// author may update. Scalar fields present in the payload overwrite the
// stored value; a present non-empty ingredient set or tag set replaces the
// whole stored set inside the update transaction.
func (s *Service) UpdateRecipe(ctx context.Context, actor *models.User, recipeID int64, in UpdateRecipeInput) (*models.Recipe, error) {
	recipe, err := s.Recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if recipe == nil {
		return nil, apperrors.NotFoundf("recipe %d not found", recipeID)
	}
	if recipe.AuthorID != actor.ID {
		return nil, apperrors.Authorizationf("only the author may update recipe %d", recipeID)
	}

	if in.CookingTime != nil && *in.CookingTime < 1 {
		return nil, apperrors.Validationf("cooking_time must be at least 1, got %d", *in.CookingTime)
	}

	newLines := filterLines(in.Ingredients)
	replaceLines := in.Ingredients != nil && len(newLines) > 0
	if replaceLines {
		var verr *multierror.Error
		for i, line := range newLines {
			if line.Amount < 1 {
				verr = multierror.Append(verr, fmt.Errorf("ingredient line %d: amount must be at least 1, got %d", i, line.Amount))
			}
		}
		if err := verr.ErrorOrNil(); err != nil {
			return nil, apperrors.Validation(err)
		}
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperrors.Validationf("name must not be empty")
		}
		if name != recipe.Name {
			taken, err := s.Recipes.ExistsByAuthorAndName(ctx, recipe.AuthorID, name)
			if err != nil {
				return nil, apperrors.Storage(err)
			}
			if taken {
				return nil, apperrors.Conflictf("recipe %q already exists for this author", name)
			}
			recipe.Name = name
		}
	}
	if in.Image != nil {
		image, err := s.storeImage(*in.Image)
		if err != nil {
			return nil, err
		}
		recipe.Image = image
	}
	if in.Text != nil {
		recipe.Text = *in.Text
	}
	if in.CookingTime != nil {
		recipe.CookingTime = *in.CookingTime
	}

	if replaceLines {
		lines, err := s.resolveLines(ctx, newLines)
		if err != nil {
			return nil, err
		}
		recipe.Lines = lines
	}

	replaceTags := in.TagIDs != nil
	if replaceTags {
		tags, err := s.resolveTags(ctx, *in.TagIDs)
		if err != nil {
			return nil, err
		}
		recipe.Tags = tags
	}

	updated, err := s.Recipes.Update(ctx, recipe, replaceLines, replaceTags)
	if err != nil {
		return nil, apperrors.Storage(err)
	}

	s.logger.WithField("recipe_id", recipeID).Info("Recipe updated")
	return updated, nil
}

// DeleteRecipe removes the recipe. Only the author may delete; the
// aggregate's lines, links and every user's memberships cascade away with
// the row.
func (s *Service) DeleteRecipe(ctx context.Context, actor *models.User, recipeID int64) error {
	recipe, err := s.Recipes.GetByID(ctx, recipeID)
	if err != nil {
		return apperrors.Storage(err)
	}
	if recipe == nil {
		return apperrors.NotFoundf("recipe %d not found", recipeID)
	}
	if recipe.AuthorID != actor.ID {
		return apperrors.Authorizationf("only the author may delete recipe %d", recipeID)
	}

	if err := s.Recipes.Delete(ctx, recipeID); err != nil {
		return apperrors.Storage(err)
	}

	s.logger.WithField("recipe_id", recipeID).Info("Recipe deleted")
	return nil
}

// GetRecipe returns one fully loaded recipe aggregate.
func (s *Service) GetRecipe(ctx context.Context, recipeID int64) (*models.Recipe, error) {
	recipe, err := s.Recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if recipe == nil {
		return nil, apperrors.NotFoundf("recipe %d not found", recipeID)
	}
	return recipe, nil
}

// ListRecipes returns recipes newest-first, optionally filtered by author
// and tag slug.
func (s *Service) ListRecipes(ctx context.Context, filters repository.RecipeFilters) ([]*models.Recipe, error) {
	recipes, err := s.Recipes.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return recipes, nil
}

// filterLines drops entries without an ingredient reference, mirroring the
// update contract: an entry that names no ingredient cannot replace
// anything.
func filterLines(lines []IngredientLineInput) []IngredientLineInput {
	if lines == nil {
		return nil
	}
	out := make([]IngredientLineInput, 0, len(lines))
	for _, line := range lines {
		if line.IngredientID != 0 {
			out = append(out, line)
		}
	}
	return out
}

// resolveLines maps every ingredient id to its catalog row, failing when any
// reference dangles.
func (s *Service) resolveLines(ctx context.Context, inputs []IngredientLineInput) ([]models.IngredientLine, error) {
	ids := make([]int64, 0, len(inputs))
	for _, in := range inputs {
		ids = append(ids, in.IngredientID)
	}

	found, err := s.Ingredients.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	byID := make(map[int64]*models.Ingredient, len(found))
	for _, ing := range found {
		byID[ing.ID] = ing
	}

	lines := make([]models.IngredientLine, 0, len(inputs))
	for _, in := range inputs {
		ing, ok := byID[in.IngredientID]
		if !ok {
			return nil, apperrors.NotFoundf("ingredient %d not found", in.IngredientID)
		}
		lines = append(lines, models.IngredientLine{
			IngredientID: in.IngredientID,
			Amount:       in.Amount,
			Ingredient:   ing,
		})
	}
	return lines, nil
}

func (s *Service) resolveTags(ctx context.Context, ids []int64) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	found, err := s.Tags.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	byID := make(map[int64]*models.Tag, len(found))
	for _, tag := range found {
		byID[tag.ID] = tag
	}

	tags := make([]models.Tag, 0, len(ids))
	for _, id := range ids {
		tag, ok := byID[id]
		if !ok {
			return nil, apperrors.NotFoundf("tag %d not found", id)
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

// storeImage persists a base64 data URI through the image store. Anything
// that is not a data URI (an already-stored path, or empty) passes through.
func (s *Service) storeImage(image string) (string, error) {
	if image == "" || !strings.HasPrefix(image, "data:") {
		return image, nil
	}
	if s.images == nil {
		return "", apperrors.Validationf("image uploads are not enabled")
	}
	stored, err := s.images.SaveDataURI(image)
	if err != nil {
		return "", apperrors.Validationf("invalid image payload: %v", err)
	}
	return stored, nil
}
