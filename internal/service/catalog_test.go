package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akazakov/cookbook/internal/apperrors"
)

func TestSearchIngredientsByPrefix(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedIngredient("sugar", "g")
	env.seedIngredient("sunflower oil", "ml")
	env.seedIngredient("flour", "g")

	found, err := env.svc.SearchIngredients(ctx, "su", 0)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "sugar", found[0].Name)
	assert.Equal(t, "sunflower oil", found[1].Name)

	found, err = env.svc.SearchIngredients(ctx, "SU", 1)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "sugar", found[0].Name)

	// The match anchors at the start of the name.
	found, err = env.svc.SearchIngredients(ctx, "our", 0)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestGetTagAndIngredientNotFound(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.svc.GetTag(ctx, 1)
	assert.True(t, apperrors.IsNotFound(err))
	_, err = env.svc.GetIngredient(ctx, 1)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListTags(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedTag("Dinner", "#0000ff", "dinner")
	env.seedTag("Breakfast", "#ffaa00", "breakfast")

	tags, err := env.svc.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "Breakfast", tags[0].Name)
}
