package api

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akazakov/cookbook/internal/models"
)

func TestRenderShoppingListText(t *testing.T) {
	lines := []models.ShoppingListLine{
		{IngredientName: "flour", Unit: "g", TotalAmount: 500},
		{IngredientName: "sugar", Unit: "g", TotalAmount: 50},
	}

	got := string(RenderShoppingListText(lines))
	want := "Shopping list\n" +
		"=============\n" +
		"- flour: 500 g\n" +
		"- sugar: 50 g\n"
	assert.Equal(t, want, got)
}

func TestRenderShoppingListTextEmpty(t *testing.T) {
	got := string(RenderShoppingListText(nil))
	assert.Contains(t, got, "(empty)")
}
