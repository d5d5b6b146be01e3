package api

import (
	"bytes"
	"fmt"

	"github.com/akazakov/cookbook/internal/models"
)

// RenderShoppingListText renders the aggregated shopping list as a plain
// text document, one ingredient per line.
func RenderShoppingListText(lines []models.ShoppingListLine) []byte {
	var buf bytes.Buffer
	buf.WriteString("Shopping list\n")
	buf.WriteString("=============\n")

	if len(lines) == 0 {
		buf.WriteString("(empty)\n")
		return buf.Bytes()
	}

	for _, line := range lines {
		fmt.Fprintf(&buf, "- %s: %d %s\n", line.IngredientName, line.TotalAmount, line.Unit)
	}
	return buf.Bytes()
}
