package models

import "time"

// Recipe is the aggregate root: the recipe row plus its owned
// ingredient-lines and tag-links. The aggregate is written as one unit —
// create and update touch all three tables inside a single transaction.
type Recipe struct {
	ID          int64            `json:"id" db:"id"`
	AuthorID    int64            `json:"author_id" db:"author_id"`
	Name        string           `json:"name" db:"name"`
	Image       string           `json:"image" db:"image"`
	Text        string           `json:"text" db:"text"`
	CookingTime int              `json:"cooking_time" db:"cooking_time"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	Lines       []IngredientLine `json:"ingredients,omitempty"`
	Tags        []Tag            `json:"tags,omitempty"`
	Author      *User            `json:"author,omitempty"`
}

// IngredientLine pairs one catalog ingredient with an amount inside a
// recipe. Amount is always at least 1.
type IngredientLine struct {
	ID           int64       `json:"id" db:"id"`
	RecipeID     int64       `json:"recipe_id" db:"recipe_id"`
	IngredientID int64       `json:"ingredient_id" db:"ingredient_id"`
	Amount       int         `json:"amount" db:"amount"`
	Ingredient   *Ingredient `json:"ingredient,omitempty"`
}
