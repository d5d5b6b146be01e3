package models

import "time"

// The view structs below are the fixed output shapes of the API. Each is
// built explicitly from the aggregate rather than serialized off the
// storage models.

// UserView is the public representation of a user.
type UserView struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// IngredientLineView flattens an ingredient-line with its catalog data.
type IngredientLineView struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Unit   string `json:"unit"`
	Amount int    `json:"amount"`
}

// RecipeView is the full recipe representation.
type RecipeView struct {
	ID          int64                `json:"id"`
	Author      UserView             `json:"author"`
	Name        string               `json:"name"`
	Image       string               `json:"image"`
	Text        string               `json:"text"`
	CookingTime int                  `json:"cooking_time"`
	CreatedAt   time.Time            `json:"created_at"`
	Ingredients []IngredientLineView `json:"ingredients"`
	Tags        []Tag                `json:"tags"`
}

// RecipeSummary is the short representation returned by the favorite and
// shopping-cart endpoints.
type RecipeSummary struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// ShoppingListLine is one aggregated row of a user's shopping list: the
// total amount of one ingredient summed over every recipe in the cart.
type ShoppingListLine struct {
	IngredientName string `json:"ingredient_name"`
	Unit           string `json:"unit"`
	TotalAmount    int    `json:"total_amount"`
}

// SubscriptionView is one author the user is subscribed to, with a short
// slice of that author's recipes.
type SubscriptionView struct {
	Author  UserView        `json:"author"`
	Recipes []RecipeSummary `json:"recipes"`
}

// NewUserView builds a UserView from a user.
func NewUserView(u *User) UserView {
	return UserView{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// NewRecipeView builds a RecipeView from a fully loaded aggregate.
func NewRecipeView(r *Recipe) RecipeView {
	view := RecipeView{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		Text:        r.Text,
		CookingTime: r.CookingTime,
		CreatedAt:   r.CreatedAt,
		Ingredients: make([]IngredientLineView, 0, len(r.Lines)),
		Tags:        append([]Tag{}, r.Tags...),
	}
	if r.Author != nil {
		view.Author = NewUserView(r.Author)
	}
	for _, line := range r.Lines {
		lv := IngredientLineView{ID: line.IngredientID, Amount: line.Amount}
		if line.Ingredient != nil {
			lv.Name = line.Ingredient.Name
			lv.Unit = line.Ingredient.Unit
		}
		view.Ingredients = append(view.Ingredients, lv)
	}
	return view
}

// NewRecipeSummary builds a RecipeSummary from a recipe.
func NewRecipeSummary(r *Recipe) RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}
