package repository

import (
	"context"

	"github.com/akazakov/cookbook/internal/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// IngredientRepository defines the interface for the ingredient catalog
type IngredientRepository interface {
	Create(ctx context.Context, ingredient *models.Ingredient) (*models.Ingredient, error)
	GetByID(ctx context.Context, id int64) (*models.Ingredient, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Ingredient, error)
	SearchByPrefix(ctx context.Context, prefix string, limit int) ([]*models.Ingredient, error)
}

// TagRepository defines the interface for the tag catalog
type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) (*models.Tag, error)
	GetByID(ctx context.Context, id int64) (*models.Tag, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Tag, error)
	List(ctx context.Context) ([]*models.Tag, error)
}

// RecipeRepository defines the interface for recipe aggregate operations.
// Create and Update write the recipe row together with its ingredient-line
// and tag-link sets as a single transaction: readers never observe a recipe
// with one set rewritten and the other not.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)
	GetByID(ctx context.Context, id int64) (*models.Recipe, error)
	List(ctx context.Context, filters RecipeFilters) ([]*models.Recipe, error)
	ExistsByAuthorAndName(ctx context.Context, authorID int64, name string) (bool, error)
	// Update rewrites the scalar columns and, when the corresponding flag
	// is set, deletes and reinserts the full ingredient-line or tag-link
	// set from recipe.Lines / recipe.Tags.
	Update(ctx context.Context, recipe *models.Recipe, replaceLines, replaceTags bool) (*models.Recipe, error)
	Delete(ctx context.Context, id int64) error
}

// MembershipRepository is a boolean user-recipe relation. Favorites and the
// shopping cart both implement it.
type MembershipRepository interface {
	Add(ctx context.Context, userID, recipeID int64) error
	Remove(ctx context.Context, userID, recipeID int64) error
	Exists(ctx context.Context, userID, recipeID int64) (bool, error)
}

// CartRepository extends the membership relation with the shopping-list
// aggregation: one grouped read over every ingredient-line of every recipe
// in the user's cart.
type CartRepository interface {
	MembershipRepository
	AggregateLines(ctx context.Context, userID int64) ([]models.ShoppingListLine, error)
}

// SubscriptionRepository defines the user-to-user subscription relation
type SubscriptionRepository interface {
	Add(ctx context.Context, subscriberID, authorID int64) error
	Remove(ctx context.Context, subscriberID, authorID int64) error
	Exists(ctx context.Context, subscriberID, authorID int64) (bool, error)
	ListAuthors(ctx context.Context, subscriberID int64) ([]*models.User, error)
}

// RecipeFilters represents filters for querying recipes
type RecipeFilters struct {
	AuthorID *int64
	TagSlug  string
	Limit    int
	Offset   int
}
