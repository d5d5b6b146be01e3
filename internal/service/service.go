package service

import (
	"github.com/sirupsen/logrus"

	"github.com/akazakov/cookbook/internal/repository"
)

// ImageStore persists an uploaded image and returns the URI it can be
// served from.
type ImageStore interface {
	SaveDataURI(dataURI string) (string, error)
}

// Service is the central business logic layer that holds all repositories
// and provides high-level methods for the application. Every operation takes
// the acting user explicitly; nothing here reads ambient request state.
type Service struct {
	logger        *logrus.Logger
	images        ImageStore
	Users         repository.UserRepository
	Ingredients   repository.IngredientRepository
	Tags          repository.TagRepository
	Recipes       repository.RecipeRepository
	Favorites     repository.MembershipRepository
	Cart          repository.CartRepository
	Subscriptions repository.SubscriptionRepository
}

// New creates a new Service with all required dependencies.
func New(logger *logrus.Logger, images ImageStore,
	users repository.UserRepository,
	ingredients repository.IngredientRepository,
	tags repository.TagRepository,
	recipes repository.RecipeRepository,
	favorites repository.MembershipRepository,
	cart repository.CartRepository,
	subscriptions repository.SubscriptionRepository,
) *Service {
	return &Service{
		logger: logger, images: images,
		Users: users, Ingredients: ingredients, Tags: tags, Recipes: recipes,
		Favorites: favorites, Cart: cart, Subscriptions: subscriptions,
	}
}
