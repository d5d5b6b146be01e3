package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/akazakov/cookbook/internal/apperrors"
	"github.com/akazakov/cookbook/internal/models"
	"github.com/akazakov/cookbook/internal/repository"
)

// In-memory repository fakes. They mirror the behavior of the postgres
// implementations, including cascade on recipe delete, so the service rules
// can be exercised without a database.

type fakeUserRepo struct {
	nextID int64
	users  map[int64]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*models.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == user.Email || u.Username == user.Username {
			return nil, apperrors.Conflictf("user with this email or username already exists")
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	user, ok := f.users[id]
	if !ok {
		return apperrors.NotFoundf("user %d not found", id)
	}
	user.PasswordHash = hash
	return nil
}

type fakeIngredientRepo struct {
	nextID      int64
	ingredients map[int64]*models.Ingredient
}

func newFakeIngredientRepo() *fakeIngredientRepo {
	return &fakeIngredientRepo{ingredients: make(map[int64]*models.Ingredient)}
}

func (f *fakeIngredientRepo) Create(_ context.Context, ingredient *models.Ingredient) (*models.Ingredient, error) {
	f.nextID++
	ingredient.ID = f.nextID
	ingredient.CreatedAt = time.Now()
	f.ingredients[ingredient.ID] = ingredient
	return ingredient, nil
}

func (f *fakeIngredientRepo) GetByID(_ context.Context, id int64) (*models.Ingredient, error) {
	return f.ingredients[id], nil
}

func (f *fakeIngredientRepo) GetByIDs(_ context.Context, ids []int64) ([]*models.Ingredient, error) {
	var out []*models.Ingredient
	seen := make(map[int64]bool)
	for _, id := range ids {
		if ing, ok := f.ingredients[id]; ok && !seen[id] {
			out = append(out, ing)
			seen[id] = true
		}
	}
	return out, nil
}

func (f *fakeIngredientRepo) SearchByPrefix(_ context.Context, prefix string, limit int) ([]*models.Ingredient, error) {
	var out []*models.Ingredient
	for _, ing := range f.ingredients {
		if strings.HasPrefix(strings.ToLower(ing.Name), strings.ToLower(prefix)) {
			out = append(out, ing)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeTagRepo struct {
	nextID int64
	tags   map[int64]*models.Tag
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{tags: make(map[int64]*models.Tag)}
}

func (f *fakeTagRepo) Create(_ context.Context, tag *models.Tag) (*models.Tag, error) {
	f.nextID++
	tag.ID = f.nextID
	f.tags[tag.ID] = tag
	return tag, nil
}

func (f *fakeTagRepo) GetByID(_ context.Context, id int64) (*models.Tag, error) {
	return f.tags[id], nil
}

func (f *fakeTagRepo) GetByIDs(_ context.Context, ids []int64) ([]*models.Tag, error) {
	var out []*models.Tag
	for _, id := range ids {
		if tag, ok := f.tags[id]; ok {
			out = append(out, tag)
		}
	}
	return out, nil
}

func (f *fakeTagRepo) List(_ context.Context) ([]*models.Tag, error) {
	var out []*models.Tag
	for _, tag := range f.tags {
		out = append(out, tag)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type pair struct {
	userID   int64
	recipeID int64
}

type fakeMembershipRepo struct {
	members map[pair]bool
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{members: make(map[pair]bool)}
}

func (f *fakeMembershipRepo) Add(_ context.Context, userID, recipeID int64) error {
	p := pair{userID, recipeID}
	if f.members[p] {
		return apperrors.Conflictf("recipe %d is already a member", recipeID)
	}
	f.members[p] = true
	return nil
}

func (f *fakeMembershipRepo) Remove(_ context.Context, userID, recipeID int64) error {
	p := pair{userID, recipeID}
	if !f.members[p] {
		return apperrors.NotFoundf("recipe %d is not a member", recipeID)
	}
	delete(f.members, p)
	return nil
}

func (f *fakeMembershipRepo) Exists(_ context.Context, userID, recipeID int64) (bool, error) {
	return f.members[pair{userID, recipeID}], nil
}

func (f *fakeMembershipRepo) removeRecipe(recipeID int64) {
	for p := range f.members {
		if p.recipeID == recipeID {
			delete(f.members, p)
		}
	}
}

type fakeCartRepo struct {
	*fakeMembershipRepo
	recipes *fakeRecipeRepo
}

func (f *fakeCartRepo) AggregateLines(_ context.Context, userID int64) ([]models.ShoppingListLine, error) {
	type key struct{ name, unit string }
	totals := make(map[key]int)
	for p := range f.members {
		if p.userID != userID {
			continue
		}
		recipe, ok := f.recipes.recipes[p.recipeID]
		if !ok {
			continue
		}
		for _, line := range recipe.Lines {
			k := key{line.Ingredient.Name, line.Ingredient.Unit}
			totals[k] += line.Amount
		}
	}

	var lines []models.ShoppingListLine
	for k, total := range totals {
		lines = append(lines, models.ShoppingListLine{
			IngredientName: k.name,
			Unit:           k.unit,
			TotalAmount:    total,
		})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].IngredientName != lines[j].IngredientName {
			return lines[i].IngredientName < lines[j].IngredientName
		}
		return lines[i].Unit < lines[j].Unit
	})
	return lines, nil
}

type fakeRecipeRepo struct {
	nextID    int64
	recipes   map[int64]*models.Recipe
	favorites *fakeMembershipRepo
	cart      *fakeMembershipRepo
}

func newFakeRecipeRepo(favorites, cart *fakeMembershipRepo) *fakeRecipeRepo {
	return &fakeRecipeRepo{
		recipes:   make(map[int64]*models.Recipe),
		favorites: favorites,
		cart:      cart,
	}
}

func copyRecipe(r *models.Recipe) *models.Recipe {
	c := *r
	c.Lines = append([]models.IngredientLine{}, r.Lines...)
	c.Tags = append([]models.Tag{}, r.Tags...)
	return &c
}

func (f *fakeRecipeRepo) Create(_ context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	for _, r := range f.recipes {
		if r.AuthorID == recipe.AuthorID && r.Name == recipe.Name {
			return nil, apperrors.Conflictf("recipe %q already exists for this author", recipe.Name)
		}
	}
	f.nextID++
	recipe.ID = f.nextID
	recipe.CreatedAt = time.Now()
	for i := range recipe.Lines {
		recipe.Lines[i].RecipeID = recipe.ID
	}
	f.recipes[recipe.ID] = copyRecipe(recipe)
	return recipe, nil
}

func (f *fakeRecipeRepo) GetByID(_ context.Context, id int64) (*models.Recipe, error) {
	recipe, ok := f.recipes[id]
	if !ok {
		return nil, nil
	}
	return copyRecipe(recipe), nil
}

func (f *fakeRecipeRepo) List(_ context.Context, filters repository.RecipeFilters) ([]*models.Recipe, error) {
	var out []*models.Recipe
	for _, r := range f.recipes {
		if filters.AuthorID != nil && r.AuthorID != *filters.AuthorID {
			continue
		}
		if filters.TagSlug != "" {
			found := false
			for _, tag := range r.Tags {
				if tag.Slug == filters.TagSlug {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		out = append(out, copyRecipe(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if filters.Offset > 0 {
		if filters.Offset >= len(out) {
			return nil, nil
		}
		out = out[filters.Offset:]
	}
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, nil
}

func (f *fakeRecipeRepo) ExistsByAuthorAndName(_ context.Context, authorID int64, name string) (bool, error) {
	for _, r := range f.recipes {
		if r.AuthorID == authorID && r.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRecipeRepo) Update(_ context.Context, recipe *models.Recipe, replaceLines, replaceTags bool) (*models.Recipe, error) {
	stored, ok := f.recipes[recipe.ID]
	if !ok {
		return nil, apperrors.NotFoundf("recipe %d not found", recipe.ID)
	}
	stored.Name = recipe.Name
	stored.Image = recipe.Image
	stored.Text = recipe.Text
	stored.CookingTime = recipe.CookingTime
	if replaceLines {
		stored.Lines = append([]models.IngredientLine{}, recipe.Lines...)
		for i := range stored.Lines {
			stored.Lines[i].RecipeID = stored.ID
		}
	}
	if replaceTags {
		stored.Tags = append([]models.Tag{}, recipe.Tags...)
	}
	return copyRecipe(stored), nil
}

func (f *fakeRecipeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.recipes[id]; !ok {
		return apperrors.NotFoundf("recipe %d not found", id)
	}
	delete(f.recipes, id)
	// Mirror the ON DELETE CASCADE behavior of the schema.
	f.favorites.removeRecipe(id)
	f.cart.removeRecipe(id)
	return nil
}

type fakeSubscriptionRepo struct {
	subs  map[pair]bool
	order []pair
	users *fakeUserRepo
}

func newFakeSubscriptionRepo(users *fakeUserRepo) *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: make(map[pair]bool), users: users}
}

func (f *fakeSubscriptionRepo) Add(_ context.Context, subscriberID, authorID int64) error {
	p := pair{subscriberID, authorID}
	if f.subs[p] {
		return apperrors.Conflictf("already subscribed to user %d", authorID)
	}
	f.subs[p] = true
	f.order = append(f.order, p)
	return nil
}

func (f *fakeSubscriptionRepo) Remove(_ context.Context, subscriberID, authorID int64) error {
	p := pair{subscriberID, authorID}
	if !f.subs[p] {
		return apperrors.NotFoundf("not subscribed to user %d", authorID)
	}
	delete(f.subs, p)
	return nil
}

func (f *fakeSubscriptionRepo) Exists(_ context.Context, subscriberID, authorID int64) (bool, error) {
	return f.subs[pair{subscriberID, authorID}], nil
}

func (f *fakeSubscriptionRepo) ListAuthors(_ context.Context, subscriberID int64) ([]*models.User, error) {
	var out []*models.User
	for _, p := range f.order {
		if p.userID == subscriberID && f.subs[p] {
			if u := f.users.users[p.recipeID]; u != nil {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

// fakeImageStore records what it stored and hands back a fixed path.
type fakeImageStore struct {
	saved []string
}

func (f *fakeImageStore) SaveDataURI(dataURI string) (string, error) {
	f.saved = append(f.saved, dataURI)
	return "/media/stored.jpg", nil
}

// testEnv bundles the service and the fakes behind it.
type testEnv struct {
	svc         *Service
	users       *fakeUserRepo
	ingredients *fakeIngredientRepo
	tags        *fakeTagRepo
	recipes     *fakeRecipeRepo
	favorites   *fakeMembershipRepo
	cart        *fakeCartRepo
	subs        *fakeSubscriptionRepo
	images      *fakeImageStore
}

func newTestEnv() *testEnv {
	users := newFakeUserRepo()
	ingredients := newFakeIngredientRepo()
	tags := newFakeTagRepo()
	favorites := newFakeMembershipRepo()
	cartMembers := newFakeMembershipRepo()
	recipes := newFakeRecipeRepo(favorites, cartMembers)
	cart := &fakeCartRepo{fakeMembershipRepo: cartMembers, recipes: recipes}
	subs := newFakeSubscriptionRepo(users)
	images := &fakeImageStore{}

	l := logrus.New()
	l.SetOutput(io.Discard)

	svc := New(l, images, users, ingredients, tags, recipes, favorites, cart, subs)
	return &testEnv{
		svc: svc, users: users, ingredients: ingredients, tags: tags,
		recipes: recipes, favorites: favorites, cart: cart, subs: subs,
		images: images,
	}
}

// seedUser registers a user directly through the fake.
func (e *testEnv) seedUser(username string) *models.User {
	user, _ := e.users.Create(context.Background(), &models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    username,
		LastName:     "Tester",
		PasswordHash: "",
	})
	return user
}

// seedIngredient adds a catalog ingredient.
func (e *testEnv) seedIngredient(name, unit string) *models.Ingredient {
	ing, _ := e.ingredients.Create(context.Background(), &models.Ingredient{Name: name, Unit: unit})
	return ing
}

// seedTag adds a catalog tag.
func (e *testEnv) seedTag(name, color, slug string) *models.Tag {
	tag, _ := e.tags.Create(context.Background(), &models.Tag{Name: name, Color: color, Slug: slug})
	return tag
}
