package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/internal/db"
	"github.com/ikkim/foodgram-backend/internal/storage"
	"github.com/ikkim/foodgram-backend/pkg/util"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	util.UseMinimumCost()
}

type fakeMedia struct {
	mu        sync.Mutex
	objects   []storage.ObjectInfo
	deleted   []string
	deleteErr error
}

func (m *fakeMedia) URL(key string) string {
	if key == "" {
		return ""
	}
	return "https://cdn.test/" + key
}

func (m *fakeMedia) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *fakeMedia) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	return m.objects, nil
}

type fakeNotifier struct {
	followerIDs []uint
	events      []RecipePublishedEvent
}

func (n *fakeNotifier) NotifyRecipePublished(followerIDs []uint, event RecipePublishedEvent) {
	n.followerIDs = append(n.followerIDs, followerIDs...)
	n.events = append(n.events, event)
}

type fakeCache struct {
	values map[string]interface{}
	gets   int
	err    error
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]interface{}{}}
}

func (c *fakeCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.gets++
	if c.err != nil {
		return false, c.err
	}
	value, ok := c.values[key]
	if !ok {
		return false, nil
	}
	switch d := dest.(type) {
	case *[]TagView:
		*d = value.([]TagView)
	case *[]IngredientView:
		*d = value.([]IngredientView)
	default:
		return false, errors.New("unsupported cache type")
	}
	return true, nil
}

func (c *fakeCache) SetJSON(ctx context.Context, key string, value interface{}) error {
	if c.err != nil {
		return c.err
	}
	c.values[key] = value
	return nil
}

// env wires every service against one in-memory database.
type env struct {
	db        *gorm.DB
	media     *fakeMedia
	notifier  *fakeNotifier
	recipes   RecipeService
	favorites FavoriteService
	cart      ShoppingCartService
	follows   FollowService
	users     UserService
}

func setupEnv(t *testing.T) *env {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	require.NoError(t, db.SeedReferenceData(testDB))
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	recipeRepo := repository.NewRecipeRepository(testDB)
	favoriteRepo := repository.NewFavoriteRepository(testDB)
	cartRepo := repository.NewShoppingCartRepository(testDB)
	followRepo := repository.NewFollowRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)

	media := &fakeMedia{}
	notifier := &fakeNotifier{}
	projector := NewViewProjector(favoriteRepo, cartRepo, followRepo, media)

	return &env{
		db:       testDB,
		media:    media,
		notifier: notifier,
		recipes: NewRecipeService(recipeRepo, repository.NewTagRepository(testDB),
			repository.NewIngredientRepository(testDB), followRepo, projector, media, notifier, 6),
		favorites: NewFavoriteService(favoriteRepo, recipeRepo, projector),
		cart:      NewShoppingCartService(cartRepo, recipeRepo, userRepo, projector),
		follows:   NewFollowService(followRepo, userRepo, recipeRepo, projector),
		users:     NewUserService(userRepo, projector, 6),
	}
}

func (e *env) user(t *testing.T, username string) Principal {
	user := &model.User{
		Email:        fmt.Sprintf("%s@example.com", username),
		Username:     username,
		FirstName:    "First",
		LastName:     "Last",
		PasswordHash: "hashed",
	}
	require.NoError(t, e.db.Create(user).Error)
	return Authenticated(user.ID)
}

func (e *env) tagID(t *testing.T, slug string) uint {
	var tag model.Tag
	require.NoError(t, e.db.Where("slug = ?", slug).First(&tag).Error)
	return tag.ID
}

func (e *env) ingredientID(t *testing.T, name string) uint {
	var ingredient model.Ingredient
	require.NoError(t, e.db.Where("name = ?", name).First(&ingredient).Error)
	return ingredient.ID
}

func (e *env) input(t *testing.T, name string, tags []string, amounts map[string]int) RecipeInput {
	cookingTime := 20
	input := RecipeInput{
		Name:        name,
		Text:        "Mix everything.",
		Image:       "recipes/" + name + ".png",
		CookingTime: &cookingTime,
		Tags:        []uint{},
		Ingredients: []IngredientAmountInput{},
	}
	for _, slug := range tags {
		input.Tags = append(input.Tags, e.tagID(t, slug))
	}
	for ingredient, amount := range amounts {
		input.Ingredients = append(input.Ingredients, IngredientAmountInput{
			ID:     e.ingredientID(t, ingredient),
			Amount: NewAmount(amount),
		})
	}
	return input
}

func (e *env) recipe(t *testing.T, author Principal, name string, amounts map[string]int) *RecipeView {
	view, err := e.recipes.CreateRecipe(context.Background(), author, e.input(t, name, []string{"lunch"}, amounts))
	require.NoError(t, err)
	return view
}
