package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	"github.com/ikkim/foodgram-backend/internal/db"
	apperrors "github.com/ikkim/foodgram-backend/internal/errors"
	"github.com/ikkim/foodgram-backend/internal/storage"
	"github.com/ikkim/foodgram-backend/pkg/util"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testUserHeader = "X-Test-User"

func init() {
	util.UseMinimumCost()
	gin.SetMode(gin.TestMode)
}

// fakeStore keeps uploaded objects in memory.
type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *fakeStore) URL(key string) string {
	if key == "" {
		return ""
	}
	return "https://cdn.test/" + key
}

func (s *fakeStore) PresignUpload(ctx context.Context, filename, contentType, folder string) (*storage.PresignedUpload, error) {
	key := storage.NewKey(folder, filename)
	return &storage.PresignedUpload{
		UploadURL: "https://bucket.test/" + key + "?signature=abc",
		FileURL:   s.URL(key),
		Key:       key,
	}, nil
}

func (s *fakeStore) Put(ctx context.Context, folder, filename, contentType string, body io.Reader, size int64) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	key := storage.NewKey(folder, filename)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	s.types[key] = contentType
	return key, nil
}

func (s *fakeStore) Get(ctx context.Context, key string) (*storage.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return &storage.Object{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentType:   s.types[key],
		ContentLength: int64(len(data)),
	}, nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

// testServer wires the real services over sqlite behind a gin engine. The acting user
// is taken from the X-Test-User header the way the auth middleware would set it.
type testServer struct {
	db     *gorm.DB
	store  *fakeStore
	router *gin.Engine
}

func setupTestServer(t *testing.T) *testServer {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	require.NoError(t, db.SeedReferenceData(testDB))
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	recipeRepo := repository.NewRecipeRepository(testDB)
	favoriteRepo := repository.NewFavoriteRepository(testDB)
	cartRepo := repository.NewShoppingCartRepository(testDB)
	followRepo := repository.NewFollowRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)
	tagRepo := repository.NewTagRepository(testDB)
	ingredientRepo := repository.NewIngredientRepository(testDB)

	store := newFakeStore()
	projector := service.NewViewProjector(favoriteRepo, cartRepo, followRepo, store)

	recipeController := NewRecipeController(
		service.NewRecipeService(recipeRepo, tagRepo, ingredientRepo, followRepo, projector, store, nil, 6),
		service.NewFavoriteService(favoriteRepo, recipeRepo, projector),
		service.NewShoppingCartService(cartRepo, recipeRepo, userRepo, projector),
	)
	userController := NewUserController(
		service.NewUserService(userRepo, projector, 6),
		service.NewFollowService(followRepo, userRepo, recipeRepo, projector),
	)
	tagController := NewTagController(service.NewTagService(tagRepo, nil))
	ingredientController := NewIngredientController(service.NewIngredientService(ingredientRepo, nil))
	uploadController := NewUploadController(store, 1024)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		var id uint
		if _, err := fmt.Sscan(c.GetHeader(testUserHeader), &id); err == nil && id > 0 {
			c.Set("user_id", id)
		}
		c.Next()
	})

	v1 := router.Group("/api/v1")
	v1.GET("/recipes", recipeController.ListRecipes)
	v1.POST("/recipes", recipeController.CreateRecipe)
	v1.GET("/recipes/download_shopping_cart", recipeController.DownloadShoppingCart)
	v1.GET("/recipes/:id", recipeController.GetRecipe)
	v1.PATCH("/recipes/:id", recipeController.UpdateRecipe)
	v1.PUT("/recipes/:id", recipeController.UpdateRecipe)
	v1.DELETE("/recipes/:id", recipeController.DeleteRecipe)
	v1.POST("/recipes/:id/favorite", recipeController.AddFavorite)
	v1.DELETE("/recipes/:id/favorite", recipeController.RemoveFavorite)
	v1.POST("/recipes/:id/shopping_cart", recipeController.AddToShoppingCart)
	v1.DELETE("/recipes/:id/shopping_cart", recipeController.RemoveFromShoppingCart)

	v1.POST("/users", userController.Register)
	v1.GET("/users", userController.ListUsers)
	v1.GET("/users/me", userController.Me)
	v1.GET("/users/subscriptions", userController.Subscriptions)
	v1.POST("/users/set_password", userController.SetPassword)
	v1.GET("/users/:id", userController.GetUser)
	v1.POST("/users/:id/subscribe", userController.Subscribe)
	v1.DELETE("/users/:id/subscribe", userController.Unsubscribe)

	v1.GET("/tags", tagController.ListTags)
	v1.GET("/tags/:id", tagController.GetTag)
	v1.GET("/ingredients", ingredientController.ListIngredients)
	v1.GET("/ingredients/:id", ingredientController.GetIngredient)

	v1.POST("/upload/presigned-url", uploadController.GeneratePresignedURL)
	v1.POST("/upload/image", uploadController.UploadImage)
	router.GET("/media/*key", uploadController.ServeMedia)

	return &testServer{db: testDB, store: store, router: router}
}

// do sends a request; body is JSON-encoded unless it is already a string. userID 0 is anonymous.
func (s *testServer) do(t *testing.T, method, path string, userID uint, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID > 0 {
		req.Header.Set(testUserHeader, fmt.Sprint(userID))
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) user(t *testing.T, username string) uint {
	user := &model.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "First",
		LastName:     "Last",
		PasswordHash: "hashed",
	}
	require.NoError(t, s.db.Create(user).Error)
	return user.ID
}

func (s *testServer) tagID(t *testing.T, slug string) uint {
	var tag model.Tag
	require.NoError(t, s.db.Where("slug = ?", slug).First(&tag).Error)
	return tag.ID
}

func (s *testServer) ingredientID(t *testing.T, name string) uint {
	var ingredient model.Ingredient
	require.NoError(t, s.db.Where("name = ?", name).First(&ingredient).Error)
	return ingredient.ID
}

// payload builds a create/update body; amounts are ingredient name -> amount.
func (s *testServer) payload(t *testing.T, name string, tags []string, amounts map[string]interface{}) map[string]interface{} {
	tagIDs := []uint{}
	for _, slug := range tags {
		tagIDs = append(tagIDs, s.tagID(t, slug))
	}
	ingredients := []map[string]interface{}{}
	for ingredient, amount := range amounts {
		ingredients = append(ingredients, map[string]interface{}{
			"id":     s.ingredientID(t, ingredient),
			"amount": amount,
		})
	}
	return map[string]interface{}{
		"name":         name,
		"text":         "Mix everything.",
		"image":        "recipes/" + strings.ToLower(name) + ".png",
		"cooking_time": 20,
		"tags":         tagIDs,
		"ingredients":  ingredients,
	}
}

func (s *testServer) recipe(t *testing.T, author uint, name string, tags []string, amounts map[string]interface{}) service.RecipeView {
	w := s.do(t, http.MethodPost, "/api/v1/recipes", author, s.payload(t, name, tags, amounts))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var view service.RecipeView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	return view
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	return decode[apperrors.ErrorResponse](t, w).Error
}

func validationFields(t *testing.T, w *httptest.ResponseRecorder) map[string][]string {
	return decode[apperrors.ValidationErrorResponse](t, w).Fields
}
