package controller

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/ikkim/foodgram-backend/internal/app/service"
	apperrors "github.com/ikkim/foodgram-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestRecipeController_CreateAndGet(t *testing.T) {
	s := setupTestServer(t)
	author := s.user(t, "cook")

	created := s.recipe(t, author, "Pancakes", []string{"breakfast"}, map[string]interface{}{
		"flour": 200,
		"milk":  "300",
	})

	assert.Equal(t, "Pancakes", created.Name)
	assert.Equal(t, "cook", created.Author.Username)
	assert.Equal(t, "https://cdn.test/recipes/pancakes.png", created.Image)
	require.Len(t, created.Tags, 1)
	assert.Equal(t, "breakfast", created.Tags[0].Slug)
	require.Len(t, created.Ingredients, 2)
	amounts := map[string]int{}
	for _, ingredient := range created.Ingredients {
		amounts[ingredient.Name] = ingredient.Amount
	}
	assert.Equal(t, map[string]int{"flour": 200, "milk": 300}, amounts)

	w := s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/recipes/%d", created.ID), 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	fetched := decode[service.RecipeView](t, w)
	assert.Equal(t, created.ID, fetched.ID)
	assert.False(t, fetched.IsFavorited)
	assert.False(t, fetched.Author.IsSubscribed)
}

func TestRecipeController_Create_RequiresAuthentication(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/recipes", 0, s.payload(t, "Soup", []string{"lunch"}, map[string]interface{}{"salt": 5}))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperrors.AuthUnauthorized, errorCode(t, w))
}

func TestRecipeController_Create_ValidationErrors(t *testing.T) {
	s := setupTestServer(t)
	author := s.user(t, "cook")

	tests := []struct {
		name   string
		mutate func(body map[string]interface{})
		field  string
	}{
		{"empty ingredients", func(b map[string]interface{}) { b["ingredients"] = []interface{}{} }, "ingredients"},
		{"missing tags", func(b map[string]interface{}) { delete(b, "tags") }, "tags"},
		{"zero cooking time", func(b map[string]interface{}) { b["cooking_time"] = 0 }, "cooking_time"},
		{"blank name", func(b map[string]interface{}) { b["name"] = "" }, "name"},
		{"non-numeric amount", func(b map[string]interface{}) {
			b["ingredients"] = []map[string]interface{}{{"id": s.ingredientID(t, "salt"), "amount": "a pinch"}}
		}, "ingredients"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := s.payload(t, "Soup", []string{"lunch"}, map[string]interface{}{"salt": 5})
			tt.mutate(body)

			w := s.do(t, http.MethodPost, "/api/v1/recipes", author, body)

			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Contains(t, validationFields(t, w), tt.field)
		})
	}
}

func TestRecipeController_Create_MalformedJSON(t *testing.T) {
	s := setupTestServer(t)
	author := s.user(t, "cook")

	w := s.do(t, http.MethodPost, "/api/v1/recipes", author, `{"name": `)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ValidationInvalidInput, errorCode(t, w))
}

func TestRecipeController_Create_UnknownIngredient(t *testing.T) {
	s := setupTestServer(t)
	author := s.user(t, "cook")
	body := s.payload(t, "Soup", []string{"lunch"}, map[string]interface{}{"salt": 5})
	body["ingredients"] = []map[string]interface{}{{"id": 9999, "amount": 1}}

	w := s.do(t, http.MethodPost, "/api/v1/recipes", author, body)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.IngredientNotFound, errorCode(t, w))
}

func TestRecipeController_Update(t *testing.T) {
	s := setupTestServer(t)
	author := s.user(t, "cook")
	other := s.user(t, "guest")
	recipe := s.recipe(t, author, "Soup", []string{"lunch"}, map[string]interface{}{"salt": 5})
	path := fmt.Sprintf("/api/v1/recipes/%d", recipe.ID)

	body := s.payload(t, "Tomato soup", []string{"dinner"}, map[string]interface{}{"butter": 10})

	w := s.do(t, http.MethodPatch, path, other, body)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apperrors.AuthzAuthorOnly, errorCode(t, w))

	w = s.do(t, http.MethodPatch, path, author, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[service.RecipeView](t, w)
	assert.Equal(t, "Tomato soup", updated.Name)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "dinner", updated.Tags[0].Slug)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, "butter", updated.Ingredients[0].Name)
	assert.Contains(t, s.store.deleted, "recipes/soup.png")

	w = s.do(t, http.MethodPut, path, author, s.payload(t, "Soup again", []string{"lunch"}, map[string]interface{}{"salt": 1}))
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPatch, "/api/v1/recipes/9999", author, body)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecipeController_Delete(t *testing.T) {
	s := setupTestServer(t)
	author := s.user(t, "cook")
	recipe := s.recipe(t, author, "Soup", []string{"lunch"}, map[string]interface{}{"salt": 5})
	path := fmt.Sprintf("/api/v1/recipes/%d", recipe.ID)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodDelete, path, 0, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodDelete, path, s.user(t, "guest"), nil).Code)

	w := s.do(t, http.MethodDelete, path, author, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, path, 0, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.RecipeNotFound, errorCode(t, w))
}

func TestRecipeController_InvalidID(t *testing.T) {
	s := setupTestServer(t)

	for _, path := range []string{"/api/v1/recipes/abc", "/api/v1/recipes/0", "/api/v1/recipes/-1"} {
		w := s.do(t, http.MethodGet, path, 0, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Equal(t, apperrors.ValidationInvalidID, errorCode(t, w), path)
	}
}

func TestRecipeController_Favorite(t *testing.T) {
	s := setupTestServer(t)
	author := s.user(t, "cook")
	fan := s.user(t, "fan")
	recipe := s.recipe(t, author, "Soup", []string{"lunch"}, map[string]interface{}{"salt": 5})
	path := fmt.Sprintf("/api/v1/recipes/%d/favorite", recipe.ID)

	w := s.do(t, http.MethodPost, path, fan, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	short := decode[service.RecipeShortView](t, w)
	assert.Equal(t, recipe.ID, short.ID)
	assert.Equal(t, 20, short.CookingTime)

	w = s.do(t, http.MethodPost, path, fan, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ResourceAlreadyExists, errorCode(t, w))

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/recipes/%d", recipe.ID), fan, nil)
	assert.True(t, decode[service.RecipeView](t, w).IsFavorited)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, path, fan, nil).Code)

	w = s.do(t, http.MethodDelete, path, fan, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ResourceDoesNotExist, errorCode(t, w))

	w = s.do(t, http.MethodPost, "/api/v1/recipes/9999/favorite", fan, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, path, 0, nil).Code)
}

func TestRecipeController_List(t *testing.T) {
	s := setupTestServer(t)
	author := s.user(t, "cook")
	viewer := s.user(t, "viewer")
	soup := s.recipe(t, author, "Soup", []string{"lunch"}, map[string]interface{}{"salt": 5})
	s.recipe(t, author, "Omelette", []string{"breakfast"}, map[string]interface{}{"eggs": 3})
	s.recipe(t, viewer, "Cake", []string{"dinner"}, map[string]interface{}{"sugar": 100})

	w := s.do(t, http.MethodGet, "/api/v1/recipes", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[service.RecipePage](t, w)
	assert.Equal(t, int64(3), page.Count)
	require.Len(t, page.Results, 3)
	assert.Equal(t, []string{"Cake", "Omelette", "Soup"}, []string{page.Results[0].Name, page.Results[1].Name, page.Results[2].Name})

	w = s.do(t, http.MethodGet, "/api/v1/recipes?tags=lunch&tags=breakfast", 0, nil)
	assert.Equal(t, int64(2), decode[service.RecipePage](t, w).Count)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/recipes?author=%d", viewer), 0, nil)
	page = decode[service.RecipePage](t, w)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Cake", page.Results[0].Name)

	w = s.do(t, http.MethodGet, "/api/v1/recipes?limit=1&page=2", 0, nil)
	page = decode[service.RecipePage](t, w)
	assert.Equal(t, int64(3), page.Count)
	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Omelette", page.Results[0].Name)

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/recipes/%d/favorite", soup.ID), viewer, nil).Code)

	w = s.do(t, http.MethodGet, "/api/v1/recipes?is_favorited=1", viewer, nil)
	page = decode[service.RecipePage](t, w)
	require.Len(t, page.Results, 1)
	assert.Equal(t, soup.ID, page.Results[0].ID)
	assert.True(t, page.Results[0].IsFavorited)

	// anonymous viewers have no favorites to filter by
	w = s.do(t, http.MethodGet, "/api/v1/recipes?is_favorited=1", 0, nil)
	assert.Equal(t, int64(3), decode[service.RecipePage](t, w).Count)

	w = s.do(t, http.MethodGet, "/api/v1/recipes?page=x", 0, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, validationFields(t, w), "page")
}

func TestRecipeController_ShoppingCartDownload(t *testing.T) {
	s := setupTestServer(t)
	author := s.user(t, "cook")
	first := s.recipe(t, author, "Bread", []string{"breakfast"}, map[string]interface{}{"flour": 100, "salt": 5})
	second := s.recipe(t, author, "Cake", []string{"dinner"}, map[string]interface{}{"flour": 200, "sugar": 50})

	for _, id := range []uint{first.ID, second.ID} {
		w := s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/recipes/%d/shopping_cart", id), author, nil)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := s.do(t, http.MethodGet, "/api/v1/recipes/download_shopping_cart", author, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "shopping_list.txt")
	assert.Equal(t, "Shopping list for cook:\nflour: 300 g\nsalt: 5 g\nsugar: 50 g\n", w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/recipes/download_shopping_cart?format=xlsx", author, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	f, err := excelize.OpenReader(strings.NewReader(w.Body.String()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Shopping list")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"flour", "300", "g"}, rows[1])

	w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/recipes/%d/shopping_cart", first.ID), author, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodGet, "/api/v1/recipes/download_shopping_cart", author, nil)
	assert.Equal(t, "Shopping list for cook:\nflour: 200 g\nsugar: 50 g\n", w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/recipes/download_shopping_cart", 0, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
