package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	apperrors "github.com/ikkim/foodgram-backend/internal/errors"
	"github.com/ikkim/foodgram-backend/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type RecipeController struct {
	recipeService       service.RecipeService
	favoriteService     service.FavoriteService
	shoppingCartService service.ShoppingCartService
}

func NewRecipeController(
	recipeService service.RecipeService,
	favoriteService service.FavoriteService,
	shoppingCartService service.ShoppingCartService,
) *RecipeController {
	return &RecipeController{
		recipeService:       recipeService,
		favoriteService:     favoriteService,
		shoppingCartService: shoppingCartService,
	}
}

func queryFlag(c *gin.Context, name string) bool {
	switch c.Query(name) {
	case "1", "true", "True":
		return true
	}
	return false
}

// ListRecipes pages through recipes
// GET /api/v1/recipes
// Query params:
//   - tags: tag slug, repeatable (any match)
//   - author: author id
//   - is_favorited, is_in_shopping_cart: 1 to restrict to the viewer's sets
//   - page, limit
func (ctrl *RecipeController) ListRecipes(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	page, ok := queryInt(c, "page")
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}

	filter := service.RecipeFilter{
		TagSlugs:           c.QueryArray("tags"),
		OnlyFavorited:      queryFlag(c, "is_favorited"),
		OnlyInShoppingCart: queryFlag(c, "is_in_shopping_cart"),
		Page:               page,
		Limit:              limit,
	}
	if author := c.Query("author"); author != "" {
		authorID, err := strconv.ParseUint(author, 10, 32)
		if err != nil {
			apperrors.RespondWithValidationError(c, map[string][]string{
				"author": {"A valid integer is required."},
			})
			return
		}
		id := uint(authorID)
		filter.AuthorID = &id
	}

	result, err := ctrl.recipeService.ListRecipes(c.Request.Context(), middleware.GetPrincipal(c), filter)
	if err != nil {
		respondServiceError(c, err, "list recipes")
		return
	}

	log.Info("Recipes listed", map[string]interface{}{
		"count": len(result.Results),
		"total": result.Count,
	})
	c.JSON(http.StatusOK, result)
}

// GetRecipe GET /api/v1/recipes/:id
func (ctrl *RecipeController) GetRecipe(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	recipe, err := ctrl.recipeService.GetRecipe(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		respondServiceError(c, err, "get recipe")
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// CreateRecipe POST /api/v1/recipes
func (ctrl *RecipeController) CreateRecipe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.RecipeInput
	if !bindJSON(c, &input) {
		return
	}

	recipe, err := ctrl.recipeService.CreateRecipe(c.Request.Context(), middleware.GetPrincipal(c), input)
	if err != nil {
		respondServiceError(c, err, "create recipe")
		return
	}

	log.Info("Recipe created", map[string]interface{}{
		"recipe_id": recipe.ID,
	})
	c.JSON(http.StatusCreated, recipe)
}

// UpdateRecipe replaces the recipe with the full payload
// PATCH/PUT /api/v1/recipes/:id
func (ctrl *RecipeController) UpdateRecipe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input service.RecipeInput
	if !bindJSON(c, &input) {
		return
	}

	recipe, err := ctrl.recipeService.UpdateRecipe(c.Request.Context(), middleware.GetPrincipal(c), id, input)
	if err != nil {
		respondServiceError(c, err, "update recipe")
		return
	}

	log.Info("Recipe updated", map[string]interface{}{
		"recipe_id": id,
	})
	c.JSON(http.StatusOK, recipe)
}

// DeleteRecipe DELETE /api/v1/recipes/:id
func (ctrl *RecipeController) DeleteRecipe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.recipeService.DeleteRecipe(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		respondServiceError(c, err, "delete recipe")
		return
	}

	log.Info("Recipe deleted", map[string]interface{}{
		"recipe_id": id,
	})
	c.Status(http.StatusNoContent)
}

// AddFavorite POST /api/v1/recipes/:id/favorite
func (ctrl *RecipeController) AddFavorite(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	recipe, err := ctrl.favoriteService.AddFavorite(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		respondServiceError(c, err, "add favorite")
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

// RemoveFavorite DELETE /api/v1/recipes/:id/favorite
func (ctrl *RecipeController) RemoveFavorite(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.favoriteService.RemoveFavorite(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		respondServiceError(c, err, "remove favorite")
		return
	}
	c.Status(http.StatusNoContent)
}

// AddToShoppingCart POST /api/v1/recipes/:id/shopping_cart
func (ctrl *RecipeController) AddToShoppingCart(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	recipe, err := ctrl.shoppingCartService.AddToShoppingCart(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		respondServiceError(c, err, "add shopping cart item")
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

// RemoveFromShoppingCart DELETE /api/v1/recipes/:id/shopping_cart
func (ctrl *RecipeController) RemoveFromShoppingCart(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.shoppingCartService.RemoveFromShoppingCart(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		respondServiceError(c, err, "remove shopping cart item")
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart serves the aggregated shopping list as an attachment
// GET /api/v1/recipes/download_shopping_cart
// Query params:
//   - format: "xlsx" for a workbook, plain text otherwise
func (ctrl *RecipeController) DownloadShoppingCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	list, err := ctrl.shoppingCartService.BuildShoppingList(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		respondServiceError(c, err, "download shopping list")
		return
	}

	if c.Query("format") == "xlsx" {
		data, err := list.XLSX()
		if err != nil {
			log.Error("Failed to render shopping list workbook", err)
			apperrors.InternalError(c, "")
			return
		}
		c.Header("Content-Disposition", `attachment; filename="shopping_list.xlsx"`)
		c.Data(http.StatusOK, xlsxContentType, data)
		return
	}

	log.Info("Shopping list downloaded", map[string]interface{}{
		"items": len(list.Items),
	})
	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(list.Text()))
}
