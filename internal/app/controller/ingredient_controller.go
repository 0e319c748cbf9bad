package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	"github.com/ikkim/foodgram-backend/internal/middleware"
)

type IngredientController struct {
	ingredientService service.IngredientService
}

func NewIngredientController(ingredientService service.IngredientService) *IngredientController {
	return &IngredientController{ingredientService: ingredientService}
}

// ListIngredients searches ingredients
// GET /api/v1/ingredients
// Query params:
//   - name: case-insensitive name prefix (optional)
func (ctrl *IngredientController) ListIngredients(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	name := c.Query("name")
	ingredients, err := ctrl.ingredientService.ListIngredients(c.Request.Context(), name)
	if err != nil {
		respondServiceError(c, err, "list ingredients")
		return
	}

	log.Info("Ingredients listed", map[string]interface{}{
		"name":  name,
		"count": len(ingredients),
	})
	c.JSON(http.StatusOK, ingredients)
}

// GetIngredient GET /api/v1/ingredients/:id
func (ctrl *IngredientController) GetIngredient(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ingredient, err := ctrl.ingredientService.GetIngredient(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "get ingredient")
		return
	}
	c.JSON(http.StatusOK, ingredient)
}
