package repository

import (
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

// IngredientTotal is one shopping list line: the summed amount of an ingredient/unit pair.
type IngredientTotal struct {
	Name            string
	MeasurementUnit string
	Amount          int64
}

type ShoppingCartRepository interface {
	UserRecipeRelationRepository
	// AggregateIngredients sums every ingredient across the user's cart, grouped by (name, unit).
	AggregateIngredients(userID uint) ([]IngredientTotal, error)
}

type shoppingCartRepository struct {
	*userRecipeRepository[model.ShoppingCartItem]
}

func NewShoppingCartRepository(db *gorm.DB) ShoppingCartRepository {
	return &shoppingCartRepository{
		userRecipeRepository: &userRecipeRepository[model.ShoppingCartItem]{
			db:    db,
			label: "shopping cart item",
			newRow: func(userID, recipeID uint) *model.ShoppingCartItem {
				return &model.ShoppingCartItem{UserID: userID, RecipeID: recipeID}
			},
		},
	}
}

func (r *shoppingCartRepository) AggregateIngredients(userID uint) ([]IngredientTotal, error) {
	logger.Debug("Aggregating shopping cart ingredients", map[string]interface{}{
		"user_id": userID,
	})

	var totals []IngredientTotal
	err := r.db.Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_cart_items ON shopping_cart_items.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_cart_items.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC, ingredients.measurement_unit ASC").
		Scan(&totals).Error
	if err != nil {
		logger.Error("Failed to aggregate shopping cart ingredients", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Shopping cart ingredients aggregated", map[string]interface{}{
		"user_id":     userID,
		"lines_count": len(totals),
	})
	return totals, nil
}
