package repository

import (
	"strings"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

type IngredientRepository interface {
	// FindByNamePrefix matches case-insensitively; an empty prefix lists everything.
	FindByNamePrefix(prefix string) ([]model.Ingredient, error)
	FindByID(id uint) (*model.Ingredient, error)
	FindByIDs(ids []uint) ([]model.Ingredient, error)
}

type ingredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) FindByNamePrefix(prefix string) ([]model.Ingredient, error) {
	logger.Debug("Finding ingredients by name prefix", map[string]interface{}{
		"prefix": prefix,
	})

	query := r.db.Order("name ASC").Order("id ASC")
	if prefix != "" {
		query = query.Where("LOWER(name) LIKE ? ESCAPE '\\'", escapeLike(strings.ToLower(prefix))+"%")
	}

	var ingredients []model.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		logger.Error("Failed to find ingredients by name prefix", err, map[string]interface{}{
			"prefix": prefix,
		})
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepository) FindByID(id uint) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	if err := r.db.First(&ingredient, id).Error; err != nil {
		logger.Debug("Ingredient lookup by ID failed", map[string]interface{}{
			"ingredient_id": id,
			"error":         err.Error(),
		})
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepository) FindByIDs(ids []uint) ([]model.Ingredient, error) {
	if len(ids) == 0 {
		return []model.Ingredient{}, nil
	}

	var ingredients []model.Ingredient
	if err := r.db.Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		logger.Error("Failed to find ingredients by IDs", err, map[string]interface{}{
			"ids_count": len(ids),
		})
		return nil, err
	}
	return ingredients, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
