package repository

import (
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

// UserRecipeRelationRepository stores a set of (user, recipe) pairs, at most one row per pair.
type UserRecipeRelationRepository interface {
	Create(userID, recipeID uint) error
	Exists(userID, recipeID uint) (bool, error)
	// Delete reports whether a row was removed.
	Delete(userID, recipeID uint) (bool, error)
	// FindRecipeIDs returns which of recipeIDs the user holds.
	FindRecipeIDs(userID uint, recipeIDs []uint) (map[uint]bool, error)
}

type userRecipeRow interface {
	model.Favorite | model.ShoppingCartItem
}

type userRecipeRepository[T userRecipeRow] struct {
	db     *gorm.DB
	label  string
	newRow func(userID, recipeID uint) *T
}

func (r *userRecipeRepository[T]) Create(userID, recipeID uint) error {
	logger.Debug("Creating "+r.label+" in database", map[string]interface{}{
		"user_id":   userID,
		"recipe_id": recipeID,
	})

	if err := r.db.Omit("User", "Recipe").Create(r.newRow(userID, recipeID)).Error; err != nil {
		logger.Error("Failed to create "+r.label+" in database", err, map[string]interface{}{
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return err
	}

	logger.Debug(r.label+" created in database", map[string]interface{}{
		"user_id":   userID,
		"recipe_id": recipeID,
	})
	return nil
}

func (r *userRecipeRepository[T]) Exists(userID, recipeID uint) (bool, error) {
	var count int64
	err := r.db.Model(new(T)).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to check "+r.label+" existence", err, map[string]interface{}{
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *userRecipeRepository[T]) Delete(userID, recipeID uint) (bool, error) {
	logger.Debug("Deleting "+r.label+" from database", map[string]interface{}{
		"user_id":   userID,
		"recipe_id": recipeID,
	})

	result := r.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(new(T))
	if result.Error != nil {
		logger.Error("Failed to delete "+r.label+" from database", result.Error, map[string]interface{}{
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *userRecipeRepository[T]) FindRecipeIDs(userID uint, recipeIDs []uint) (map[uint]bool, error) {
	held := make(map[uint]bool, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return held, nil
	}

	var ids []uint
	err := r.db.Model(new(T)).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		logger.Error("Failed to find "+r.label+" recipe IDs", err, map[string]interface{}{
			"user_id":       userID,
			"recipes_count": len(recipeIDs),
		})
		return nil, err
	}

	for _, id := range ids {
		held[id] = true
	}
	return held, nil
}
