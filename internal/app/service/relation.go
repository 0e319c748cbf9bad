package service

import (
	"errors"
	"fmt"

	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

// relationStore is the storage contract shared by favorites, cart items and follows.
type relationStore interface {
	Exists(userID, targetID uint) (bool, error)
	Create(userID, targetID uint) error
	Delete(userID, targetID uint) (bool, error)
}

// addRelation inserts (userID, targetID) or fails with ErrRelationExists. A unique
// violation from a concurrent insert maps to the same error.
func addRelation(store relationStore, name string, userID, targetID uint) error {
	exists, err := store.Exists(userID, targetID)
	if err != nil {
		return err
	}
	if exists {
		logger.Warn("Relation already exists", map[string]interface{}{
			"relation":  name,
			"user_id":   userID,
			"target_id": targetID,
		})
		return fmt.Errorf("%s %w", name, ErrRelationExists)
	}

	if err := store.Create(userID, targetID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%s %w", name, ErrRelationExists)
		}
		return err
	}

	logger.Info("Relation added", map[string]interface{}{
		"relation":  name,
		"user_id":   userID,
		"target_id": targetID,
	})
	return nil
}

// removeRelation deletes (userID, targetID) or fails with ErrRelationMissing.
func removeRelation(store relationStore, name string, userID, targetID uint) error {
	removed, err := store.Delete(userID, targetID)
	if err != nil {
		return err
	}
	if !removed {
		logger.Warn("Relation does not exist", map[string]interface{}{
			"relation":  name,
			"user_id":   userID,
			"target_id": targetID,
		})
		return fmt.Errorf("%s %w", name, ErrRelationMissing)
	}

	logger.Info("Relation removed", map[string]interface{}{
		"relation":  name,
		"user_id":   userID,
		"target_id": targetID,
	})
	return nil
}

// recipeToggle adds and removes a recipe from one of the user's recipe sets.
type recipeToggle struct {
	name      string
	relations relationStore
	recipes   repository.RecipeRepository
	projector *ViewProjector
}

func (t *recipeToggle) add(principal Principal, recipeID uint) (*RecipeShortView, error) {
	if principal.IsAnonymous() {
		return nil, ErrAuthRequired
	}

	recipe, err := t.recipes.FindByID(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	if err := addRelation(t.relations, t.name, principal.UserID, recipeID); err != nil {
		return nil, err
	}
	short := t.projector.ShortRecipe(*recipe)
	return &short, nil
}

func (t *recipeToggle) remove(principal Principal, recipeID uint) error {
	if principal.IsAnonymous() {
		return ErrAuthRequired
	}

	exists, err := t.recipes.Exists(recipeID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrRecipeNotFound
	}
	return removeRelation(t.relations, t.name, principal.UserID, recipeID)
}
