package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"gorm.io/gorm"
)

type IngredientService interface {
	// ListIngredients searches by case-insensitive name prefix; empty lists all.
	ListIngredients(ctx context.Context, namePrefix string) ([]IngredientView, error)
	GetIngredient(ctx context.Context, ingredientID uint) (*IngredientView, error)
}

type ingredientService struct {
	ingredientRepo repository.IngredientRepository
	cache          Cache
}

// NewIngredientService accepts a nil cache.
func NewIngredientService(ingredientRepo repository.IngredientRepository, cache Cache) IngredientService {
	return &ingredientService{ingredientRepo: ingredientRepo, cache: cache}
}

func (s *ingredientService) ListIngredients(ctx context.Context, namePrefix string) ([]IngredientView, error) {
	prefix := strings.ToLower(strings.TrimSpace(namePrefix))
	key := "ingredients:search:" + prefix

	var views []IngredientView
	if cacheGet(ctx, s.cache, key, &views) {
		return views, nil
	}

	ingredients, err := s.ingredientRepo.FindByNamePrefix(prefix)
	if err != nil {
		return nil, err
	}

	views = make([]IngredientView, 0, len(ingredients))
	for _, ingredient := range ingredients {
		views = append(views, NewIngredientView(ingredient))
	}
	cacheSet(ctx, s.cache, key, views)
	return views, nil
}

func (s *ingredientService) GetIngredient(ctx context.Context, ingredientID uint) (*IngredientView, error) {
	ingredient, err := s.ingredientRepo.FindByID(ingredientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIngredientNotFound
		}
		return nil, err
	}
	view := NewIngredientView(*ingredient)
	return &view, nil
}
