package service

import (
	"context"

	"github.com/ikkim/foodgram-backend/internal/app/repository"
)

type FavoriteService interface {
	AddFavorite(ctx context.Context, principal Principal, recipeID uint) (*RecipeShortView, error)
	RemoveFavorite(ctx context.Context, principal Principal, recipeID uint) error
}

type favoriteService struct {
	toggle *recipeToggle
}

func NewFavoriteService(
	favoriteRepo repository.FavoriteRepository,
	recipeRepo repository.RecipeRepository,
	projector *ViewProjector,
) FavoriteService {
	return &favoriteService{
		toggle: &recipeToggle{
			name:      "favorite",
			relations: favoriteRepo,
			recipes:   recipeRepo,
			projector: projector,
		},
	}
}

func (s *favoriteService) AddFavorite(ctx context.Context, principal Principal, recipeID uint) (*RecipeShortView, error) {
	return s.toggle.add(principal, recipeID)
}

func (s *favoriteService) RemoveFavorite(ctx context.Context, principal Principal, recipeID uint) error {
	return s.toggle.remove(principal, recipeID)
}
