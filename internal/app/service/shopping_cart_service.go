package service

import (
	"context"
	"errors"

	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

type ShoppingCartService interface {
	AddToShoppingCart(ctx context.Context, principal Principal, recipeID uint) (*RecipeShortView, error)
	RemoveFromShoppingCart(ctx context.Context, principal Principal, recipeID uint) error
	BuildShoppingList(ctx context.Context, principal Principal) (*ShoppingList, error)
}

type shoppingCartService struct {
	cartRepo repository.ShoppingCartRepository
	userRepo repository.UserRepository
	toggle   *recipeToggle
}

func NewShoppingCartService(
	cartRepo repository.ShoppingCartRepository,
	recipeRepo repository.RecipeRepository,
	userRepo repository.UserRepository,
	projector *ViewProjector,
) ShoppingCartService {
	return &shoppingCartService{
		cartRepo: cartRepo,
		userRepo: userRepo,
		toggle: &recipeToggle{
			name:      "shopping cart item",
			relations: cartRepo,
			recipes:   recipeRepo,
			projector: projector,
		},
	}
}

func (s *shoppingCartService) AddToShoppingCart(ctx context.Context, principal Principal, recipeID uint) (*RecipeShortView, error) {
	return s.toggle.add(principal, recipeID)
}

func (s *shoppingCartService) RemoveFromShoppingCart(ctx context.Context, principal Principal, recipeID uint) error {
	return s.toggle.remove(principal, recipeID)
}

func (s *shoppingCartService) BuildShoppingList(ctx context.Context, principal Principal) (*ShoppingList, error) {
	if principal.IsAnonymous() {
		return nil, ErrAuthRequired
	}

	user, err := s.userRepo.FindByID(principal.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	totals, err := s.cartRepo.AggregateIngredients(principal.UserID)
	if err != nil {
		return nil, err
	}

	items := make([]ShoppingListItem, 0, len(totals))
	for _, total := range totals {
		items = append(items, ShoppingListItem{
			Name:            total.Name,
			MeasurementUnit: total.MeasurementUnit,
			Amount:          total.Amount,
		})
	}

	logger.Info("Shopping list built", map[string]interface{}{
		"user_id":     principal.UserID,
		"lines_count": len(items),
	})
	return &ShoppingList{Username: user.Username, Items: items}, nil
}
