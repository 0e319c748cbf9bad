package service

import (
	"context"
	"errors"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

const followRelation = "subscription"

// FollowService manages subscriptions. recipesLimit truncates the embedded recipe
// list of each author; zero or negative keeps every recipe.
type FollowService interface {
	Subscribe(ctx context.Context, principal Principal, authorID uint, recipesLimit int) (*FollowView, error)
	Unsubscribe(ctx context.Context, principal Principal, authorID uint) error
	Subscriptions(ctx context.Context, principal Principal, recipesLimit int) ([]FollowView, error)
}

type followService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	recipeRepo repository.RecipeRepository
	projector  *ViewProjector
}

func NewFollowService(
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	recipeRepo repository.RecipeRepository,
	projector *ViewProjector,
) FollowService {
	return &followService{
		followRepo: followRepo,
		userRepo:   userRepo,
		recipeRepo: recipeRepo,
		projector:  projector,
	}
}

// checkTarget rejects anonymous callers and self-follows before looking the author up.
func (s *followService) checkTarget(principal Principal, authorID uint) (*model.User, error) {
	if principal.IsAnonymous() {
		return nil, ErrAuthRequired
	}
	if principal.UserID == authorID {
		logger.Warn("Self subscription rejected", map[string]interface{}{
			"user_id": principal.UserID,
		})
		return nil, fieldError("author", ErrSelfFollow)
	}

	author, err := s.userRepo.FindByID(authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return author, nil
}

func (s *followService) Subscribe(ctx context.Context, principal Principal, authorID uint, recipesLimit int) (*FollowView, error) {
	author, err := s.checkTarget(principal, authorID)
	if err != nil {
		return nil, err
	}

	if err := addRelation(s.followRepo, followRelation, principal.UserID, authorID); err != nil {
		return nil, err
	}

	views, err := s.followViews([]model.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *followService) Unsubscribe(ctx context.Context, principal Principal, authorID uint) error {
	if _, err := s.checkTarget(principal, authorID); err != nil {
		return err
	}
	return removeRelation(s.followRepo, followRelation, principal.UserID, authorID)
}

func (s *followService) Subscriptions(ctx context.Context, principal Principal, recipesLimit int) ([]FollowView, error) {
	if principal.IsAnonymous() {
		return nil, ErrAuthRequired
	}

	authors, err := s.followRepo.FindAuthorsByUser(principal.UserID)
	if err != nil {
		return nil, err
	}

	logger.Debug("Subscriptions listed", map[string]interface{}{
		"user_id": principal.UserID,
		"count":   len(authors),
	})
	return s.followViews(authors, recipesLimit)
}

// followViews projects followed authors; is_subscribed is always true here.
func (s *followService) followViews(authors []model.User, recipesLimit int) ([]FollowView, error) {
	ids := make([]uint, 0, len(authors))
	for _, author := range authors {
		ids = append(ids, author.ID)
	}
	counts, err := s.recipeRepo.CountByAuthors(ids)
	if err != nil {
		return nil, err
	}

	views := make([]FollowView, 0, len(authors))
	for _, author := range authors {
		recipes, err := s.recipeRepo.FindByAuthor(author.ID, recipesLimit)
		if err != nil {
			return nil, err
		}
		views = append(views, FollowView{
			UserView:     userView(author, true),
			Recipes:      s.projector.ShortRecipes(recipes),
			RecipesCount: counts[author.ID],
		})
	}
	return views, nil
}
