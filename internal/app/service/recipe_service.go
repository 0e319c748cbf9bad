package service

import (
	"context"
	"errors"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

// RecipeFilter selects recipes for a listing. OnlyFavorited and OnlyInShoppingCart
// apply to authenticated viewers only.
type RecipeFilter struct {
	TagSlugs           []string
	AuthorID           *uint
	OnlyFavorited      bool
	OnlyInShoppingCart bool
	Page               int
	Limit              int
}

type RecipeService interface {
	CreateRecipe(ctx context.Context, principal Principal, input RecipeInput) (*RecipeView, error)
	UpdateRecipe(ctx context.Context, principal Principal, recipeID uint, input RecipeInput) (*RecipeView, error)
	DeleteRecipe(ctx context.Context, principal Principal, recipeID uint) error
	GetRecipe(ctx context.Context, viewer Principal, recipeID uint) (*RecipeView, error)
	ListRecipes(ctx context.Context, viewer Principal, filter RecipeFilter) (*RecipePage, error)
}

type recipeService struct {
	recipeRepo      repository.RecipeRepository
	tagRepo         repository.TagRepository
	ingredientRepo  repository.IngredientRepository
	followRepo      repository.FollowRepository
	projector       *ViewProjector
	media           MediaStorage
	notifier        Notifier
	defaultPageSize int
}

func NewRecipeService(
	recipeRepo repository.RecipeRepository,
	tagRepo repository.TagRepository,
	ingredientRepo repository.IngredientRepository,
	followRepo repository.FollowRepository,
	projector *ViewProjector,
	media MediaStorage,
	notifier Notifier,
	defaultPageSize int,
) RecipeService {
	if defaultPageSize <= 0 {
		defaultPageSize = 6
	}
	return &recipeService{
		recipeRepo:      recipeRepo,
		tagRepo:         tagRepo,
		ingredientRepo:  ingredientRepo,
		followRepo:      followRepo,
		projector:       projector,
		media:           media,
		notifier:        notifier,
		defaultPageSize: defaultPageSize,
	}
}

func (s *recipeService) compose(authorID uint, input RecipeInput) (*composedRecipe, error) {
	composed, err := validateRecipeInput(input)
	if err != nil {
		return nil, err
	}
	claimed, err := s.recipeRepo.ImageUsedByOtherAuthor(composed.recipe.Image, authorID)
	if err != nil {
		return nil, err
	}
	if claimed {
		verr := newValidationError()
		verr.Add("image", msgImageInUse)
		return nil, verr
	}
	if err := resolveReferences(composed, s.ingredientRepo, s.tagRepo); err != nil {
		return nil, err
	}
	return composed, nil
}

func (s *recipeService) CreateRecipe(ctx context.Context, principal Principal, input RecipeInput) (*RecipeView, error) {
	if principal.IsAnonymous() {
		return nil, ErrAuthRequired
	}

	logger.Info("Creating recipe", map[string]interface{}{
		"author_id": principal.UserID,
		"name":      input.Name,
	})

	composed, err := s.compose(principal.UserID, input)
	if err != nil {
		logger.Warn("Recipe payload rejected", map[string]interface{}{
			"author_id": principal.UserID,
			"error":     err.Error(),
		})
		return nil, err
	}

	recipe := composed.recipe
	recipe.AuthorID = principal.UserID
	if err := s.recipeRepo.CreateWithRelations(&recipe, composed.tagIDs, composed.ingredients); err != nil {
		return nil, err
	}

	created, err := s.recipeRepo.FindByID(recipe.ID)
	if err != nil {
		return nil, err
	}
	view, err := s.projector.Recipe(principal, *created)
	if err != nil {
		return nil, err
	}

	s.notifyFollowers(principal.UserID, s.projector.ShortRecipe(*created))

	logger.Info("Recipe created", map[string]interface{}{
		"recipe_id": recipe.ID,
		"author_id": principal.UserID,
	})
	return view, nil
}

func (s *recipeService) notifyFollowers(authorID uint, recipe RecipeShortView) {
	if s.notifier == nil {
		return
	}
	followerIDs, err := s.followRepo.FindFollowerIDs(authorID)
	if err != nil {
		logger.Warn("Skipping follower notification", map[string]interface{}{
			"author_id": authorID,
			"error":     err.Error(),
		})
		return
	}
	if len(followerIDs) == 0 {
		return
	}
	s.notifier.NotifyRecipePublished(followerIDs, RecipePublishedEvent{AuthorID: authorID, Recipe: recipe})
}

func (s *recipeService) UpdateRecipe(ctx context.Context, principal Principal, recipeID uint, input RecipeInput) (*RecipeView, error) {
	if principal.IsAnonymous() {
		return nil, ErrAuthRequired
	}

	logger.Info("Updating recipe", map[string]interface{}{
		"recipe_id": recipeID,
		"user_id":   principal.UserID,
	})

	existing, err := s.findOwned(principal, recipeID)
	if err != nil {
		return nil, err
	}

	composed, err := s.compose(existing.AuthorID, input)
	if err != nil {
		logger.Warn("Recipe payload rejected", map[string]interface{}{
			"recipe_id": recipeID,
			"error":     err.Error(),
		})
		return nil, err
	}

	recipe := composed.recipe
	recipe.ID = existing.ID
	recipe.AuthorID = existing.AuthorID
	if err := s.recipeRepo.UpdateWithRelations(&recipe, composed.tagIDs, composed.ingredients); err != nil {
		return nil, err
	}

	if existing.Image != "" && existing.Image != recipe.Image {
		s.deleteImage(ctx, recipeID, existing.Image)
	}

	updated, err := s.recipeRepo.FindByID(recipeID)
	if err != nil {
		return nil, err
	}

	logger.Info("Recipe updated", map[string]interface{}{
		"recipe_id": recipeID,
	})
	return s.projector.Recipe(principal, *updated)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, principal Principal, recipeID uint) error {
	if principal.IsAnonymous() {
		return ErrAuthRequired
	}

	logger.Info("Deleting recipe", map[string]interface{}{
		"recipe_id": recipeID,
		"user_id":   principal.UserID,
	})

	existing, err := s.findOwned(principal, recipeID)
	if err != nil {
		return err
	}

	if err := s.recipeRepo.DeleteWithRelations(recipeID); err != nil {
		return err
	}
	s.deleteImage(ctx, recipeID, existing.Image)

	logger.Info("Recipe deleted", map[string]interface{}{
		"recipe_id": recipeID,
	})
	return nil
}

func (s *recipeService) findOwned(principal Principal, recipeID uint) (*model.Recipe, error) {
	recipe, err := s.recipeRepo.FindByID(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	if recipe.AuthorID != principal.UserID {
		logger.Warn("Recipe modification by non-author rejected", map[string]interface{}{
			"recipe_id": recipeID,
			"author_id": recipe.AuthorID,
			"user_id":   principal.UserID,
		})
		return nil, ErrNotRecipeAuthor
	}
	return recipe, nil
}

// deleteImage is best effort; the recipe change has already been committed.
// Keys outside the recipe folder or still referenced by another recipe are kept.
func (s *recipeService) deleteImage(ctx context.Context, recipeID uint, key string) {
	if s.media == nil || !IsRecipeImageKey(key) {
		return
	}
	refs, err := s.recipeRepo.CountByImage(key)
	if err != nil {
		logger.Warn("Skipping recipe image deletion", map[string]interface{}{
			"recipe_id": recipeID,
			"image":     key,
			"error":     err.Error(),
		})
		return
	}
	if refs > 0 {
		logger.Debug("Recipe image still referenced, keeping it", map[string]interface{}{
			"recipe_id":  recipeID,
			"image":      key,
			"references": refs,
		})
		return
	}
	if err := s.media.Delete(ctx, key); err != nil {
		logger.Warn("Failed to delete recipe image", map[string]interface{}{
			"recipe_id": recipeID,
			"image":     key,
			"error":     err.Error(),
		})
	}
}

func (s *recipeService) GetRecipe(ctx context.Context, viewer Principal, recipeID uint) (*RecipeView, error) {
	recipe, err := s.recipeRepo.FindByID(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return s.projector.Recipe(viewer, *recipe)
}

func (s *recipeService) ListRecipes(ctx context.Context, viewer Principal, filter RecipeFilter) (*RecipePage, error) {
	page, limit := normalizePage(filter.Page, filter.Limit, s.defaultPageSize)

	repoFilter := repository.RecipeFilter{
		TagSlugs: filter.TagSlugs,
		AuthorID: filter.AuthorID,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}
	if !viewer.IsAnonymous() {
		if filter.OnlyFavorited {
			repoFilter.FavoritedBy = &viewer.UserID
		}
		if filter.OnlyInShoppingCart {
			repoFilter.InShoppingCartOf = &viewer.UserID
		}
	}

	recipes, total, err := s.recipeRepo.FindWithFilter(repoFilter)
	if err != nil {
		return nil, err
	}
	views, err := s.projector.Recipes(viewer, recipes)
	if err != nil {
		return nil, err
	}

	logger.Debug("Recipes listed", map[string]interface{}{
		"viewer_id": viewer.UserID,
		"count":     len(views),
		"total":     total,
	})
	return &RecipePage{Count: total, Page: page, Limit: limit, Results: views}, nil
}

func normalizePage(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	return page, limit
}
