package repository

import (
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

// RecipeFilter narrows recipe listings. Nil pointers and empty slices disable a filter.
type RecipeFilter struct {
	TagSlugs         []string // any of the slugs
	AuthorID         *uint
	FavoritedBy      *uint
	InShoppingCartOf *uint
	Limit            int
	Offset           int
}

type RecipeRepository interface {
	CreateWithRelations(recipe *model.Recipe, tagIDs []uint, ingredients []model.RecipeIngredient) error
	UpdateWithRelations(recipe *model.Recipe, tagIDs []uint, ingredients []model.RecipeIngredient) error
	DeleteWithRelations(id uint) error
	FindByID(id uint) (*model.Recipe, error)
	Exists(id uint) (bool, error)
	FindWithFilter(filter RecipeFilter) ([]model.Recipe, int64, error)
	FindByAuthor(authorID uint, limit int) ([]model.Recipe, error)
	CountByAuthors(authorIDs []uint) (map[uint]int64, error)
	ListImageKeys() ([]string, error)
	CountByImage(key string) (int64, error)
	ImageUsedByOtherAuthor(key string, authorID uint) (bool, error)
}

type recipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateWithRelations(recipe *model.Recipe, tagIDs []uint, ingredients []model.RecipeIngredient) error {
	logger.Debug("Creating recipe in database", map[string]interface{}{
		"author_id":         recipe.AuthorID,
		"name":              recipe.Name,
		"tags_count":        len(tagIDs),
		"ingredients_count": len(ingredients),
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "RecipeTags", "RecipeIngredients").Create(recipe).Error; err != nil {
			return err
		}
		return insertRelations(tx, recipe.ID, tagIDs, ingredients)
	})
	if err != nil {
		logger.Error("Failed to create recipe in database", err, map[string]interface{}{
			"author_id": recipe.AuthorID,
			"name":      recipe.Name,
		})
		return err
	}

	logger.Debug("Recipe created in database", map[string]interface{}{
		"recipe_id": recipe.ID,
		"author_id": recipe.AuthorID,
	})
	return nil
}

// UpdateWithRelations saves the scalar fields and replaces both junction sets wholesale.
func (r *recipeRepository) UpdateWithRelations(recipe *model.Recipe, tagIDs []uint, ingredients []model.RecipeIngredient) error {
	logger.Debug("Updating recipe in database", map[string]interface{}{
		"recipe_id":         recipe.ID,
		"tags_count":        len(tagIDs),
		"ingredients_count": len(ingredients),
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Recipe{}).Where("id = ?", recipe.ID).Updates(map[string]interface{}{
			"name":         recipe.Name,
			"text":         recipe.Text,
			"image":        recipe.Image,
			"cooking_time": recipe.CookingTime,
		}).Error
		if err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&model.RecipeTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&model.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return insertRelations(tx, recipe.ID, tagIDs, ingredients)
	})
	if err != nil {
		logger.Error("Failed to update recipe in database", err, map[string]interface{}{
			"recipe_id": recipe.ID,
		})
		return err
	}

	logger.Debug("Recipe updated in database", map[string]interface{}{
		"recipe_id": recipe.ID,
	})
	return nil
}

func insertRelations(tx *gorm.DB, recipeID uint, tagIDs []uint, ingredients []model.RecipeIngredient) error {
	recipeTags := make([]model.RecipeTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		recipeTags = append(recipeTags, model.RecipeTag{RecipeID: recipeID, TagID: tagID})
	}
	if len(recipeTags) > 0 {
		if err := tx.Omit("Tag").Create(&recipeTags).Error; err != nil {
			return err
		}
	}

	rows := make([]model.RecipeIngredient, 0, len(ingredients))
	for _, ingredient := range ingredients {
		rows = append(rows, model.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: ingredient.IngredientID,
			Amount:       ingredient.Amount,
		})
	}
	if len(rows) > 0 {
		if err := tx.Omit("Ingredient").Create(&rows).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteWithRelations removes the recipe and every row that references it.
func (r *recipeRepository) DeleteWithRelations(id uint) error {
	logger.Debug("Deleting recipe from database", map[string]interface{}{
		"recipe_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		dependents := []interface{}{
			&model.ShoppingCartItem{},
			&model.Favorite{},
			&model.RecipeIngredient{},
			&model.RecipeTag{},
		}
		for _, dependent := range dependents {
			if err := tx.Where("recipe_id = ?", id).Delete(dependent).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.Recipe{}, id).Error
	})
	if err != nil {
		logger.Error("Failed to delete recipe from database", err, map[string]interface{}{
			"recipe_id": id,
		})
		return err
	}

	logger.Debug("Recipe deleted from database", map[string]interface{}{
		"recipe_id": id,
	})
	return nil
}

func (r *recipeRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("RecipeTags", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_tags.tag_id ASC")
		}).
		Preload("RecipeTags.Tag").
		Preload("RecipeIngredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.ingredient_id ASC")
		}).
		Preload("RecipeIngredients.Ingredient")
}

func (r *recipeRepository) FindByID(id uint) (*model.Recipe, error) {
	logger.Debug("Finding recipe by ID in database", map[string]interface{}{
		"recipe_id": id,
	})

	var recipe model.Recipe
	if err := r.withRelations(r.db).First(&recipe, id).Error; err != nil {
		logger.Debug("Recipe lookup by ID failed", map[string]interface{}{
			"recipe_id": id,
			"error":     err.Error(),
		})
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) Exists(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&model.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil {
		logger.Error("Failed to check recipe existence", err, map[string]interface{}{
			"recipe_id": id,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRepository) FindWithFilter(filter RecipeFilter) ([]model.Recipe, int64, error) {
	logger.Debug("Finding recipes with filter", map[string]interface{}{
		"tag_slugs":           filter.TagSlugs,
		"author_id":           filter.AuthorID,
		"favorited_by":        filter.FavoritedBy,
		"in_shopping_cart_of": filter.InShoppingCartOf,
		"limit":               filter.Limit,
		"offset":              filter.Offset,
	})

	query := r.db.Model(&model.Recipe{})

	if len(filter.TagSlugs) > 0 {
		tagged := r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}
	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if filter.FavoritedBy != nil {
		favorited := r.db.Model(&model.Favorite{}).Select("recipe_id").Where("user_id = ?", *filter.FavoritedBy)
		query = query.Where("recipes.id IN (?)", favorited)
	}
	if filter.InShoppingCartOf != nil {
		inCart := r.db.Model(&model.ShoppingCartItem{}).Select("recipe_id").Where("user_id = ?", *filter.InShoppingCartOf)
		query = query.Where("recipes.id IN (?)", inCart)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count recipes with filter", err)
		return nil, 0, err
	}

	query = r.withRelations(query).Order("recipes.name ASC").Order("recipes.id ASC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var recipes []model.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		logger.Error("Failed to find recipes with filter", err)
		return nil, 0, err
	}

	logger.Debug("Recipes found with filter", map[string]interface{}{
		"count": len(recipes),
		"total": total,
	})
	return recipes, total, nil
}

// FindByAuthor returns the author's recipes without relations; limit <= 0 means all.
func (r *recipeRepository) FindByAuthor(authorID uint, limit int) ([]model.Recipe, error) {
	query := r.db.Where("author_id = ?", authorID).Order("name ASC").Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var recipes []model.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		logger.Error("Failed to find recipes by author", err, map[string]interface{}{
			"author_id": authorID,
		})
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) CountByAuthors(authorIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID uint
		Count    int64
	}
	err := r.db.Model(&model.Recipe{}).
		Select("author_id, COUNT(*) AS count").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to count recipes by authors", err, map[string]interface{}{
			"authors_count": len(authorIDs),
		})
		return nil, err
	}

	for _, row := range rows {
		counts[row.AuthorID] = row.Count
	}
	return counts, nil
}

func (r *recipeRepository) ListImageKeys() ([]string, error) {
	var keys []string
	if err := r.db.Model(&model.Recipe{}).Where("image <> ''").Pluck("image", &keys).Error; err != nil {
		logger.Error("Failed to list recipe image keys", err)
		return nil, err
	}
	return keys, nil
}

func (r *recipeRepository) CountByImage(key string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Recipe{}).Where("image = ?", key).Count(&count).Error; err != nil {
		logger.Error("Failed to count recipes by image", err, map[string]interface{}{
			"image": key,
		})
		return 0, err
	}
	return count, nil
}

func (r *recipeRepository) ImageUsedByOtherAuthor(key string, authorID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Recipe{}).
		Where("image = ? AND author_id <> ?", key, authorID).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to check image ownership", err, map[string]interface{}{
			"image":     key,
			"author_id": authorID,
		})
		return false, err
	}
	return count > 0, nil
}
