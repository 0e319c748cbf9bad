package repository

import (
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"gorm.io/gorm"
)

type FavoriteRepository interface {
	UserRecipeRelationRepository
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &userRecipeRepository[model.Favorite]{
		db:    db,
		label: "favorite",
		newRow: func(userID, recipeID uint) *model.Favorite {
			return &model.Favorite{UserID: userID, RecipeID: recipeID}
		},
	}
}
