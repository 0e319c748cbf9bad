package repository

import (
	"fmt"
	"testing"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	require.NoError(t, db.SeedReferenceData(testDB))
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func createUser(t *testing.T, testDB *gorm.DB, username string) *model.User {
	user := &model.User{
		Email:        fmt.Sprintf("%s@example.com", username),
		Username:     username,
		FirstName:    "First",
		LastName:     "Last",
		PasswordHash: "hashed",
	}
	require.NoError(t, NewUserRepository(testDB).Create(user))
	return user
}

func findTag(t *testing.T, testDB *gorm.DB, slug string) model.Tag {
	var tag model.Tag
	require.NoError(t, testDB.Where("slug = ?", slug).First(&tag).Error)
	return tag
}

func findIngredient(t *testing.T, testDB *gorm.DB, name string) model.Ingredient {
	var ingredient model.Ingredient
	require.NoError(t, testDB.Where("name = ?", name).First(&ingredient).Error)
	return ingredient
}

type ingredientAmount struct {
	name   string
	amount int
}

func createRecipe(t *testing.T, testDB *gorm.DB, author *model.User, name string, tagSlugs []string, items ...ingredientAmount) *model.Recipe {
	tagIDs := make([]uint, 0, len(tagSlugs))
	for _, slug := range tagSlugs {
		tagIDs = append(tagIDs, findTag(t, testDB, slug).ID)
	}
	rows := make([]model.RecipeIngredient, 0, len(items))
	for _, item := range items {
		rows = append(rows, model.RecipeIngredient{
			IngredientID: findIngredient(t, testDB, item.name).ID,
			Amount:       item.amount,
		})
	}

	recipe := &model.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Text:        "Mix and cook.",
		Image:       "recipes/" + name + ".png",
		CookingTime: 10,
	}
	require.NoError(t, NewRecipeRepository(testDB).CreateWithRelations(recipe, tagIDs, rows))
	return recipe
}
