package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRecipeRelationRepositories(t *testing.T) {
	constructors := map[string]func(*gorm.DB) UserRecipeRelationRepository{
		"favorite":      func(db *gorm.DB) UserRecipeRelationRepository { return NewFavoriteRepository(db) },
		"shopping cart": func(db *gorm.DB) UserRecipeRelationRepository { return NewShoppingCartRepository(db) },
	}

	for name, newRepo := range constructors {
		t.Run(name, func(t *testing.T) {
			testDB := setupTestDB(t)
			repo := newRepo(testDB)
			chef := createUser(t, testDB, "chef")
			reader := createUser(t, testDB, "reader")
			soup := createRecipe(t, testDB, chef, "Soup", nil, ingredientAmount{"salt", 5})
			cake := createRecipe(t, testDB, chef, "Cake", nil, ingredientAmount{"sugar", 100})

			exists, err := repo.Exists(reader.ID, soup.ID)
			require.NoError(t, err)
			assert.False(t, exists)

			require.NoError(t, repo.Create(reader.ID, soup.ID))
			assert.Error(t, repo.Create(reader.ID, soup.ID))

			exists, err = repo.Exists(reader.ID, soup.ID)
			require.NoError(t, err)
			assert.True(t, exists)

			held, err := repo.FindRecipeIDs(reader.ID, []uint{soup.ID, cake.ID})
			require.NoError(t, err)
			assert.True(t, held[soup.ID])
			assert.False(t, held[cake.ID])

			removed, err := repo.Delete(reader.ID, soup.ID)
			require.NoError(t, err)
			assert.True(t, removed)

			removed, err = repo.Delete(reader.ID, soup.ID)
			require.NoError(t, err)
			assert.False(t, removed)
		})
	}
}

func TestShoppingCartRepository_AggregateIngredients(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewShoppingCartRepository(testDB)
	chef := createUser(t, testDB, "chef")
	shopper := createUser(t, testDB, "shopper")

	pancakes := createRecipe(t, testDB, chef, "Pancakes", nil,
		ingredientAmount{"flour", 200}, ingredientAmount{"milk", 300}, ingredientAmount{"eggs", 2})
	bread := createRecipe(t, testDB, chef, "Bread", nil,
		ingredientAmount{"flour", 500}, ingredientAmount{"salt", 5})
	createRecipe(t, testDB, chef, "Cake", nil, ingredientAmount{"sugar", 100})

	require.NoError(t, repo.Create(shopper.ID, pancakes.ID))
	require.NoError(t, repo.Create(shopper.ID, bread.ID))

	totals, err := repo.AggregateIngredients(shopper.ID)
	require.NoError(t, err)
	assert.Equal(t, []IngredientTotal{
		{Name: "eggs", MeasurementUnit: "pcs", Amount: 2},
		{Name: "flour", MeasurementUnit: "g", Amount: 700},
		{Name: "milk", MeasurementUnit: "ml", Amount: 300},
		{Name: "salt", MeasurementUnit: "g", Amount: 5},
	}, totals)

	empty, err := repo.AggregateIngredients(chef.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFollowRepository(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewFollowRepository(testDB)
	reader := createUser(t, testDB, "reader")
	zed := createUser(t, testDB, "zed")
	anna := createUser(t, testDB, "anna")

	require.NoError(t, repo.Create(reader.ID, zed.ID))
	require.NoError(t, repo.Create(reader.ID, anna.ID))
	assert.Error(t, repo.Create(reader.ID, anna.ID))

	exists, err := repo.Exists(reader.ID, zed.ID)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.Exists(zed.ID, reader.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	authors, err := repo.FindAuthorsByUser(reader.ID)
	require.NoError(t, err)
	require.Len(t, authors, 2)
	assert.Equal(t, "anna", authors[0].Username)
	assert.Equal(t, "zed", authors[1].Username)

	followed, err := repo.FindFollowedAuthorIDs(reader.ID, []uint{zed.ID, anna.ID, reader.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{zed.ID: true, anna.ID: true}, followed)

	followers, err := repo.FindFollowerIDs(zed.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{reader.ID}, followers)

	removed, err := repo.Delete(reader.ID, zed.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = repo.Delete(reader.ID, zed.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}
