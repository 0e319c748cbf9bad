package db

import (
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every persisted model in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Tag{},
		&model.Ingredient{},
		&model.Recipe{},
		&model.RecipeTag{},
		&model.RecipeIngredient{},
		&model.Follow{},
		&model.Favorite{},
		&model.ShoppingCartItem{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed inserts the default reference data into empty tables
func Seed() error {
	return SeedReferenceData(DB)
}

// SeedReferenceData is idempotent: populated tables are left untouched.
func SeedReferenceData(db *gorm.DB) error {
	logger.Info("Seeding reference data...")

	if err := seedTags(db); err != nil {
		logger.Error("Failed to seed tags", err)
		return err
	}
	if err := seedIngredients(db); err != nil {
		logger.Error("Failed to seed ingredients", err)
		return err
	}

	logger.Info("Reference data seeded successfully")
	return nil
}

func seedTags(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Tag{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Tags already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	tags := []model.Tag{
		{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
		{Name: "Lunch", Color: "#49B64E", Slug: "lunch"},
		{Name: "Dinner", Color: "#8775D2", Slug: "dinner"},
	}
	if err := db.Create(&tags).Error; err != nil {
		return err
	}

	logger.Info("Tags seeded successfully", map[string]interface{}{
		"total_tags": len(tags),
	})
	return nil
}

func seedIngredients(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Ingredient{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Ingredients already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	ingredients := []model.Ingredient{
		{Name: "butter", MeasurementUnit: "g"},
		{Name: "eggs", MeasurementUnit: "pcs"},
		{Name: "flour", MeasurementUnit: "g"},
		{Name: "milk", MeasurementUnit: "ml"},
		{Name: "salt", MeasurementUnit: "g"},
		{Name: "sugar", MeasurementUnit: "g"},
	}
	if err := db.CreateInBatches(&ingredients, 100).Error; err != nil {
		return err
	}

	logger.Info("Ingredients seeded successfully", map[string]interface{}{
		"total_ingredients": len(ingredients),
	})
	return nil
}
