package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/foodgram-backend/config"
	"github.com/ikkim/foodgram-backend/internal/app/controller"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	"github.com/ikkim/foodgram-backend/internal/db"
	"github.com/ikkim/foodgram-backend/internal/middleware"
	"github.com/ikkim/foodgram-backend/internal/router"
	"github.com/ikkim/foodgram-backend/internal/scheduler"
	"github.com/ikkim/foodgram-backend/internal/storage"
	"github.com/ikkim/foodgram-backend/internal/websocket"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"github.com/ikkim/foodgram-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Server.Environment == "development",
	})

	logger.Info("Starting Foodgram Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   cfg.Log.Level,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed reference data", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Reference-data cache is optional; a nil cache reads straight from the database
	var cache service.Cache
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, caching disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			cache = redis.NewCache(redis.GetClient(), cfg.Redis.CacheTTL)
			defer redis.Close()
		}
	}

	mediaStorage := storage.NewS3Storage(cfg.S3)

	hub := websocket.NewHub()
	go hub.Run()

	// Initialize repositories
	database := db.GetDB()
	userRepo := repository.NewUserRepository(database)
	tagRepo := repository.NewTagRepository(database)
	ingredientRepo := repository.NewIngredientRepository(database)
	recipeRepo := repository.NewRecipeRepository(database)
	favoriteRepo := repository.NewFavoriteRepository(database)
	cartRepo := repository.NewShoppingCartRepository(database)
	followRepo := repository.NewFollowRepository(database)

	// Initialize services
	projector := service.NewViewProjector(favoriteRepo, cartRepo, followRepo, mediaStorage)
	pageSize := cfg.Server.DefaultPageSize

	recipeService := service.NewRecipeService(recipeRepo, tagRepo, ingredientRepo, followRepo, projector, mediaStorage, hub, pageSize)
	favoriteService := service.NewFavoriteService(favoriteRepo, recipeRepo, projector)
	shoppingCartService := service.NewShoppingCartService(cartRepo, recipeRepo, userRepo, projector)
	followService := service.NewFollowService(followRepo, userRepo, recipeRepo, projector)
	userService := service.NewUserService(userRepo, projector, pageSize)
	tagService := service.NewTagService(tagRepo, cache)
	ingredientService := service.NewIngredientService(ingredientRepo, cache)
	cleanupService := service.NewMediaCleanupService(recipeRepo, mediaStorage, cfg.Media.CleanupGrace)

	// Start scheduled jobs
	cleanupScheduler := scheduler.NewMediaCleanupScheduler(cleanupService, cfg.Media.CleanupSchedule)
	if err := cleanupScheduler.Start(); err != nil {
		logger.Warn("Media cleanup scheduler not started", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer cleanupScheduler.Stop()
	}

	// Setup router
	r := router.NewRouter(
		controller.NewRecipeController(recipeService, favoriteService, shoppingCartService),
		controller.NewUserController(userService, followService),
		controller.NewTagController(tagService),
		controller.NewIngredientController(ingredientService),
		controller.NewUploadController(mediaStorage, cfg.Media.MaxUploadSize),
		controller.NewFeedController(hub, cfg.CORS.AllowedOrigins),
		middleware.NewAuthMiddleware(cfg.JWT.Secret),
		cfg,
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r.Setup(),
	}

	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
