package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/config"
	"github.com/ikkim/foodgram-backend/internal/app/controller"
	"github.com/ikkim/foodgram-backend/internal/middleware"
)

type Router struct {
	recipeController     *controller.RecipeController
	userController       *controller.UserController
	tagController        *controller.TagController
	ingredientController *controller.IngredientController
	uploadController     *controller.UploadController
	feedController       *controller.FeedController
	authMiddleware       *middleware.AuthMiddleware
	config               *config.Config
}

func NewRouter(
	recipeController *controller.RecipeController,
	userController *controller.UserController,
	tagController *controller.TagController,
	ingredientController *controller.IngredientController,
	uploadController *controller.UploadController,
	feedController *controller.FeedController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		recipeController:     recipeController,
		userController:       userController,
		tagController:        tagController,
		ingredientController: ingredientController,
		uploadController:     uploadController,
		feedController:       feedController,
		authMiddleware:       authMiddleware,
		config:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	health := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Foodgram API is running",
		})
	}
	router.GET("/health", health)

	router.GET("/media/*key", r.uploadController.ServeMedia)

	authenticate := r.authMiddleware.Authenticate()
	optional := r.authMiddleware.OptionalAuthenticate()

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", health)
		v1.GET("/ws", authenticate, r.feedController.WebSocketHandler)

		users := v1.Group("/users")
		{
			users.POST("", r.userController.Register)
			users.GET("", optional, r.userController.ListUsers)
			users.GET("/me", authenticate, r.userController.Me)
			users.GET("/subscriptions", authenticate, r.userController.Subscriptions)
			users.POST("/set_password", authenticate, r.userController.SetPassword)
			users.GET("/:id", optional, r.userController.GetUser)
			users.POST("/:id/subscribe", authenticate, r.userController.Subscribe)
			users.DELETE("/:id/subscribe", authenticate, r.userController.Unsubscribe)
		}

		tags := v1.Group("/tags")
		{
			tags.GET("", r.tagController.ListTags)
			tags.GET("/:id", r.tagController.GetTag)
		}

		ingredients := v1.Group("/ingredients")
		{
			ingredients.GET("", r.ingredientController.ListIngredients)
			ingredients.GET("/:id", r.ingredientController.GetIngredient)
		}

		recipes := v1.Group("/recipes")
		{
			recipes.GET("", optional, r.recipeController.ListRecipes)
			recipes.POST("", authenticate, r.recipeController.CreateRecipe)
			recipes.GET("/download_shopping_cart", authenticate, r.recipeController.DownloadShoppingCart)
			recipes.GET("/:id", optional, r.recipeController.GetRecipe)
			recipes.PATCH("/:id", authenticate, r.recipeController.UpdateRecipe)
			recipes.PUT("/:id", authenticate, r.recipeController.UpdateRecipe)
			recipes.DELETE("/:id", authenticate, r.recipeController.DeleteRecipe)
			recipes.POST("/:id/favorite", authenticate, r.recipeController.AddFavorite)
			recipes.DELETE("/:id/favorite", authenticate, r.recipeController.RemoveFavorite)
			recipes.POST("/:id/shopping_cart", authenticate, r.recipeController.AddToShoppingCart)
			recipes.DELETE("/:id/shopping_cart", authenticate, r.recipeController.RemoveFromShoppingCart)
		}

		upload := v1.Group("/upload")
		upload.Use(authenticate)
		{
			upload.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
			upload.POST("/image", r.uploadController.UploadImage)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "Cache-Control", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	for _, origin := range allowedOrigins {
		if origin == "*" {
			// credentials cannot be combined with a literal wildcard; echo the origin instead
			cfg.AllowOriginFunc = func(string) bool { return true }
			return cors.New(cfg)
		}
	}
	if len(allowedOrigins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return false }
		return cors.New(cfg)
	}
	cfg.AllowOrigins = allowedOrigins
	return cors.New(cfg)
}
