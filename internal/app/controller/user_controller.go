package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	"github.com/ikkim/foodgram-backend/internal/middleware"
)

type UserController struct {
	userService   service.UserService
	followService service.FollowService
}

func NewUserController(userService service.UserService, followService service.FollowService) *UserController {
	return &UserController{
		userService:   userService,
		followService: followService,
	}
}

// Register POST /api/v1/users
func (ctrl *UserController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.RegisterInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := ctrl.userService.Register(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err, "register user")
		return
	}

	log.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
	})
	c.JSON(http.StatusCreated, user)
}

// ListUsers GET /api/v1/users?page=&limit=
func (ctrl *UserController) ListUsers(c *gin.Context) {
	page, ok := queryInt(c, "page")
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}

	users, err := ctrl.userService.ListUsers(c.Request.Context(), middleware.GetPrincipal(c), page, limit)
	if err != nil {
		respondServiceError(c, err, "list users")
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser GET /api/v1/users/:id
func (ctrl *UserController) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := ctrl.userService.GetUser(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		respondServiceError(c, err, "get user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// Me GET /api/v1/users/me
func (ctrl *UserController) Me(c *gin.Context) {
	user, err := ctrl.userService.Me(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		respondServiceError(c, err, "get user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// SetPassword POST /api/v1/users/set_password
func (ctrl *UserController) SetPassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.SetPasswordInput
	if !bindJSON(c, &input) {
		return
	}

	if err := ctrl.userService.SetPassword(c.Request.Context(), middleware.GetPrincipal(c), input); err != nil {
		respondServiceError(c, err, "update password")
		return
	}

	log.Info("Password updated")
	c.Status(http.StatusNoContent)
}

// Subscriptions lists the authors the user follows
// GET /api/v1/users/subscriptions
// Query params:
//   - recipes_limit: cap on embedded recipes per author (optional)
func (ctrl *UserController) Subscriptions(c *gin.Context) {
	recipesLimit, ok := queryInt(c, "recipes_limit")
	if !ok {
		return
	}

	follows, err := ctrl.followService.Subscriptions(c.Request.Context(), middleware.GetPrincipal(c), recipesLimit)
	if err != nil {
		respondServiceError(c, err, "list subscriptions")
		return
	}
	c.JSON(http.StatusOK, follows)
}

// Subscribe POST /api/v1/users/:id/subscribe?recipes_limit=
func (ctrl *UserController) Subscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	recipesLimit, ok := queryInt(c, "recipes_limit")
	if !ok {
		return
	}

	follow, err := ctrl.followService.Subscribe(c.Request.Context(), middleware.GetPrincipal(c), id, recipesLimit)
	if err != nil {
		respondServiceError(c, err, "add subscription")
		return
	}

	log.Info("Subscribed to author", map[string]interface{}{
		"author_id": id,
	})
	c.JSON(http.StatusCreated, follow)
}

// Unsubscribe DELETE /api/v1/users/:id/subscribe
func (ctrl *UserController) Unsubscribe(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.followService.Unsubscribe(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		respondServiceError(c, err, "remove subscription")
		return
	}
	c.Status(http.StatusNoContent)
}
