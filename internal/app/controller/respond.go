package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	apperrors "github.com/ikkim/foodgram-backend/internal/errors"
	"github.com/ikkim/foodgram-backend/internal/middleware"
)

// respondServiceError maps a service error onto the HTTP error contract.
// context names the operation for logging and the 500 fallback, e.g. "create recipe".
func respondServiceError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		log.Warn("Validation failed", map[string]interface{}{
			"operation": context,
			"fields":    verr.Fields,
		})
		apperrors.RespondWithValidationError(c, verr.Fields)
		return
	}

	switch {
	case errors.Is(err, service.ErrAuthRequired):
		apperrors.Unauthorized(c, "")
	case errors.Is(err, service.ErrNotRecipeAuthor):
		apperrors.Forbidden(c, apperrors.AuthzAuthorOnly, "Only the author can modify this recipe")
	case errors.Is(err, service.ErrRecipeNotFound):
		apperrors.NotFound(c, apperrors.RecipeNotFound, err.Error())
	case errors.Is(err, service.ErrIngredientNotFound):
		apperrors.NotFound(c, apperrors.IngredientNotFound, err.Error())
	case errors.Is(err, service.ErrTagNotFound):
		apperrors.NotFound(c, apperrors.TagNotFound, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		apperrors.NotFound(c, apperrors.UserNotFound, err.Error())
	case errors.Is(err, service.ErrRelationExists):
		apperrors.BadRequest(c, apperrors.ResourceAlreadyExists, err.Error())
	case errors.Is(err, service.ErrRelationMissing):
		apperrors.BadRequest(c, apperrors.ResourceDoesNotExist, err.Error())
	case errors.Is(err, service.ErrWrongPassword):
		apperrors.BadRequest(c, apperrors.AuthWrongPassword, err.Error())
	default:
		log.Error("Request failed", err, map[string]interface{}{
			"operation": context,
		})
		info := apperrors.ParseError(err, context)
		apperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		return
	}

	log.Info("Request rejected", map[string]interface{}{
		"operation": context,
		"reason":    err.Error(),
	})
}

// parseIDParam reads a positive integer path parameter, responding 400 when malformed.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// queryInt reads an optional non-negative integer query parameter; absent means 0.
func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		apperrors.RespondWithValidationError(c, map[string][]string{
			name: {"A valid non-negative integer is required."},
		})
		return 0, false
	}
	return n, true
}

// bindJSON decodes the body; malformed JSON is reported as a validation error on "body".
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithValidationError(c, map[string][]string{
			"body": {err.Error()},
		})
		return false
	}
	return true
}
