package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a code/message pair ready for a response body
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError turns a store error into a user-facing code and message without leaking
// SQL details. context names the operation, e.g. "create recipe".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: getDefaultErrorMessage(context),
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. gorm sentinel errors (TranslateError is enabled on the connection)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return parseDuplicateKeyError(errStrLower, context)
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return parseForeignKeyError(errStrLower, context)
	}

	// 2. Raw driver messages
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower, context)
	}
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStrLower, context)
	}
	if strings.Contains(errStrLower, "check constraint") {
		return parseCheckConstraintError(errStrLower)
	}

	// 3. Connectivity
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "A backing service is unavailable, please try again later",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errLower string, context string) ErrorInfo {
	switch {
	case strings.Contains(errLower, "email"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "A user with this email already exists"}
	case strings.Contains(errLower, "username"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "A user with this username already exists"}
	case strings.Contains(errLower, "idx_recipe_ingredient"):
		return ErrorInfo{Code: ValidationInvalidInput, Message: "Ingredient is listed twice in the recipe"}
	case strings.Contains(errLower, "recipe_tags"):
		return ErrorInfo{Code: ValidationInvalidInput, Message: "Tag is listed twice in the recipe"}
	}
	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "Record already exists",
	}
}

func parseForeignKeyError(errLower string, context string) ErrorInfo {
	if strings.Contains(errLower, "still referenced") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "The record is still referenced and cannot be deleted",
		}
	}
	switch {
	case strings.Contains(errLower, "ingredient_id"):
		return ErrorInfo{Code: IngredientNotFound, Message: "Ingredient does not exist"}
	case strings.Contains(errLower, "tag_id"):
		return ErrorInfo{Code: TagNotFound, Message: "Tag does not exist"}
	case strings.Contains(errLower, "recipe_id"):
		return ErrorInfo{Code: RecipeNotFound, Message: "Recipe does not exist"}
	case strings.Contains(errLower, "user_id"), strings.Contains(errLower, "author_id"):
		return ErrorInfo{Code: UserNotFound, Message: "User does not exist"}
	}
	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: getNotFoundMessage(context),
	}
}

func parseCheckConstraintError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "amount") {
		return ErrorInfo{Code: ValidationInvalidInput, Message: "Ingredient amount must be greater than zero"}
	}
	if strings.Contains(errLower, "cooking_time") {
		return ErrorInfo{Code: ValidationInvalidInput, Message: "Cooking time must be at least one minute"}
	}
	return ErrorInfo{
		Code:    ValidationInvalidInput,
		Message: "Invalid input",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "ingredient"):
		return "Ingredient not found"
	case strings.Contains(contextLower, "recipe"):
		return "Recipe not found"
	case strings.Contains(contextLower, "tag"):
		return "Tag not found"
	case strings.Contains(contextLower, "user"), strings.Contains(contextLower, "subscri"):
		return "User not found"
	}
	return "Requested resource was not found"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"), strings.Contains(contextLower, "add"):
		return "Failed to save, please try again later"
	case strings.Contains(contextLower, "update"):
		return "Failed to update, please try again later"
	case strings.Contains(contextLower, "delete"), strings.Contains(contextLower, "remove"):
		return "Failed to delete, please try again later"
	}
	return "Internal server error, please try again later"
}

// ParseAndRespond parses err and writes it with the given status
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
