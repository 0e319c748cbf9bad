package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		context  string
		wantCode string
	}{
		{"nil error", nil, "create recipe", InternalServerError},
		{"record not found", gorm.ErrRecordNotFound, "get recipe", ResourceNotFound},
		{"wrapped duplicate", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), "add favorite", ResourceAlreadyExists},
		{"postgres duplicate email", errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email"`), "register user", ResourceAlreadyExists},
		{"duplicate recipe ingredient", errors.New("UNIQUE constraint failed: idx_recipe_ingredient"), "create recipe", ValidationInvalidInput},
		{"fk ingredient", errors.New(`violates foreign key constraint "fk_recipe_ingredients_ingredient" ingredient_id`), "create recipe", IngredientNotFound},
		{"fk still referenced", errors.New("foreign key constraint: is still referenced from table"), "delete tag", ResourceConflict},
		{"check amount", errors.New(`violates check constraint "chk_recipe_ingredients_amount"`), "create recipe", ValidationInvalidInput},
		{"connection", errors.New("dial tcp: connection refused"), "list recipes", InternalExternalAPI},
		{"unknown", errors.New("something odd"), "update recipe", InternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, tt.context)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.NotEmpty(t, info.Message)
		})
	}
}

func TestParseError_ContextMessages(t *testing.T) {
	assert.Equal(t, "Recipe not found", ParseError(gorm.ErrRecordNotFound, "get recipe").Message)
	assert.Equal(t, "Failed to update, please try again later", ParseError(errors.New("x"), "update recipe").Message)
	assert.Equal(t, "Failed to delete, please try again later", ParseError(errors.New("x"), "remove favorite").Message)
}
