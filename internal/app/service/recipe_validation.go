package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
)

const (
	maxRecipeNameLength = 200
	minCookingTime      = 1
)

const (
	msgRequired            = "This field is required."
	msgNameTooLong         = "Ensure this field has no more than 200 characters."
	msgCookingTimeTooSmall = "Cooking time must be at least 1 minute."
	msgIngredientsMissing  = "Ingredients list is missing."
	msgIngredientsEmpty    = "Ingredients list is empty."
	msgIngredientIDMissing = "Every ingredient needs an id."
	msgDuplicateIngredient = "The same ingredient is listed twice."
	msgTagsMissing         = "Tags list is missing."
	msgTagsEmpty           = "No tags selected."
	msgTagIDInvalid        = "Tag id must be a positive integer."
	msgDuplicateTag        = "The same tag is listed twice."
	msgImageKeyInvalid     = "Image must be an uploaded recipe image."
	msgImageInUse          = "This image belongs to another author's recipe."
)

type IngredientAmountInput struct {
	ID     uint   `json:"id"`
	Amount Amount `json:"amount"`
}

// RecipeInput is the nested create/update payload. Nil slices mean the key was absent.
type RecipeInput struct {
	Name        string                  `json:"name"`
	Text        string                  `json:"text"`
	Image       string                  `json:"image"`
	CookingTime *int                    `json:"cooking_time"`
	Tags        []uint                  `json:"tags"`
	Ingredients []IngredientAmountInput `json:"ingredients"`
}

// composedRecipe is a validated payload ready to be written.
type composedRecipe struct {
	recipe      model.Recipe
	tagIDs      []uint
	ingredients []model.RecipeIngredient
}

// validateRecipeInput checks the payload shape. Each field stops at its first failure;
// failures across fields are reported together.
func validateRecipeInput(input RecipeInput) (*composedRecipe, error) {
	verr := newValidationError()

	switch {
	case input.Name == "":
		verr.Add("name", msgRequired)
	case utf8.RuneCountInString(input.Name) > maxRecipeNameLength:
		verr.Add("name", msgNameTooLong)
	}
	if input.Text == "" {
		verr.Add("text", msgRequired)
	}
	switch {
	case input.Image == "":
		verr.Add("image", msgRequired)
	case !IsRecipeImageKey(input.Image):
		verr.Add("image", msgImageKeyInvalid)
	}
	switch {
	case input.CookingTime == nil:
		verr.Add("cooking_time", msgRequired)
	case *input.CookingTime < minCookingTime:
		verr.Add("cooking_time", msgCookingTimeTooSmall)
	}

	ingredients, msg := validateIngredients(input.Ingredients)
	if msg != "" {
		verr.Add("ingredients", msg)
	}
	tagIDs, msg := validateTags(input.Tags)
	if msg != "" {
		verr.Add("tags", msg)
	}

	if err := verr.orNil(); err != nil {
		return nil, err
	}

	composed := &composedRecipe{
		recipe: model.Recipe{
			Name:        input.Name,
			Text:        input.Text,
			Image:       input.Image,
			CookingTime: *input.CookingTime,
		},
		tagIDs:      tagIDs,
		ingredients: ingredients,
	}
	return composed, nil
}

// IsRecipeImageKey reports whether key lies inside the recipe image folder.
func IsRecipeImageKey(key string) bool {
	prefix := RecipeImageFolder + "/"
	return strings.HasPrefix(key, prefix) &&
		len(key) > len(prefix) &&
		!strings.Contains(key, "..") &&
		!strings.Contains(key, "//")
}

func validateIngredients(items []IngredientAmountInput) ([]model.RecipeIngredient, string) {
	if items == nil {
		return nil, msgIngredientsMissing
	}
	if len(items) == 0 {
		return nil, msgIngredientsEmpty
	}

	seen := make(map[uint]bool, len(items))
	for _, item := range items {
		if item.ID == 0 {
			return nil, msgIngredientIDMissing
		}
		if seen[item.ID] {
			return nil, msgDuplicateIngredient
		}
		seen[item.ID] = true
	}

	rows := make([]model.RecipeIngredient, 0, len(items))
	for _, item := range items {
		amount, err := item.Amount.Int()
		if err != nil {
			return nil, err.Error()
		}
		rows = append(rows, model.RecipeIngredient{IngredientID: item.ID, Amount: amount})
	}
	return rows, ""
}

func validateTags(ids []uint) ([]uint, string) {
	if ids == nil {
		return nil, msgTagsMissing
	}
	if len(ids) == 0 {
		return nil, msgTagsEmpty
	}

	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if id == 0 {
			return nil, msgTagIDInvalid
		}
		if seen[id] {
			return nil, msgDuplicateTag
		}
		seen[id] = true
	}
	return ids, ""
}

// resolveReferences fails with NotFound for the first id that does not exist.
func resolveReferences(composed *composedRecipe, ingredients repository.IngredientRepository, tags repository.TagRepository) error {
	ingredientIDs := make([]uint, 0, len(composed.ingredients))
	for _, item := range composed.ingredients {
		ingredientIDs = append(ingredientIDs, item.IngredientID)
	}
	found, err := ingredients.FindByIDs(ingredientIDs)
	if err != nil {
		return err
	}
	known := make(map[uint]bool, len(found))
	for _, ingredient := range found {
		known[ingredient.ID] = true
	}
	for _, id := range ingredientIDs {
		if !known[id] {
			return fmt.Errorf("%w: id %d", ErrIngredientNotFound, id)
		}
	}

	foundTags, err := tags.FindByIDs(composed.tagIDs)
	if err != nil {
		return err
	}
	knownTags := make(map[uint]bool, len(foundTags))
	for _, tag := range foundTags {
		knownTags[tag.ID] = true
	}
	for _, id := range composed.tagIDs {
		if !knownTags[id] {
			return fmt.Errorf("%w: id %d", ErrTagNotFound, id)
		}
	}
	return nil
}
