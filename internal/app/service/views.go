package service

import (
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
)

type TagView struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

type IngredientView struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type UserView struct {
	Email        string `json:"email"`
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// RecipeIngredientView merges the ingredient with the per-recipe amount.
type RecipeIngredientView struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeView struct {
	ID               uint                   `json:"id"`
	Tags             []TagView              `json:"tags"`
	Author           UserView               `json:"author"`
	Ingredients      []RecipeIngredientView `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
	Name             string                 `json:"name"`
	Image            string                 `json:"image"`
	Text             string                 `json:"text"`
	CookingTime      int                    `json:"cooking_time"`
}

type RecipeShortView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

type FollowView struct {
	UserView
	Recipes      []RecipeShortView `json:"recipes"`
	RecipesCount int64             `json:"recipes_count"`
}

type RecipePage struct {
	Count   int64        `json:"count"`
	Page    int          `json:"page"`
	Limit   int          `json:"limit"`
	Results []RecipeView `json:"results"`
}

type UserPage struct {
	Count   int64      `json:"count"`
	Page    int        `json:"page"`
	Limit   int        `json:"limit"`
	Results []UserView `json:"results"`
}

func NewTagView(tag model.Tag) TagView {
	return TagView{ID: tag.ID, Name: tag.Name, Color: tag.Color, Slug: tag.Slug}
}

func NewIngredientView(ingredient model.Ingredient) IngredientView {
	return IngredientView{ID: ingredient.ID, Name: ingredient.Name, MeasurementUnit: ingredient.MeasurementUnit}
}

// ViewProjector turns models into views, resolving viewer-relative flags with one
// lookup per relation table for a whole page of rows.
type ViewProjector struct {
	favorites repository.FavoriteRepository
	carts     repository.ShoppingCartRepository
	follows   repository.FollowRepository
	media     MediaStorage
}

func NewViewProjector(
	favorites repository.FavoriteRepository,
	carts repository.ShoppingCartRepository,
	follows repository.FollowRepository,
	media MediaStorage,
) *ViewProjector {
	return &ViewProjector{favorites: favorites, carts: carts, follows: follows, media: media}
}

func (p *ViewProjector) imageURL(key string) string {
	if p.media == nil {
		return key
	}
	return p.media.URL(key)
}

func (p *ViewProjector) ShortRecipe(recipe model.Recipe) RecipeShortView {
	return RecipeShortView{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       p.imageURL(recipe.Image),
		CookingTime: recipe.CookingTime,
	}
}

func (p *ViewProjector) ShortRecipes(recipes []model.Recipe) []RecipeShortView {
	views := make([]RecipeShortView, 0, len(recipes))
	for _, recipe := range recipes {
		views = append(views, p.ShortRecipe(recipe))
	}
	return views
}

func userView(user model.User, subscribed bool) UserView {
	return UserView{
		Email:        user.Email,
		ID:           user.ID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: subscribed,
	}
}

// Users projects users with is_subscribed resolved for viewer.
func (p *ViewProjector) Users(viewer Principal, users []model.User) ([]UserView, error) {
	subscribed := map[uint]bool{}
	if !viewer.IsAnonymous() && len(users) > 0 {
		ids := make([]uint, 0, len(users))
		for _, user := range users {
			ids = append(ids, user.ID)
		}
		var err error
		if subscribed, err = p.follows.FindFollowedAuthorIDs(viewer.UserID, ids); err != nil {
			return nil, err
		}
	}

	views := make([]UserView, 0, len(users))
	for _, user := range users {
		views = append(views, userView(user, subscribed[user.ID]))
	}
	return views, nil
}

// Recipes expects recipes loaded with author, tags and ingredients.
func (p *ViewProjector) Recipes(viewer Principal, recipes []model.Recipe) ([]RecipeView, error) {
	favorited := map[uint]bool{}
	inCart := map[uint]bool{}
	subscribed := map[uint]bool{}

	if !viewer.IsAnonymous() && len(recipes) > 0 {
		recipeIDs := make([]uint, 0, len(recipes))
		authorIDs := make([]uint, 0, len(recipes))
		for _, recipe := range recipes {
			recipeIDs = append(recipeIDs, recipe.ID)
			authorIDs = append(authorIDs, recipe.AuthorID)
		}

		var err error
		if favorited, err = p.favorites.FindRecipeIDs(viewer.UserID, recipeIDs); err != nil {
			return nil, err
		}
		if inCart, err = p.carts.FindRecipeIDs(viewer.UserID, recipeIDs); err != nil {
			return nil, err
		}
		if subscribed, err = p.follows.FindFollowedAuthorIDs(viewer.UserID, authorIDs); err != nil {
			return nil, err
		}
	}

	views := make([]RecipeView, 0, len(recipes))
	for _, recipe := range recipes {
		tags := make([]TagView, 0, len(recipe.RecipeTags))
		for _, recipeTag := range recipe.RecipeTags {
			tags = append(tags, NewTagView(recipeTag.Tag))
		}

		ingredients := make([]RecipeIngredientView, 0, len(recipe.RecipeIngredients))
		for _, item := range recipe.RecipeIngredients {
			ingredients = append(ingredients, RecipeIngredientView{
				ID:              item.Ingredient.ID,
				Name:            item.Ingredient.Name,
				MeasurementUnit: item.Ingredient.MeasurementUnit,
				Amount:          item.Amount,
			})
		}

		views = append(views, RecipeView{
			ID:               recipe.ID,
			Tags:             tags,
			Author:           userView(recipe.Author, subscribed[recipe.AuthorID]),
			Ingredients:      ingredients,
			IsFavorited:      favorited[recipe.ID],
			IsInShoppingCart: inCart[recipe.ID],
			Name:             recipe.Name,
			Image:            p.imageURL(recipe.Image),
			Text:             recipe.Text,
			CookingTime:      recipe.CookingTime,
		})
	}
	return views, nil
}

func (p *ViewProjector) Recipe(viewer Principal, recipe model.Recipe) (*RecipeView, error) {
	views, err := p.Recipes(viewer, []model.Recipe{recipe})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
