package domain

import (
	"fmt"
	"time"
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "recipe created successfully"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessGetShortLink    = "success get short link"
	MessageSuccessAddFavorite     = "recipe added to favorites"
	MessageSuccessAddShoppingCart = "recipe added to shopping cart"

	MessageFailedGetRecipes           = "failed to get recipes"
	MessageFailedGetRecipeDetail      = "failed to get recipe detail"
	MessageFailedCreateRecipe         = "failed to create recipe"
	MessageFailedUpdateRecipe         = "failed to update recipe"
	MessageFailedDeleteRecipe         = "failed to delete recipe"
	MessageFailedGetShortLink         = "failed to get short link"
	MessageFailedResolveShortLink     = "failed to resolve short link"
	MessageFailedAddFavorite          = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite       = "failed to remove recipe from favorites"
	MessageFailedAddShoppingCart      = "failed to add recipe to shopping cart"
	MessageFailedRemoveShoppingCart   = "failed to remove recipe from shopping cart"
	MessageFailedDownloadShoppingList = "failed to build shopping list"

	ErrRecipeNotFound           = fmt.Errorf("recipe %w", ErrNotFound)
	ErrUnauthorizedRecipeAccess = fmt.Errorf("%w: recipe belongs to another author", ErrForbidden)
	ErrNoIngredients            = fmt.Errorf("%w: recipe must have at least one ingredient", ErrValidation)
	ErrDuplicateIngredient      = fmt.Errorf("%w: ingredients must not repeat", ErrValidation)
	ErrUnknownIngredient        = fmt.Errorf("%w: ingredient does not exist", ErrValidation)
	ErrNoTags                   = fmt.Errorf("%w: recipe must have at least one tag", ErrValidation)
	ErrDuplicateTag             = fmt.Errorf("%w: tags must not repeat", ErrValidation)
	ErrUnknownTag               = fmt.Errorf("%w: tag does not exist", ErrValidation)
	ErrInvalidCookingTime       = fmt.Errorf("%w: cooking time must be at least 1 minute", ErrValidation)
	ErrInvalidAmount            = fmt.Errorf("%w: ingredient amount must be at least 1", ErrValidation)
	ErrImageRequired            = fmt.Errorf("%w: recipe image is required", ErrValidation)
)

type (
	RecipeIngredientRequest struct {
		ID     uint `json:"id" validate:"required"`
		Amount int  `json:"amount" validate:"required,min=1"`
	}

	CreateRecipeRequest struct {
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
		Tags        []uint                    `json:"tags" validate:"required,min=1"`
		Image       string                    `json:"image" validate:"required"`
		Name        string                    `json:"name" validate:"required,max=256"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"required,min=1"`
	}

	UpdateRecipeRequest struct {
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
		Tags        []uint                    `json:"tags" validate:"required,min=1"`
		Image       string                    `json:"image" validate:"omitempty"`
		Name        string                    `json:"name" validate:"omitempty,max=256"`
		Text        string                    `json:"text" validate:"omitempty"`
		CookingTime int                       `json:"cooking_time" validate:"omitempty,min=1"`
	}

	RecipeFilter struct {
		Tags             []string
		AuthorID         uint
		IsFavorited      *bool
		IsInShoppingCart *bool
		// ViewerID is 0 for anonymous requests.
		ViewerID uint
	}

	// RecipeShort is the compact representation returned by the favorite and
	// cart toggles and embedded in author profiles.
	RecipeShort struct {
		ID          uint   `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}

	RecipeIngredient struct {
		ID              uint   `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	Recipe struct {
		ID               uint               `json:"id"`
		Tags             []Tag              `json:"tags"`
		Author           UserProfile        `json:"author"`
		Ingredients      []RecipeIngredient `json:"ingredients"`
		IsFavorited      bool               `json:"is_favorited"`
		IsInShoppingCart bool               `json:"is_in_shopping_cart"`
		Name             string             `json:"name"`
		Image            string             `json:"image"`
		Text             string             `json:"text"`
		CookingTime      int                `json:"cooking_time"`
		PubDate          time.Time          `json:"pub_date"`
	}

	RecipeListResponse struct {
		Recipes    []Recipe   `json:"recipes"`
		Pagination Pagination `json:"pagination"`
	}

	ShortLinkResponse struct {
		ShortLink string `json:"short-link"`
	}
)
