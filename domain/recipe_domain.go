package domain

import (
	"errors"
	"time"
)

const (
	CookingTimeMin = 1
	CookingTimeMax = 300
	AmountMin      = 1
	AmountMax      = 1000
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "recipe created successfully"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessDeleteRecipe    = "recipe deleted successfully"
	MessageSuccessAddFavorite     = "recipe added to favorites"
	MessageSuccessRemoveFavorite  = "recipe removed from favorites"
	MessageSuccessAddToCart       = "recipe added to shopping cart"
	MessageSuccessRemoveFromCart  = "recipe removed from shopping cart"
	MessageSuccessGetShoppingList = "success get shopping list"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedAddFavorite     = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite  = "failed to remove recipe from favorites"
	MessageFailedAddToCart       = "failed to add recipe to shopping cart"
	MessageFailedRemoveFromCart  = "failed to remove recipe from shopping cart"
	MessageFailedGetShoppingList = "failed to get shopping list"

	ErrRecipeNotFound           = errors.New("recipe not found")
	ErrUnauthorizedRecipeAccess = errors.New("unauthorized access to recipe")
	ErrRecipeNameTaken          = errors.New("recipe with this name already exists for this author")
	ErrAlreadyInRelation        = errors.New("recipe already added")
	ErrNotInRelation            = errors.New("recipe not added")
	ErrShoppingCartEmpty        = errors.New("shopping cart is empty")
)

// MembershipRelation selects which (user, recipe) relation a membership
// operation targets. Favorite and ShoppingCart share the exact same add,
// remove and conflict semantics.
type MembershipRelation string

const (
	RelationFavorite     MembershipRelation = "favorite"
	RelationShoppingCart MembershipRelation = "shopping_cart"
)

type (
	// IngredientAmount is one (ingredient, amount) pair of the flat write
	// payload.
	IngredientAmount struct {
		ID     string `json:"id" validate:"required,uuid"`
		Amount int    `json:"amount" validate:"required,min=1,max=1000"`
	}

	// RecipeWriteRequest is the flat payload accepted by create and update.
	// Updates are full-replace: the complete desired tag and ingredient sets
	// are supplied every time.
	RecipeWriteRequest struct {
		Name        string             `json:"name" validate:"required,max=200"`
		Text        string             `json:"text" validate:"required"`
		CookingTime int                `json:"cooking_time" validate:"required,min=1,max=300"`
		Image       string             `json:"image" validate:"omitempty"`
		Tags        []string           `json:"tags" validate:"required,dive,uuid"`
		Ingredients []IngredientAmount `json:"ingredients" validate:"required,dive"`
	}

	// RecipeIngredientView is one expanded ingredient row of the read
	// projection: catalog fields plus the link amount.
	RecipeIngredientView struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	// RecipeResponse is the nested read projection returned by retrieve,
	// list, create and update alike.
	RecipeResponse struct {
		ID               string                 `json:"id"`
		Name             string                 `json:"name"`
		Text             string                 `json:"text"`
		CookingTime      int                    `json:"cooking_time"`
		ImageURL         string                 `json:"image_url,omitempty"`
		Author           UserProfile            `json:"author"`
		Tags             []TagResponse          `json:"tags"`
		Ingredients      []RecipeIngredientView `json:"ingredients"`
		IsFavorited      bool                   `json:"is_favorited"`
		IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
		CreatedAt        time.Time              `json:"created_at"`
	}

	// RecipeMinified is the short shape returned by membership adds and
	// embedded in subscription listings.
	RecipeMinified struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		ImageURL    string `json:"image_url,omitempty"`
		CookingTime int    `json:"cooking_time"`
	}

	// RecipeFilter is the decoded recipe list query. IsFavorited and
	// IsInShoppingCart are nil when absent, otherwise 1 (keep only) or
	// 0 (exclude).
	RecipeFilter struct {
		TagSlugs         []string
		AuthorID         string
		IsFavorited      *int
		IsInShoppingCart *int
	}

	RecipeListResponse struct {
		Recipes []RecipeResponse `json:"recipes"`
		Total   int64            `json:"total"`
	}

	// ShoppingListItem is one consolidated line of the exported list:
	// amounts summed per ingredient across every recipe in the cart.
	ShoppingListItem struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		TotalAmount     int    `json:"total_amount"`
	}
)
