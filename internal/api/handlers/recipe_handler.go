package handlers

import (
	"Recipehub-Backend/domain"
	"Recipehub-Backend/internal/api/presenters"
	"Recipehub-Backend/pkg/recipe"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	RecipeHandler interface {
		GetRecipes(c *fiber.Ctx) error
		GetRecipeDetail(c *fiber.Ctx) error
		CreateRecipe(c *fiber.Ctx) error
		UpdateRecipe(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
		AddFavorite(c *fiber.Ctx) error
		RemoveFavorite(c *fiber.Ctx) error
		AddToShoppingCart(c *fiber.Ctx) error
		RemoveFromShoppingCart(c *fiber.Ctx) error
		DownloadShoppingCart(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService recipe.RecipeService
		validator     *validator.Validate
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService, validator *validator.Validate) RecipeHandler {
	return &recipeHandler{
		recipeService: recipeService,
		validator:     validator,
	}
}

func (h *recipeHandler) GetRecipes(c *fiber.Ctx) error {
	viewerID := c.Locals("user_id").(string)

	filter := domain.RecipeFilter{
		AuthorID: c.Query("author", ""),
	}
	if tags := c.Query("tags", ""); tags != "" {
		filter.TagSlugs = strings.Split(tags, ",")
	}
	if raw := c.Query("is_favorited", ""); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			filter.IsFavorited = &value
		}
	}
	if raw := c.Query("is_in_shopping_cart", ""); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			filter.IsInShoppingCart = &value
		}
	}

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	res, err := h.recipeService.GetRecipes(c.Context(), filter, viewerID, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetRecipes, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"recipes": res.Recipes,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       res.Total,
			"total_pages": (res.Total + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) GetRecipeDetail(c *fiber.Ctx) error {
	viewerID := c.Locals("user_id").(string)

	res, err := h.recipeService.GetRecipeDetail(c.Context(), c.Params("id"), viewerID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetRecipeDetail, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipeDetail)
}

func (h *recipeHandler) CreateRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.RecipeWriteRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateRecipe, err)
	}

	res, err := h.recipeService.CreateRecipe(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedCreateRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateRecipe)
}

func (h *recipeHandler) UpdateRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	role := c.Locals("role").(string)
	req := new(domain.RecipeWriteRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateRecipe, err)
	}

	res, err := h.recipeService.UpdateRecipe(c.Context(), c.Params("id"), *req, userID, role)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedUpdateRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateRecipe)
}

func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	role := c.Locals("role").(string)

	if err := h.recipeService.DeleteRecipe(c.Context(), c.Params("id"), userID, role); err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedDeleteRecipe, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteRecipe)
}

func (h *recipeHandler) AddFavorite(c *fiber.Ctx) error {
	return h.addMembership(c, domain.RelationFavorite, domain.MessageSuccessAddFavorite, domain.MessageFailedAddFavorite)
}

func (h *recipeHandler) RemoveFavorite(c *fiber.Ctx) error {
	return h.removeMembership(c, domain.RelationFavorite, domain.MessageSuccessRemoveFavorite, domain.MessageFailedRemoveFavorite)
}

func (h *recipeHandler) AddToShoppingCart(c *fiber.Ctx) error {
	return h.addMembership(c, domain.RelationShoppingCart, domain.MessageSuccessAddToCart, domain.MessageFailedAddToCart)
}

func (h *recipeHandler) RemoveFromShoppingCart(c *fiber.Ctx) error {
	return h.removeMembership(c, domain.RelationShoppingCart, domain.MessageSuccessRemoveFromCart, domain.MessageFailedRemoveFromCart)
}

func (h *recipeHandler) addMembership(c *fiber.Ctx, relation domain.MembershipRelation, successMessage, failedMessage string) error {
	userID := c.Locals("user_id").(string)

	res, err := h.recipeService.AddMembership(c.Context(), c.Params("id"), userID, relation)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), failedMessage, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, successMessage)
}

func (h *recipeHandler) removeMembership(c *fiber.Ctx, relation domain.MembershipRelation, successMessage, failedMessage string) error {
	userID := c.Locals("user_id").(string)

	if err := h.recipeService.RemoveMembership(c.Context(), c.Params("id"), userID, relation); err != nil {
		return presenters.ErrorResponse(c, statusForError(err), failedMessage, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, successMessage)
}

// DownloadShoppingCart renders the consolidated shopping list as a plain
// text attachment.
func (h *recipeHandler) DownloadShoppingCart(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	items, err := h.recipeService.GetShoppingList(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusForError(err), domain.MessageFailedGetShoppingList, err)
	}

	var builder strings.Builder
	for _, item := range items {
		builder.WriteString(fmt.Sprintf("%s (%s) — %d\n", item.Name, item.MeasurementUnit, item.TotalAmount))
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="list.txt"`)
	return c.Status(fiber.StatusOK).SendString(builder.String())
}
