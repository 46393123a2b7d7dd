package handlers

import (
	"Recipehub-Backend/domain"
	"errors"

	"github.com/gofiber/fiber/v2"
)

// statusForError maps service errors to HTTP statuses: validation and
// conflict errors to 400, authorization to 403, missing records to 404,
// anything else to 500.
func statusForError(err error) int {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return fiber.StatusBadRequest
	}

	switch {
	case errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrTagNotFound),
		errors.Is(err, domain.ErrIngredientNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorizedRecipeAccess),
		errors.Is(err, domain.ErrUserNotAllowed):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrAlreadyInRelation),
		errors.Is(err, domain.ErrNotInRelation),
		errors.Is(err, domain.ErrRecipeNameTaken),
		errors.Is(err, domain.ErrAlreadySubscribed),
		errors.Is(err, domain.ErrNotSubscribed),
		errors.Is(err, domain.ErrSubscribeToSelf),
		errors.Is(err, domain.ErrEmailAlreadyExists),
		errors.Is(err, domain.ErrUsernameAlreadyExists),
		errors.Is(err, domain.ErrCredentialsInvalid),
		errors.Is(err, domain.ErrPasswordInvalid),
		errors.Is(err, domain.ErrShoppingCartEmpty),
		errors.Is(err, domain.ErrParseUUID),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenInvalid):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
