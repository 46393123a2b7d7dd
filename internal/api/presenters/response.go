package presenters

import (
	"Recipehub-Backend/domain"
	"errors"

	"github.com/gofiber/fiber/v2"
)

func SuccessResponse(c *fiber.Ctx, data any, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// ErrorResponse renders a failed request. A domain.ValidationError is
// expanded into its per-field message map.
func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	payload := fiber.Map{
		"success": false,
		"message": message,
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		payload["errors"] = validationErr.Fields
	} else if err != nil {
		payload["error"] = err.Error()
	}

	return c.Status(status).JSON(payload)
}
