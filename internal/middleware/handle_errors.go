package middleware

import (
	"productapi/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// HandleErrors stops the request when any validator mounted before it has
// recorded a failure. The failures are returned as {"error": [...]}.
//
// Validation failures are answered with 404, not 400. Existing clients rely
// on that status.
func HandleErrors() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if errs := validation.Errors(c); len(errs) > 0 {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": errs,
			})
		}
		return c.Next()
	}
}
