package validation

import (
	"github.com/gofiber/fiber/v2"
)

// ParseJSONBody decodes a JSON request body into a field map available to
// body chains. Requests without a body, or with a non-JSON content type, get
// an empty map. A malformed JSON body is rejected with 400.
func ParseJSONBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fields := make(map[string]interface{})
		if len(c.Body()) > 0 && c.Is("json") {
			if err := c.BodyParser(&fields); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "invalid JSON body",
				})
			}
		}
		c.Locals(bodyKey, fields)
		return c.Next()
	}
}

// BodyFields returns the decoded body of the request. It parses the body on
// first use when ParseJSONBody is not mounted.
func BodyFields(c *fiber.Ctx) map[string]interface{} {
	if fields, ok := c.Locals(bodyKey).(map[string]interface{}); ok {
		return fields
	}
	fields := make(map[string]interface{})
	if len(c.Body()) > 0 && c.Is("json") {
		_ = c.BodyParser(&fields)
	}
	c.Locals(bodyKey, fields)
	return fields
}
