package middleware

import (
	"errors"
	"fmt"
	"html"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"
)

const notFoundPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Error</title>
</head>
<body>
<pre>Cannot %s %s</pre>
</body>
</html>
`

// ErrorHandler is the fiber error handler of the API.
//
// Unknown routes get an HTML 404 page rather than JSON, so API clients can
// tell a missing route from a missing product. Other fiber errors keep their
// status code and are rendered as {"error": msg}. Everything else is logged
// and answered with 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
			c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
			return c.Status(fiber.StatusNotFound).
				SendString(fmt.Sprintf(notFoundPage, c.Method(), html.EscapeString(c.Path())))
		default:
			return c.Status(fe.Code).JSON(fiber.Map{
				"error": fe.Message,
			})
		}
	}

	logrus.WithFields(logrus.Fields{
		"request_id": c.Locals(requestid.ConfigDefault.ContextKey),
		"method":     c.Method(),
		"path":       c.Path(),
	}).WithError(err).Error("Unhandled request error")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal server error",
	})
}
