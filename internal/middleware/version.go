package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// APIVersion is the current API contract version
const APIVersion = "1.0.0"

// Version negotiates the X-Api-Version header, stores the requested
// version in context and echoes the served version on the response.
func Version() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requested := c.Get("X-Api-Version", APIVersion)
		if requested == "1.0" {
			requested = APIVersion
		}

		c.Locals("apiVersion", requested)
		c.Set("X-Api-Version", APIVersion)

		return c.Next()
	}
}
