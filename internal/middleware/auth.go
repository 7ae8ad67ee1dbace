package middleware

import (
	"github.com/curiokeep/curiokeep/internal/services"
	"github.com/curiokeep/curiokeep/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// RequireUser gates a route on an established session carrying a user_id.
// Revoked sessions (logged out elsewhere) are rejected the same way as
// missing ones.
func RequireUser(store *session.Store, revoked services.TokenStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized access", "")
		}

		userID, _ := sess.Get("user_id").(string)
		if userID == "" {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized access", "")
		}

		if revoked != nil && revoked.IsRevoked(sess.ID()) {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized access", "")
		}

		// Expose identity to handlers
		c.Locals("user_id", userID)
		if username, ok := sess.Get("username").(string); ok {
			c.Locals("username", username)
		}

		return c.Next()
	}
}
