package middleware

import (
	"marketspace/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SignedInRequired is a Fiber middleware that rejects requests until a
// session has been established (restored at startup or via sign-in).
func SignedInRequired(sessions *services.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := sessions.Current()
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Sign in to continue",
			})
		}

		// Store the signed-in user in the Fiber context for subsequent handlers
		c.Locals("user_id", session.UserID)
		c.Locals("user_name", session.UserName)

		return c.Next()
	}
}
