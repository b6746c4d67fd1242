package middleware

import (
	"log"

	"plotpilot/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SessionCookieName is the cookie the session token travels in.
const SessionCookieName = "plotpilot_session"

// AuthRequired is a Fiber middleware that rejects requests without a valid
// session cookie before any business logic runs.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(SessionCookieName)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Please log in to continue",
			})
		}

		userID, username, err := authService.ValidateSessionToken(tokenString)
		if err != nil {
			log.Printf("Session validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Please log in to continue",
			})
		}

		// Store the session identity in Fiber context for subsequent handlers
		c.Locals("user_id", userID)
		c.Locals("username", username)

		// Continue to the next handler
		return c.Next()
	}
}
