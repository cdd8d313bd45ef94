package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/seu-repo/payvault/internal/ports"
)

// AuthRequired validates the bearer token and stores the resolved user under
// the "user" local for downstream handlers.
func AuthRequired(users ports.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "authentication required"})
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == header {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid authorization header"})
		}

		user, err := users.ValidateToken(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid or expired token"})
		}

		c.Locals("user", user)
		return c.Next()
	}
}
