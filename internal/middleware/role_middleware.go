package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rojgarsetu/backend/internal/models"
)

// RequireRole allows only the listed roles past. It must run after
// Protected has stored the claims.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := CurrentClaims(c)
		for _, role := range roles {
			if claims.Role == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied."})
	}
}

// RequireAdmin ensures that only admin accounts reach the handler.
func RequireAdmin() fiber.Handler {
	return RequireRole(models.RoleAdmin)
}
