package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the decoded bearer-token claims stored on the request.
type Claims struct {
	UserID       string
	Role         string
	IsSuperAdmin bool
}

const claimsKey = "claims"

// Protected validates the bearer token and stores the decoded claims in
// the request context for downstream handlers.
func Protected(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Get("Authorization")
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token"})
		}

		tokenString = strings.TrimPrefix(tokenString, "Bearer ")
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token format"})
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		}

		mapClaims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
		}

		userID, userExists := mapClaims["user_id"].(string)
		role, roleExists := mapClaims["role"].(string)
		if !userExists || !roleExists {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token payload"})
		}
		isSuperAdmin, _ := mapClaims["is_super_admin"].(bool)

		c.Locals(claimsKey, Claims{
			UserID:       userID,
			Role:         role,
			IsSuperAdmin: isSuperAdmin,
		})
		return c.Next()
	}
}

// CurrentClaims returns the claims stored by Protected.
func CurrentClaims(c *fiber.Ctx) Claims {
	claims, _ := c.Locals(claimsKey).(Claims)
	return claims
}
