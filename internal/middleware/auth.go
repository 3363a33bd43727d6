package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/coachwave/backend/pkg/utils"
)

func AuthRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := claimsFromHeader(c, secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// OptionalAuth populates the identity locals when a valid token is present
// and passes through anonymously otherwise. The routing resolver serves both
// signed-in and anonymous visitors.
func OptionalAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("Authorization") == "" {
			return c.Next()
		}

		claims, err := claimsFromHeader(c, secret)
		if err != nil {
			return c.Next()
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

func claimsFromHeader(c *fiber.Ctx, secret string) (*utils.Claims, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, errMissingHeader
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, errMalformedHeader
	}

	claims, err := utils.ValidateToken(parts[1], secret)
	if err != nil {
		return nil, errInvalidToken
	}
	return claims, nil
}

var (
	errMissingHeader   = fiber.NewError(fiber.StatusUnauthorized, "Missing authorization header")
	errMalformedHeader = fiber.NewError(fiber.StatusUnauthorized, "Invalid authorization header format")
	errInvalidToken    = fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
)
