package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tair/commodity-tracker/pkg/auth"
)

// Locals keys set by AuthMiddleware
const (
	LocalUserID   = "user_id"
	LocalUsername = "username"
	LocalRole     = "role"
)

// AuthMiddleware rejects requests without a valid bearer token and forwards
// the session to the backend as X-User-* headers
func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Authorization header required",
			})
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid authorization header format",
			})
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid token",
			})
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUsername, claims.Username)
		c.Locals(LocalRole, claims.Role)

		c.Request().Header.Set("X-User-ID", claims.UserID)
		c.Request().Header.Set("X-User-Role", claims.Role)

		return c.Next()
	}
}

// AdminOnlyMethods rejects non-admin callers for the listed methods and lets
// every other method through. Must run after AuthMiddleware.
func AdminOnlyMethods(methods ...string) fiber.Handler {
	guarded := make(map[string]bool, len(methods))
	for _, m := range methods {
		guarded[m] = true
	}

	return func(c *fiber.Ctx) error {
		if !guarded[c.Method()] {
			return c.Next()
		}
		if role, _ := c.Locals(LocalRole).(string); role != auth.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Admin access required",
			})
		}
		return c.Next()
	}
}
