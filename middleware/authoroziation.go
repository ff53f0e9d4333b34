package middleware

import (
	"crypto/subtle"
	"strings"

	"enrollment-backend/config"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProtectedRoute requires "Authorization: Bearer <operator key>" when the
// context carries a key.
func ProtectedRoute(ctx *AppContext) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ctx == nil || ctx.OperatorKey == "" {
			return c.Next()
		}

		header := c.Get(fiber.HeaderAuthorization)
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(token)), []byte(ctx.OperatorKey)) != 1 {
			config.Logger.Debug("Rejected operator request", zap.String("path", c.Path()))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized",
				"error":   "Operator key required",
			})
		}
		return c.Next()
	}
}
