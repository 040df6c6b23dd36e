package middleware

import (
	"errors"
	"strings"

	"formsheet/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SubjectKey is the fiber.Ctx local holding the verified token subject (the account email).
const SubjectKey = "email"

// AuthRequired is a Fiber middleware to check for a valid session token. The Authorization
// header carries either the bare token or "Bearer <token>".
func AuthRequired(logger *zap.SugaredLogger, authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if scheme, rest, ok := strings.Cut(token, " "); ok && strings.EqualFold(scheme, "Bearer") {
			token = strings.TrimSpace(rest)
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "No token provided",
			})
		}

		subject, err := authService.Authenticate(token)
		if err != nil {
			reason := "invalid"
			if errors.Is(err, services.ErrTokenExpired) {
				reason = "expired"
			}
			logger.Infow("token rejected", "reason", reason, "path", c.Path(), "error", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		c.Locals(SubjectKey, subject)
		return c.Next()
	}
}
