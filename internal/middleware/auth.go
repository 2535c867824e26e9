package middleware

import (
	"strings"

	"task-manager/internal/service"
	"task-manager/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// LocalEmail is the fiber.Ctx locals key holding the authenticated email.
const LocalEmail = "email"

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": message,
		"success": false,
		"status":  fiber.StatusUnauthorized,
	})
}

// authenticate validates the raw token and stores the identity both in
// locals and in the user context read by the services.
func authenticate(c *fiber.Ctx, tokens *service.TokenService, raw string) error {
	email, err := tokens.Validate(raw)
	if err != nil {
		logger.SecurityLogger.Warn("Invalid token",
			zap.String("ip", c.IP()),
			zap.String("url", c.OriginalURL()),
			zap.Error(err))
		return unauthorized(c, "Invalid token")
	}
	c.Locals(LocalEmail, email)
	c.SetUserContext(service.WithIdentity(c.UserContext(), email))
	return c.Next()
}

// UseToken requires an "Authorization: Bearer <token>" header.
func UseToken(tokens *service.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "No token provided")
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return unauthorized(c, "Invalid token format")
		}
		return authenticate(c, tokens, parts[1])
	}
}

// UseQueryToken reads the token from the "token" query parameter. Used on
// the websocket handshake.
func UseQueryToken(tokens *service.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Query("token")
		if raw == "" {
			return unauthorized(c, "No token provided")
		}
		return authenticate(c, tokens, raw)
	}
}

// Identity returns the email stored by UseToken, or "" outside of it.
func Identity(c *fiber.Ctx) string {
	email, _ := c.Locals(LocalEmail).(string)
	return email
}
