package handlers

import (
	"errors"

	"task-manager/internal/middleware"
	"task-manager/internal/service"
	"task-manager/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func respond(c *fiber.Ctx, status int, message string, data interface{}) error {
	body := fiber.Map{
		"message": message,
		"success": true,
		"status":  status,
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

func badRequest(c *fiber.Ctx, message string, err error) error {
	logger.ErrorLogger.Warn(message, zap.String("url", c.OriginalURL()), zap.Error(err))
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": message,
		"success": false,
		"status":  fiber.StatusBadRequest,
	})
}

// statusOf maps a service error kind to its HTTP status; 0 means the error
// is not a service error.
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, service.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrDuplicate):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrIntegrity):
		return fiber.StatusUnprocessableEntity
	}
	return 0
}

func fail(c *fiber.Ctx, err error) error {
	status := statusOf(err)
	var serr *service.Error
	if status == 0 || !errors.As(err, &serr) {
		logger.ErrorLogger.Error("Unhandled error",
			zap.String("method", c.Method()),
			zap.String("url", c.OriginalURL()),
			zap.String("email", middleware.Identity(c)),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
			"success": false,
			"status":  fiber.StatusInternalServerError,
		})
	}

	body := fiber.Map{
		"message": serr.Message,
		"success": false,
		"status":  status,
	}
	if serr.Details != "" {
		body["errors"] = serr.Details
	}
	return c.Status(status).JSON(body)
}

func paramID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return 0, err
	}
	return int64(id), nil
}
