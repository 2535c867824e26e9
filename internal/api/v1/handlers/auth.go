package handlers

import (
	"task-manager/internal/service"
	"task-manager/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	auth     *service.AuthService
	validate *validator.Validate
}

func NewAuthHandler(auth *service.AuthService, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{auth: auth, validate: validate}
}

// Login exchanges email and password for a bearer token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginDto
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Bad request", err)
	}

	if err := h.validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error during login", zap.Error(err))
		return fail(c, &service.Error{Kind: service.ErrValidation, Message: "Validation error", Details: err.Error()})
	}

	token, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Login success", fiber.Map{"token": token})
}
