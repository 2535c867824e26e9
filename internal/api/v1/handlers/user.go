package handlers

import (
	"task-manager/internal/middleware"
	"task-manager/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	users *service.UserService
	authz *service.Authorizer
}

func NewUserHandler(users *service.UserService, authz *service.Authorizer) *UserHandler {
	return &UserHandler{users: users, authz: authz}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Users fetched successfully", users)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "Invalid user ID", err)
	}
	user, err := h.users.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "User found", user)
}

// Create registers a new user; it is the only unauthenticated write.
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req service.UserDto
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Bad request", err)
	}
	user, err := h.users.Create(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusCreated, "User created successfully", user)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "Invalid user ID", err)
	}
	if err := h.authz.CanModifyUser(c.UserContext(), middleware.Identity(c), id); err != nil {
		return fail(c, err)
	}

	var req service.UserDto
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Bad request", err)
	}
	user, err := h.users.Update(c.UserContext(), id, req)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "User updated successfully", user)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "Invalid user ID", err)
	}
	if err := h.authz.CanModifyUser(c.UserContext(), middleware.Identity(c), id); err != nil {
		return fail(c, err)
	}
	if err := h.users.Delete(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "User deleted successfully", nil)
}
