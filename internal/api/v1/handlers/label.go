package handlers

import (
	"task-manager/internal/service"

	"github.com/gofiber/fiber/v2"
)

type LabelHandler struct {
	labels *service.LabelService
}

func NewLabelHandler(labels *service.LabelService) *LabelHandler {
	return &LabelHandler{labels: labels}
}

func (h *LabelHandler) List(c *fiber.Ctx) error {
	labels, err := h.labels.List(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Labels fetched successfully", labels)
}

func (h *LabelHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "Invalid label ID", err)
	}
	label, err := h.labels.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Label found", label)
}

func (h *LabelHandler) Create(c *fiber.Ctx) error {
	var req service.LabelDto
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Bad request", err)
	}
	label, err := h.labels.Create(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusCreated, "Label created successfully", label)
}

func (h *LabelHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "Invalid label ID", err)
	}
	var req service.LabelDto
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Bad request", err)
	}
	label, err := h.labels.Update(c.UserContext(), id, req)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Label updated successfully", label)
}

// Delete refuses labels still attached to a task.
func (h *LabelHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "Invalid label ID", err)
	}
	if err := h.labels.Delete(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Label deleted successfully", nil)
}
