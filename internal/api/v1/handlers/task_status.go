package handlers

import (
	"task-manager/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TaskStatusHandler struct {
	statuses *service.TaskStatusService
}

func NewTaskStatusHandler(statuses *service.TaskStatusService) *TaskStatusHandler {
	return &TaskStatusHandler{statuses: statuses}
}

func (h *TaskStatusHandler) List(c *fiber.Ctx) error {
	statuses, err := h.statuses.List(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Task statuses fetched successfully", statuses)
}

func (h *TaskStatusHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "Invalid task status ID", err)
	}
	status, err := h.statuses.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Task status found", status)
}

func (h *TaskStatusHandler) Create(c *fiber.Ctx) error {
	var req service.TaskStatusDto
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Bad request", err)
	}
	status, err := h.statuses.Create(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusCreated, "Task status created successfully", status)
}

func (h *TaskStatusHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "Invalid task status ID", err)
	}
	var req service.TaskStatusDto
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Bad request", err)
	}
	status, err := h.statuses.Update(c.UserContext(), id, req)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Task status updated successfully", status)
}

func (h *TaskStatusHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "Invalid task status ID", err)
	}
	if err := h.statuses.Delete(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Task status deleted successfully", nil)
}
