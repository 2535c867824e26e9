package handlers

import (
	"fmt"
	"strconv"

	"task-manager/internal/middleware"
	"task-manager/internal/models"
	"task-manager/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TaskHandler struct {
	tasks *service.TaskService
	authz *service.Authorizer
}

func NewTaskHandler(tasks *service.TaskService, authz *service.Authorizer) *TaskHandler {
	return &TaskHandler{tasks: tasks, authz: authz}
}

// queryID reads the first non-empty query parameter among names.
func queryID(c *fiber.Ctx, names ...string) (*int64, error) {
	for _, name := range names {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("query parameter %s: %w", name, err)
		}
		return &id, nil
	}
	return nil, nil
}

func parseTaskFilter(c *fiber.Ctx) (models.TaskFilter, error) {
	var (
		filter models.TaskFilter
		err    error
	)
	if filter.AuthorID, err = queryID(c, "authorId"); err != nil {
		return filter, err
	}
	if filter.ExecutorID, err = queryID(c, "executorId"); err != nil {
		return filter, err
	}
	if filter.StatusID, err = queryID(c, "taskStatus", "taskStatusId"); err != nil {
		return filter, err
	}
	if filter.LabelID, err = queryID(c, "labels", "labelId"); err != nil {
		return filter, err
	}
	return filter, nil
}

// List returns the tasks matching every filter given in the query string.
func (h *TaskHandler) List(c *fiber.Ctx) error {
	filter, err := parseTaskFilter(c)
	if err != nil {
		return badRequest(c, "Invalid filter", err)
	}
	tasks, err := h.tasks.List(c.UserContext(), filter)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Tasks fetched successfully", tasks)
}

func (h *TaskHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "Invalid task ID", err)
	}
	task, err := h.tasks.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Task found", task)
}

func (h *TaskHandler) Create(c *fiber.Ctx) error {
	var req service.TaskDto
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Bad request", err)
	}
	task, err := h.tasks.Create(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusCreated, "Task created successfully", task)
}

func (h *TaskHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "Invalid task ID", err)
	}
	if err := h.authz.CanModifyTask(c.UserContext(), middleware.Identity(c), id); err != nil {
		return fail(c, err)
	}

	var req service.TaskDto
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Bad request", err)
	}
	task, err := h.tasks.Update(c.UserContext(), id, req)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Task updated successfully", task)
}

func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return badRequest(c, "Invalid task ID", err)
	}
	if err := h.authz.CanModifyTask(c.UserContext(), middleware.Identity(c), id); err != nil {
		return fail(c, err)
	}
	if err := h.tasks.Delete(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return respond(c, fiber.StatusOK, "Task deleted successfully", nil)
}
