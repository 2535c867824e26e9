package handlers

import (
	"task-manager/internal/middleware"
	"task-manager/internal/models"
	ws "task-manager/internal/websocket"
	"task-manager/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

const localTaskFilter = "taskFilter"

// RequireUpgrade rejects plain HTTP requests on the websocket route and
// reads the same filters as the task listing.
func RequireUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	filter, err := parseTaskFilter(c)
	if err != nil {
		return badRequest(c, "Invalid filter", err)
	}
	c.Locals(localTaskFilter, filter)
	return c.Next()
}

// taskAcceptor limits a client to events on tasks matching filter.
// Payloads that are not tasks always pass.
func taskAcceptor(filter models.TaskFilter) func(interface{}) bool {
	if filter.IsEmpty() {
		return nil
	}
	return func(payload interface{}) bool {
		task, ok := payload.(models.Task)
		return !ok || filter.Matches(task)
	}
}

// TaskEvents streams task events to the client until it disconnects.
// Incoming messages are read only to detect the close.
func TaskEvents(hub *ws.Hub) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		filter, _ := c.Locals(localTaskFilter).(models.TaskFilter)
		client := &ws.Client{Conn: c, Accept: taskAcceptor(filter)}
		hub.Register(client)
		defer hub.Unregister(client)

		email, _ := c.Locals(middleware.LocalEmail).(string)
		logger.AuditLogger.Info("Websocket client connected", zap.String("email", email))
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				logger.ContextLogger.Debug("Websocket client disconnected", zap.String("email", email), zap.Error(err))
				return
			}
		}
	})
}
