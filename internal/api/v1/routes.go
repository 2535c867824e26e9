package v1

import (
	"task-manager/internal/api/v1/handlers"
	"task-manager/internal/config"
	"task-manager/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, deps *config.Dependencies) {
	api := app.Group(deps.BaseURL)
	requireToken := middleware.UseToken(deps.Tokens)

	// Auth
	auth := handlers.NewAuthHandler(deps.Auth, deps.Validate)
	api.Post("/login", auth.Login)

	// User
	users := handlers.NewUserHandler(deps.Users, deps.Authorizer)
	userRoutes := api.Group("/users")
	userRoutes.Get("/", users.List)
	userRoutes.Get("/:id", users.Get)
	userRoutes.Post("/", users.Create)
	userRoutes.Put("/:id", requireToken, users.Update)
	userRoutes.Delete("/:id", requireToken, users.Delete)

	// Task status
	statuses := handlers.NewTaskStatusHandler(deps.Statuses)
	statusRoutes := api.Group("/statuses", requireToken)
	statusRoutes.Get("/", statuses.List)
	statusRoutes.Get("/:id", statuses.Get)
	statusRoutes.Post("/", statuses.Create)
	statusRoutes.Put("/:id", statuses.Update)
	statusRoutes.Delete("/:id", statuses.Delete)

	// Label
	labels := handlers.NewLabelHandler(deps.Labels)
	labelRoutes := api.Group("/labels", requireToken)
	labelRoutes.Get("/", labels.List)
	labelRoutes.Get("/:id", labels.Get)
	labelRoutes.Post("/", labels.Create)
	labelRoutes.Put("/:id", labels.Update)
	labelRoutes.Delete("/:id", labels.Delete)

	// Task
	tasks := handlers.NewTaskHandler(deps.Tasks, deps.Authorizer)
	taskRoutes := api.Group("/tasks", requireToken)
	taskRoutes.Get("/", tasks.List)
	taskRoutes.Get("/:id", tasks.Get)
	taskRoutes.Post("/", tasks.Create)
	taskRoutes.Put("/:id", tasks.Update)
	taskRoutes.Delete("/:id", tasks.Delete)

	// WebSocket
	if deps.Hub != nil {
		api.Get("/ws", handlers.RequireUpgrade, middleware.UseQueryToken(deps.Tokens), handlers.TaskEvents(deps.Hub))
	}
}
