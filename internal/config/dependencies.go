package config

import (
	"task-manager/internal/cache"
	"task-manager/internal/repository"
	"task-manager/internal/service"
	"task-manager/internal/websocket"

	"github.com/go-playground/validator/v10"
)

// Dependencies is built once in main and handed to the routes; nothing in
// the application reaches for package level state.
type Dependencies struct {
	BaseURL  string
	Store    repository.Store
	Cache    cache.Cache
	Validate *validator.Validate
	Tokens   *service.TokenService
	Hub      *websocket.Hub

	Auth       *service.AuthService
	Authorizer *service.Authorizer
	Users      *service.UserService
	Statuses   *service.TaskStatusService
	Labels     *service.LabelService
	Tasks      *service.TaskService
}

// NewDependencies wires the services around store and c. hub may be nil,
// in which case task events are not broadcast.
func NewDependencies(baseURL string, store repository.Store, c cache.Cache, tokens *service.TokenService, hub *websocket.Hub) *Dependencies {
	if c == nil {
		c = cache.Noop{}
	}
	validate := validator.New()

	var events service.Publisher
	if hub != nil {
		events = hub
	}

	return &Dependencies{
		BaseURL:    baseURL,
		Store:      store,
		Cache:      c,
		Validate:   validate,
		Tokens:     tokens,
		Hub:        hub,
		Auth:       service.NewAuthService(store, tokens),
		Authorizer: service.NewAuthorizer(store),
		Users:      service.NewUserService(store, c, validate),
		Statuses:   service.NewTaskStatusService(store, c, validate),
		Labels:     service.NewLabelService(store, c, validate),
		Tasks:      service.NewTaskService(store, c, validate, events),
	}
}
