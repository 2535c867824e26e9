package service

import (
	"context"

	"task-manager/internal/repository"
	"task-manager/pkg/logger"

	"go.uber.org/zap"
)

// Authorizer decides whether the authenticated identity owns a resource.
// A task is owned by its author; a user record is owned by itself.
type Authorizer struct {
	store repository.Store
}

func NewAuthorizer(store repository.Store) *Authorizer {
	return &Authorizer{store: store}
}

func (a *Authorizer) CanModifyTask(ctx context.Context, identity string, taskID int64) error {
	if identity == "" {
		return ErrNoIdentity
	}
	task, err := a.store.Tasks().FindByID(ctx, taskID)
	if err != nil {
		return fromRepository(err, "Task")
	}
	return a.compare(identity, task.Author.Email, "task", taskID)
}

func (a *Authorizer) CanModifyUser(ctx context.Context, identity string, userID int64) error {
	if identity == "" {
		return ErrNoIdentity
	}
	user, err := a.store.Users().FindByID(ctx, userID)
	if err != nil {
		return fromRepository(err, "User")
	}
	return a.compare(identity, user.Email, "user", userID)
}

func (a *Authorizer) compare(identity, owner, resource string, id int64) error {
	if identity != owner {
		logger.SecurityLogger.Warn("Forbidden",
			zap.String("identity", identity),
			zap.String("resource", resource),
			zap.Int64("id", id))
		return newError(ErrForbidden, "You don't have permission to modify this %s", resource)
	}
	return nil
}
