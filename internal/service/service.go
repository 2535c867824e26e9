// Package service holds the task manager's use cases. Services receive their
// collaborators through constructors and run multi step writes inside a
// single repository transaction.
package service

import (
	"context"
	"time"

	"task-manager/internal/cache"
	"task-manager/pkg/logger"

	"go.uber.org/zap"
)

const (
	EventTaskCreated = "task.created"
	EventTaskUpdated = "task.updated"
	EventTaskDeleted = "task.deleted"
)

// Publisher fans task events out to interested listeners.
type Publisher interface {
	Publish(event string, payload interface{})
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, interface{}) {}

// Cache failures never fail a request; they are only logged.

func cacheGet(ctx context.Context, c cache.Cache, key string, dst interface{}) bool {
	found, err := c.Get(ctx, key, dst)
	if err != nil {
		logger.ErrorLogger.Error("Error reading cache", zap.String("key", key), zap.Error(err))
		return false
	}
	return found
}

func cacheSet(ctx context.Context, c cache.Cache, key string, value interface{}) {
	if err := c.Set(ctx, key, value); err != nil {
		logger.ErrorLogger.Error("Error caching value", zap.String("key", key), zap.Error(err))
	}
}

// evictAgainAfter is when entries dropped after a write are dropped a second
// time. A Get that read the row before the write committed may store it
// after the first delete.
var evictAgainAfter = time.Second

// cacheDelete drops keys now and once more after evictAgainAfter.
func cacheDelete(ctx context.Context, c cache.Cache, keys ...string) {
	deleteKeys(ctx, c, keys)
	time.AfterFunc(evictAgainAfter, func() { deleteKeys(context.Background(), c, keys) })
}

func deleteKeys(ctx context.Context, c cache.Cache, keys []string) {
	if err := c.Delete(ctx, keys...); err != nil {
		logger.ErrorLogger.Error("Error evicting cache", zap.Strings("keys", keys), zap.Error(err))
	}
}

// evictTasks drops every cached task, now and after evictAgainAfter; used
// when a user, status or label that tasks embed has changed.
func evictTasks(ctx context.Context, c cache.Cache) {
	deleteTasks(ctx, c)
	time.AfterFunc(evictAgainAfter, func() { deleteTasks(context.Background(), c) })
}

func deleteTasks(ctx context.Context, c cache.Cache) {
	if err := c.DeletePrefix(ctx, cache.TaskPrefix); err != nil {
		logger.ErrorLogger.Error("Error evicting task cache", zap.Error(err))
	}
}
