package service

import (
	"context"
	"strings"

	"task-manager/internal/cache"
	"task-manager/internal/models"
	"task-manager/internal/repository"
	"task-manager/pkg/logger"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type TaskService struct {
	store    repository.Store
	cache    cache.Cache
	validate *validator.Validate
	events   Publisher
}

func NewTaskService(store repository.Store, c cache.Cache, validate *validator.Validate, events Publisher) *TaskService {
	if events == nil {
		events = noopPublisher{}
	}
	return &TaskService{store: store, cache: c, validate: validate, events: events}
}

func (s *TaskService) List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	return s.store.Tasks().FindAll(ctx, filter)
}

func (s *TaskService) Get(ctx context.Context, id int64) (models.Task, error) {
	var task models.Task
	if cacheGet(ctx, s.cache, cache.TaskKey(id), &task) {
		return task, nil
	}
	task, err := s.store.Tasks().FindByID(ctx, id)
	if err != nil {
		return models.Task{}, fromRepository(err, "Task")
	}
	cacheSet(ctx, s.cache, cache.TaskKey(id), task)
	return task, nil
}

// resolve loads status, executor and labels referenced by dto into task.
// Unknown label ids are dropped; an unknown status or executor aborts.
func resolve(ctx context.Context, tx repository.Store, dto TaskDto, task *models.Task) error {
	status, err := tx.TaskStatuses().FindByID(ctx, *dto.TaskStatusID)
	if err != nil {
		return fromRepository(err, "Task status")
	}

	var executor *models.User
	if dto.ExecutorID != nil {
		u, err := tx.Users().FindByID(ctx, *dto.ExecutorID)
		if err != nil {
			return fromRepository(err, "Executor")
		}
		executor = &u
	}

	labels, err := tx.Labels().FindAllByID(ctx, dto.LabelIDs)
	if err != nil {
		return err
	}

	task.Name = dto.Name
	task.Description = dto.Description
	task.TaskStatus = status
	task.Executor = executor
	task.Labels = labels
	return nil
}

// Create makes the authenticated user the author of the new task.
func (s *TaskService) Create(ctx context.Context, dto TaskDto) (models.Task, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if err := validateStruct(s.validate, dto); err != nil {
		return models.Task{}, err
	}

	var task models.Task
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		author, err := currentUser(ctx, tx)
		if err != nil {
			return err
		}
		task.Author = author
		if err := resolve(ctx, tx, dto, &task); err != nil {
			return err
		}
		if err := tx.Tasks().Create(ctx, &task); err != nil {
			return fromRepository(err, "Task")
		}
		task, err = tx.Tasks().FindByID(ctx, task.ID)
		return fromRepository(err, "Task")
	})
	if err != nil {
		return models.Task{}, err
	}

	s.events.Publish(EventTaskCreated, task)
	logger.AuditLogger.Info("Task created successfully", zap.Int64("task_id", task.ID))
	return task, nil
}

// Update replaces name, description, status, executor and labels. The
// author is kept as it was at creation.
func (s *TaskService) Update(ctx context.Context, id int64, dto TaskDto) (models.Task, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if err := validateStruct(s.validate, dto); err != nil {
		return models.Task{}, err
	}

	var task models.Task
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		existing, err := tx.Tasks().FindByID(ctx, id)
		if err != nil {
			return fromRepository(err, "Task")
		}
		if err := resolve(ctx, tx, dto, &existing); err != nil {
			return err
		}
		if err := tx.Tasks().Update(ctx, &existing); err != nil {
			return fromRepository(err, "Task")
		}
		task, err = tx.Tasks().FindByID(ctx, id)
		return fromRepository(err, "Task")
	})
	if err != nil {
		return models.Task{}, err
	}

	cacheDelete(ctx, s.cache, cache.TaskKey(id))
	s.events.Publish(EventTaskUpdated, task)
	logger.AuditLogger.Info("Task updated", zap.Int64("task_id", id))
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	var task models.Task
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		task, err = tx.Tasks().FindByID(ctx, id)
		if err != nil {
			return fromRepository(err, "Task")
		}
		return fromRepository(tx.Tasks().Delete(ctx, id), "Task")
	})
	if err != nil {
		return err
	}

	cacheDelete(ctx, s.cache, cache.TaskKey(id))
	s.events.Publish(EventTaskDeleted, task)
	logger.AuditLogger.Info("Task deleted", zap.Int64("task_id", id))
	return nil
}
