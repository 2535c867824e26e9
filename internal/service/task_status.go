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

type TaskStatusService struct {
	store    repository.Store
	cache    cache.Cache
	validate *validator.Validate
}

func NewTaskStatusService(store repository.Store, c cache.Cache, validate *validator.Validate) *TaskStatusService {
	return &TaskStatusService{store: store, cache: c, validate: validate}
}

func (s *TaskStatusService) List(ctx context.Context) ([]models.TaskStatus, error) {
	return s.store.TaskStatuses().FindAll(ctx)
}

func (s *TaskStatusService) Get(ctx context.Context, id int64) (models.TaskStatus, error) {
	status, err := s.store.TaskStatuses().FindByID(ctx, id)
	return status, fromRepository(err, "Task status")
}

func (s *TaskStatusService) Create(ctx context.Context, dto TaskStatusDto) (models.TaskStatus, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if err := validateStruct(s.validate, dto); err != nil {
		return models.TaskStatus{}, err
	}
	status := models.TaskStatus{Name: dto.Name}
	if err := s.store.TaskStatuses().Create(ctx, &status); err != nil {
		return models.TaskStatus{}, fromRepository(err, "Task status")
	}
	logger.AuditLogger.Info("Task status created", zap.Int64("status_id", status.ID))
	return status, nil
}

func (s *TaskStatusService) Update(ctx context.Context, id int64, dto TaskStatusDto) (models.TaskStatus, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if err := validateStruct(s.validate, dto); err != nil {
		return models.TaskStatus{}, err
	}

	var status models.TaskStatus
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		existing, err := tx.TaskStatuses().FindByID(ctx, id)
		if err != nil {
			return fromRepository(err, "Task status")
		}
		existing.Name = dto.Name
		if err := tx.TaskStatuses().Update(ctx, &existing); err != nil {
			return fromRepository(err, "Task status")
		}
		status = existing
		return nil
	})
	if err != nil {
		return models.TaskStatus{}, err
	}

	evictTasks(ctx, s.cache)
	logger.AuditLogger.Info("Task status updated", zap.Int64("status_id", id))
	return status, nil
}

// Delete refuses to remove a status that any task still references.
func (s *TaskStatusService) Delete(ctx context.Context, id int64) error {
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := tx.TaskStatuses().FindByID(ctx, id); err != nil {
			return fromRepository(err, "Task status")
		}
		used, err := tx.Tasks().ExistsByStatusID(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return newError(ErrIntegrity, "Unable to delete the status associated with an existing task")
		}
		return fromRepository(tx.TaskStatuses().Delete(ctx, id), "Task status")
	})
	if err != nil {
		return err
	}
	logger.AuditLogger.Info("Task status deleted", zap.Int64("status_id", id))
	return nil
}
