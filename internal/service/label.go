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

type LabelService struct {
	store    repository.Store
	cache    cache.Cache
	validate *validator.Validate
}

func NewLabelService(store repository.Store, c cache.Cache, validate *validator.Validate) *LabelService {
	return &LabelService{store: store, cache: c, validate: validate}
}

func (s *LabelService) List(ctx context.Context) ([]models.Label, error) {
	return s.store.Labels().FindAll(ctx)
}

func (s *LabelService) Get(ctx context.Context, id int64) (models.Label, error) {
	label, err := s.store.Labels().FindByID(ctx, id)
	return label, fromRepository(err, "Label")
}

func (s *LabelService) Create(ctx context.Context, dto LabelDto) (models.Label, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if err := validateStruct(s.validate, dto); err != nil {
		return models.Label{}, err
	}
	label := models.Label{Name: dto.Name}
	if err := s.store.Labels().Create(ctx, &label); err != nil {
		return models.Label{}, fromRepository(err, "Label")
	}
	logger.AuditLogger.Info("Label created", zap.Int64("label_id", label.ID))
	return label, nil
}

func (s *LabelService) Update(ctx context.Context, id int64, dto LabelDto) (models.Label, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if err := validateStruct(s.validate, dto); err != nil {
		return models.Label{}, err
	}

	var label models.Label
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		existing, err := tx.Labels().FindByID(ctx, id)
		if err != nil {
			return fromRepository(err, "Label")
		}
		existing.Name = dto.Name
		if err := tx.Labels().Update(ctx, &existing); err != nil {
			return fromRepository(err, "Label")
		}
		label = existing
		return nil
	})
	if err != nil {
		return models.Label{}, err
	}

	evictTasks(ctx, s.cache)
	logger.AuditLogger.Info("Label updated", zap.Int64("label_id", id))
	return label, nil
}

// Delete refuses to remove a label attached to any task.
func (s *LabelService) Delete(ctx context.Context, id int64) error {
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Labels().FindByID(ctx, id); err != nil {
			return fromRepository(err, "Label")
		}
		used, err := tx.Tasks().ExistsByLabelID(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return newError(ErrIntegrity, "Unable to delete the label associated with an existing task")
		}
		return fromRepository(tx.Labels().Delete(ctx, id), "Label")
	})
	if err != nil {
		return err
	}
	logger.AuditLogger.Info("Label deleted", zap.Int64("label_id", id))
	return nil
}
