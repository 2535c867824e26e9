package service

import (
	"context"
	"errors"

	"task-manager/internal/cache"
	"task-manager/internal/models"
	"task-manager/internal/repository"
	"task-manager/pkg/logger"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type UserService struct {
	store    repository.Store
	cache    cache.Cache
	validate *validator.Validate
}

func NewUserService(store repository.Store, c cache.Cache, validate *validator.Validate) *UserService {
	return &UserService{store: store, cache: c, validate: validate}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.store.Users().FindAll(ctx)
}

func (s *UserService) Get(ctx context.Context, id int64) (models.User, error) {
	var user models.User
	if cacheGet(ctx, s.cache, cache.UserKey(id), &user) {
		return user, nil
	}
	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return models.User{}, fromRepository(err, "User")
	}
	cacheSet(ctx, s.cache, cache.UserKey(id), user)
	return user, nil
}

func (s *UserService) Create(ctx context.Context, dto UserDto) (models.User, error) {
	dto.normalize()
	if err := validateStruct(s.validate, dto); err != nil {
		return models.User{}, err
	}

	hashed, err := hashPassword(dto.Password)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{
		Email:     dto.Email,
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Password:  hashed,
	}

	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		_, err := tx.Users().FindByEmail(ctx, dto.Email)
		if err == nil {
			return newError(ErrDuplicate, "User with such email already exist")
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if err := tx.Users().Create(ctx, &user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return newError(ErrDuplicate, "User with such email already exist")
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			logger.SecurityLogger.Warn("Duplicate email", zap.String("email", dto.Email))
		}
		return models.User{}, err
	}

	logger.AuditLogger.Info("User registered successfully", zap.Int64("user_id", user.ID))
	return user, nil
}

// Update replaces email, names and password; the password is re-hashed.
func (s *UserService) Update(ctx context.Context, id int64, dto UserDto) (models.User, error) {
	dto.normalize()
	if err := validateStruct(s.validate, dto); err != nil {
		return models.User{}, err
	}
	hashed, err := hashPassword(dto.Password)
	if err != nil {
		return models.User{}, err
	}

	var user models.User
	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		existing, err := tx.Users().FindByID(ctx, id)
		if err != nil {
			return fromRepository(err, "User")
		}
		other, err := tx.Users().FindByEmail(ctx, dto.Email)
		if err == nil && other.ID != id {
			return newError(ErrDuplicate, "User with such email already exist")
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		existing.Email = dto.Email
		existing.FirstName = dto.FirstName
		existing.LastName = dto.LastName
		existing.Password = hashed
		if err := tx.Users().Update(ctx, &existing); err != nil {
			return fromRepository(err, "User")
		}
		user = existing
		return nil
	})
	if err != nil {
		return models.User{}, err
	}

	cacheDelete(ctx, s.cache, cache.UserKey(id))
	evictTasks(ctx, s.cache)
	logger.AuditLogger.Info("User updated successfully", zap.Int64("user_id", id))
	return user, nil
}

// Delete refuses to remove a user who is author or executor of any task.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Users().FindByID(ctx, id); err != nil {
			return fromRepository(err, "User")
		}
		used, err := tx.Tasks().ExistsByUserID(ctx, id)
		if err != nil {
			return err
		}
		if used {
			return newError(ErrIntegrity, "Can't delete user with existing tasks")
		}
		return fromRepository(tx.Users().Delete(ctx, id), "User")
	})
	if err != nil {
		return err
	}

	cacheDelete(ctx, s.cache, cache.UserKey(id))
	logger.AuditLogger.Info("User deleted successfully", zap.Int64("user_id", id))
	return nil
}

// CurrentUser resolves the identity carried by ctx to a stored user.
func (s *UserService) CurrentUser(ctx context.Context) (models.User, error) {
	return currentUser(ctx, s.store)
}

func currentUser(ctx context.Context, store repository.Store) (models.User, error) {
	email, ok := IdentityFrom(ctx)
	if !ok {
		return models.User{}, ErrNoIdentity
	}
	user, err := store.Users().FindByEmail(ctx, email)
	if err != nil {
		return models.User{}, fromRepository(err, "Current user")
	}
	return user, nil
}
