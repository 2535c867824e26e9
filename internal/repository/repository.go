package repository

import (
	"context"
	"database/sql"
	"errors"

	"task-manager/internal/models"

	"github.com/lib/pq"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	// ErrInUse is returned when the database refuses a delete because the
	// row is still referenced by another table.
	ErrInUse = errors.New("record is referenced")
)

type UserRepository interface {
	FindAll(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id int64) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
}

type TaskStatusRepository interface {
	FindAll(ctx context.Context) ([]models.TaskStatus, error)
	FindByID(ctx context.Context, id int64) (models.TaskStatus, error)
	Create(ctx context.Context, status *models.TaskStatus) error
	Update(ctx context.Context, status *models.TaskStatus) error
	Delete(ctx context.Context, id int64) error
}

type LabelRepository interface {
	FindAll(ctx context.Context) ([]models.Label, error)
	FindByID(ctx context.Context, id int64) (models.Label, error)
	// FindAllByID returns the labels that exist among ids; unknown ids are
	// skipped.
	FindAllByID(ctx context.Context, ids []int64) ([]models.Label, error)
	Create(ctx context.Context, label *models.Label) error
	Update(ctx context.Context, label *models.Label) error
	Delete(ctx context.Context, id int64) error
}

type TaskRepository interface {
	FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	FindByID(ctx context.Context, id int64) (models.Task, error)
	ExistsByStatusID(ctx context.Context, statusID int64) (bool, error)
	ExistsByLabelID(ctx context.Context, labelID int64) (bool, error)
	// ExistsByUserID reports whether the user is author or executor of any task.
	ExistsByUserID(ctx context.Context, userID int64) (bool, error)
	Create(ctx context.Context, task *models.Task) error
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id int64) error
}

// Store groups the repositories. WithinTx runs fn against repositories that
// share one transaction; an error returned by fn rolls everything back.
type Store interface {
	Users() UserRepository
	TaskStatuses() TaskStatusRepository
	Labels() LabelRepository
	Tasks() TaskRepository
	WithinTx(ctx context.Context, fn func(Store) error) error
}

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func translate(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return ErrDuplicate
		case "23503": // foreign_key_violation
			return ErrInUse
		}
	}
	return err
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
