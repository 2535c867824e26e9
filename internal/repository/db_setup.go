package repository

import (
	"context"
	"database/sql"
	"fmt"

	"task-manager/internal/models"
	"task-manager/pkg/logger"

	"go.uber.org/zap"
)

// CreateTableIfNotExists creates the schema. Foreign keys without cascade
// back up the delete guards done in the service layer.
func CreateTableIfNotExists(db *sql.DB) error {
	query := `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    email VARCHAR(255) NOT NULL UNIQUE,
    first_name VARCHAR(255) NOT NULL,
    last_name VARCHAR(255) NOT NULL,
    password VARCHAR(255) NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS task_statuses (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS labels (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tasks (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    task_status_id BIGINT NOT NULL REFERENCES task_statuses (id),
    author_id BIGINT NOT NULL REFERENCES users (id),
    executor_id BIGINT REFERENCES users (id),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS task_labels (
    task_id BIGINT NOT NULL REFERENCES tasks (id) ON DELETE CASCADE,
    label_id BIGINT NOT NULL REFERENCES labels (id),
    PRIMARY KEY (task_id, label_id)
);
`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	logger.SystemLogger.Info("Tables 'users', 'task_statuses', 'labels', 'tasks', 'task_labels' are ready")
	return nil
}

// SeedDefaultStatuses inserts the default statuses when none exist yet.
func SeedDefaultStatuses(ctx context.Context, store Store) error {
	return store.WithinTx(ctx, func(s Store) error {
		existing, err := s.TaskStatuses().FindAll(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return nil
		}
		for _, name := range []string{"new", "in progress", "testing", "finished"} {
			status := models.TaskStatus{Name: name}
			if err := s.TaskStatuses().Create(ctx, &status); err != nil {
				return err
			}
			logger.SystemLogger.Info("Default task status created", zap.String("name", name))
		}
		return nil
	})
}

func DeleteAllTable(db *sql.DB) error {
	query := `
    DROP TABLE IF EXISTS task_labels;
    DROP TABLE IF EXISTS tasks;
    DROP TABLE IF EXISTS labels;
    DROP TABLE IF EXISTS task_statuses;
    DROP TABLE IF EXISTS users;
    `
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	logger.SystemLogger.Info("All tables are deleted")
	return nil
}

// TruncateAllTables removes every row and restarts the id sequences.
func TruncateAllTables(db *sql.DB) error {
	if _, err := db.Exec("TRUNCATE task_labels, tasks, labels, task_statuses, users RESTART IDENTITY CASCADE"); err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}
	return nil
}
