package repository

import (
	"context"
	"fmt"

	"task-manager/internal/models"
)

type pgTaskStatusRepository struct {
	db DBTX
}

func (r *pgTaskStatusRepository) FindAll(ctx context.Context) ([]models.TaskStatus, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, created_at FROM task_statuses ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query task statuses: %w", err)
	}
	defer rows.Close()

	statuses := []models.TaskStatus{}
	for rows.Next() {
		var s models.TaskStatus
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task status: %w", err)
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}

func (r *pgTaskStatusRepository) FindByID(ctx context.Context, id int64) (models.TaskStatus, error) {
	var s models.TaskStatus
	err := r.db.QueryRowContext(ctx, "SELECT id, name, created_at FROM task_statuses WHERE id = $1", id).
		Scan(&s.ID, &s.Name, &s.CreatedAt)
	if err != nil {
		return models.TaskStatus{}, fmt.Errorf("find task status %d: %w", id, translate(err))
	}
	return s, nil
}

func (r *pgTaskStatusRepository) Create(ctx context.Context, status *models.TaskStatus) error {
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO task_statuses (name) VALUES ($1) RETURNING id, created_at", status.Name,
	).Scan(&status.ID, &status.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert task status: %w", translate(err))
	}
	return nil
}

func (r *pgTaskStatusRepository) Update(ctx context.Context, status *models.TaskStatus) error {
	err := r.db.QueryRowContext(ctx,
		"UPDATE task_statuses SET name = $1 WHERE id = $2 RETURNING created_at", status.Name, status.ID,
	).Scan(&status.CreatedAt)
	if err != nil {
		return fmt.Errorf("update task status %d: %w", status.ID, translate(err))
	}
	return nil
}

func (r *pgTaskStatusRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM task_statuses WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete task status %d: %w", id, translate(err))
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("delete task status %d: %w", id, err)
	}
	return nil
}
