package repository

import (
	"context"
	"fmt"

	"task-manager/internal/models"

	"github.com/lib/pq"
)

type pgLabelRepository struct {
	db DBTX
}

func (r *pgLabelRepository) queryLabels(ctx context.Context, query string, args ...interface{}) ([]models.Label, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query labels: %w", err)
	}
	defer rows.Close()

	labels := []models.Label{}
	for rows.Next() {
		var l models.Label
		if err := rows.Scan(&l.ID, &l.Name, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan label: %w", err)
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

func (r *pgLabelRepository) FindAll(ctx context.Context) ([]models.Label, error) {
	return r.queryLabels(ctx, "SELECT id, name, created_at FROM labels ORDER BY id")
}

func (r *pgLabelRepository) FindAllByID(ctx context.Context, ids []int64) ([]models.Label, error) {
	if len(ids) == 0 {
		return []models.Label{}, nil
	}
	return r.queryLabels(ctx,
		"SELECT id, name, created_at FROM labels WHERE id = ANY($1) ORDER BY id", pq.Array(ids))
}

func (r *pgLabelRepository) FindByID(ctx context.Context, id int64) (models.Label, error) {
	var l models.Label
	err := r.db.QueryRowContext(ctx, "SELECT id, name, created_at FROM labels WHERE id = $1", id).
		Scan(&l.ID, &l.Name, &l.CreatedAt)
	if err != nil {
		return models.Label{}, fmt.Errorf("find label %d: %w", id, translate(err))
	}
	return l, nil
}

func (r *pgLabelRepository) Create(ctx context.Context, label *models.Label) error {
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO labels (name) VALUES ($1) RETURNING id, created_at", label.Name,
	).Scan(&label.ID, &label.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert label: %w", translate(err))
	}
	return nil
}

func (r *pgLabelRepository) Update(ctx context.Context, label *models.Label) error {
	err := r.db.QueryRowContext(ctx,
		"UPDATE labels SET name = $1 WHERE id = $2 RETURNING created_at", label.Name, label.ID,
	).Scan(&label.CreatedAt)
	if err != nil {
		return fmt.Errorf("update label %d: %w", label.ID, translate(err))
	}
	return nil
}

func (r *pgLabelRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM labels WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete label %d: %w", id, translate(err))
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("delete label %d: %w", id, err)
	}
	return nil
}
