package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"task-manager/internal/models"

	"github.com/lib/pq"
)

type pgTaskRepository struct {
	db DBTX
}

const taskSelect = `
SELECT t.id, t.name, t.description, t.created_at,
       s.id, s.name, s.created_at,
       a.id, a.email, a.first_name, a.last_name, a.password, a.created_at,
       e.id, e.email, e.first_name, e.last_name, e.password, e.created_at
FROM tasks t
JOIN task_statuses s ON s.id = t.task_status_id
JOIN users a ON a.id = t.author_id
LEFT JOIN users e ON e.id = t.executor_id`

func scanTask(row rowScanner) (models.Task, error) {
	var (
		t                                      models.Task
		execID                                 sql.NullInt64
		execMail, execFirst, execLast, execPass sql.NullString
		execCreated                            sql.NullTime
	)
	err := row.Scan(
		&t.ID, &t.Name, &t.Description, &t.CreatedAt,
		&t.TaskStatus.ID, &t.TaskStatus.Name, &t.TaskStatus.CreatedAt,
		&t.Author.ID, &t.Author.Email, &t.Author.FirstName, &t.Author.LastName, &t.Author.Password, &t.Author.CreatedAt,
		&execID, &execMail, &execFirst, &execLast, &execPass, &execCreated,
	)
	if err != nil {
		return models.Task{}, err
	}
	if execID.Valid {
		t.Executor = &models.User{
			ID:        execID.Int64,
			Email:     execMail.String,
			FirstName: execFirst.String,
			LastName:  execLast.String,
			Password:  execPass.String,
			CreatedAt: execCreated.Time,
		}
	}
	t.Labels = []models.Label{}
	return t, nil
}

// whereClause turns the filter into SQL conditions with positional args.
func whereClause(f models.TaskFilter) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	add := func(cond string, v int64) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.AuthorID != nil {
		add("t.author_id = $%d", *f.AuthorID)
	}
	if f.ExecutorID != nil {
		add("t.executor_id = $%d", *f.ExecutorID)
	}
	if f.StatusID != nil {
		add("t.task_status_id = $%d", *f.StatusID)
	}
	if f.LabelID != nil {
		add("EXISTS (SELECT 1 FROM task_labels tl WHERE tl.task_id = t.id AND tl.label_id = $%d)", *f.LabelID)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *pgTaskRepository) FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	where, args := whereClause(filter)
	rows, err := r.db.QueryContext(ctx, taskSelect+where+" ORDER BY t.id", args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// rows must be closed before the next query when running inside a transaction
	rows.Close()

	if err := r.attachLabels(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *pgTaskRepository) FindByID(ctx context.Context, id int64) (models.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, taskSelect+" WHERE t.id = $1", id))
	if err != nil {
		return models.Task{}, fmt.Errorf("find task %d: %w", id, translate(err))
	}
	tasks := []models.Task{t}
	if err := r.attachLabels(ctx, tasks); err != nil {
		return models.Task{}, err
	}
	return tasks[0], nil
}

func (r *pgTaskRepository) attachLabels(ctx context.Context, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	index := make(map[int64]int, len(tasks))
	ids := make([]int64, 0, len(tasks))
	for i, t := range tasks {
		index[t.ID] = i
		ids = append(ids, t.ID)
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT tl.task_id, l.id, l.name, l.created_at
FROM task_labels tl
JOIN labels l ON l.id = tl.label_id
WHERE tl.task_id = ANY($1)
ORDER BY l.id`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("query task labels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			taskID int64
			l      models.Label
		)
		if err := rows.Scan(&taskID, &l.ID, &l.Name, &l.CreatedAt); err != nil {
			return fmt.Errorf("scan task label: %w", err)
		}
		if i, ok := index[taskID]; ok {
			tasks[i].Labels = append(tasks[i].Labels, l)
		}
	}
	return rows.Err()
}

func (r *pgTaskRepository) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var found bool
	if err := r.db.QueryRowContext(ctx, "SELECT EXISTS ("+query+")", args...).Scan(&found); err != nil {
		return false, fmt.Errorf("check task references: %w", err)
	}
	return found, nil
}

func (r *pgTaskRepository) ExistsByStatusID(ctx context.Context, statusID int64) (bool, error) {
	return r.exists(ctx, "SELECT 1 FROM tasks WHERE task_status_id = $1", statusID)
}

func (r *pgTaskRepository) ExistsByLabelID(ctx context.Context, labelID int64) (bool, error) {
	return r.exists(ctx, "SELECT 1 FROM task_labels WHERE label_id = $1", labelID)
}

func (r *pgTaskRepository) ExistsByUserID(ctx context.Context, userID int64) (bool, error) {
	return r.exists(ctx, "SELECT 1 FROM tasks WHERE author_id = $1 OR executor_id = $1", userID)
}

func executorID(t *models.Task) interface{} {
	if t.Executor == nil {
		return nil
	}
	return t.Executor.ID
}

func (r *pgTaskRepository) Create(ctx context.Context, task *models.Task) error {
	err := r.db.QueryRowContext(ctx, `
INSERT INTO tasks (name, description, task_status_id, author_id, executor_id)
VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		task.Name, task.Description, task.TaskStatus.ID, task.Author.ID, executorID(task),
	).Scan(&task.ID, &task.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert task: %w", translate(err))
	}
	return r.insertLabels(ctx, task)
}

func (r *pgTaskRepository) Update(ctx context.Context, task *models.Task) error {
	err := r.db.QueryRowContext(ctx, `
UPDATE tasks SET name = $1, description = $2, task_status_id = $3, executor_id = $4
WHERE id = $5 RETURNING created_at`,
		task.Name, task.Description, task.TaskStatus.ID, executorID(task), task.ID,
	).Scan(&task.CreatedAt)
	if err != nil {
		return fmt.Errorf("update task %d: %w", task.ID, translate(err))
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM task_labels WHERE task_id = $1", task.ID); err != nil {
		return fmt.Errorf("clear task labels: %w", err)
	}
	return r.insertLabels(ctx, task)
}

func (r *pgTaskRepository) insertLabels(ctx context.Context, task *models.Task) error {
	ids := task.LabelIDs()
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO task_labels (task_id, label_id) SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING",
		task.ID, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("insert task labels: %w", translate(err))
	}
	return nil
}

func (r *pgTaskRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, translate(err))
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}
