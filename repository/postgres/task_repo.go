package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskdesk/domain"
	"github.com/fastygo/taskdesk/repository"
)

const taskColumns = `id, title, description, status, priority, due_at, source, created_at, updated_at`

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if !validID(id) {
		return nil, domain.ErrTaskNotFound
	}
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(r.pool.QueryRow(ctx, query, id))
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE ($1 = '' OR status = $1)
	  AND ($2 = '' OR source = $2)
	ORDER BY due_at ASC NULLS LAST, created_at DESC
	LIMIT $3 OFFSET $4
	`
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, query, string(filter.Status), string(filter.Source), clampLimit(filter.Limit), offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, title, description, status, priority, due_at, source)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING ` + taskColumns

	return scanTask(r.pool.QueryRow(ctx, query,
		task.ID,
		task.Title,
		nullString(task.Description),
		string(task.Status),
		string(task.Priority),
		nullTimePtr(task.DueAt),
		string(task.Source),
	))
}

func (r *taskRepository) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if !validID(id) {
		return nil, domain.ErrTaskNotFound
	}

	const query = `
	UPDATE tasks
	SET title = COALESCE($2, title),
		description = COALESCE($3, description),
		status = COALESCE($4, status),
		priority = COALESCE($5, priority),
		due_at = COALESCE($6, due_at),
		updated_at = NOW()
	WHERE id = $1
	RETURNING ` + taskColumns

	return scanTask(r.pool.QueryRow(ctx, query,
		id,
		optString(patch.Title),
		optString(patch.Description),
		optString(patch.Status),
		optString(patch.Priority),
		nullTimePtr(patch.DueAt),
	))
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrTaskNotFound
	}
	const query = `DELETE FROM tasks WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanTask(row scanner) (*domain.Task, error) {
	var task domain.Task
	var (
		description *string
		due         *time.Time
	)

	if err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&task.Status,
		&task.Priority,
		&due,
		&task.Source,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.Description = deref(description)
	task.DueAt = due
	return &task, nil
}
