package repository

import (
	"context"

	"github.com/fastygo/taskdesk/domain"
)

// TaskFilter narrows a listing. Zero values match everything.
type TaskFilter struct {
	Status domain.TaskStatus
	Source domain.TaskSource
	Limit  int
	Offset int
}

// TaskRepository lists tasks by due date ascending (nulls last), then
// creation time descending.
type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}
