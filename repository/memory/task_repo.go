package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fastygo/taskdesk/domain"
	"github.com/fastygo/taskdesk/repository"
)

// storedTask remembers insertion order so equal timestamps still sort stably.
type storedTask struct {
	domain.Task
	seq uint64
}

type taskRepository struct {
	mu    sync.RWMutex
	tasks map[string]storedTask
	seq   uint64
	now   func() time.Time
}

// NewTaskRepository keeps tasks in process memory with the same ordering
// and patch semantics as the Postgres implementation.
func NewTaskRepository() repository.TaskRepository {
	return &taskRepository{
		tasks: make(map[string]storedTask),
		now:   time.Now,
	}
}

func (r *taskRepository) GetByID(_ context.Context, id string) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	task := stored.Task
	return &task, nil
}

func (r *taskRepository) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	r.mu.RLock()
	matched := make([]storedTask, 0, len(r.tasks))
	for _, stored := range r.tasks {
		if filter.Status != "" && stored.Status != filter.Status {
			continue
		}
		if filter.Source != "" && stored.Source != filter.Source {
			continue
		}
		matched = append(matched, stored)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return lessTask(matched[i], matched[j])
	})
	tasks := make([]domain.Task, len(matched))
	for i, stored := range matched {
		tasks[i] = stored.Task
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(tasks) {
			return []domain.Task{}, nil
		}
		tasks = tasks[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(tasks) {
		tasks = tasks[:filter.Limit]
	}
	return tasks, nil
}

func (r *taskRepository) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *task
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	now := r.now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.seq++
	r.tasks[stored.ID] = storedTask{Task: stored, seq: r.seq}

	out := stored
	return &out, nil
}

func (r *taskRepository) Update(_ context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	coalesce(patch).Apply(&stored.Task)
	stored.UpdatedAt = r.now()
	r.tasks[id] = stored

	out := stored.Task
	return &out, nil
}

func (r *taskRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

// coalesce drops empty strings from a patch, mirroring COALESCE over NULLIF.
func coalesce(p domain.TaskPatch) domain.TaskPatch {
	if p.Title != nil && *p.Title == "" {
		p.Title = nil
	}
	if p.Description != nil && *p.Description == "" {
		p.Description = nil
	}
	if p.Status != nil && *p.Status == "" {
		p.Status = nil
	}
	if p.Priority != nil && *p.Priority == "" {
		p.Priority = nil
	}
	return p
}

// lessTask orders by due date ascending with undated tasks last, then by
// creation time descending. Ties fall back to the newest insert first.
func lessTask(a, b storedTask) bool {
	switch {
	case a.DueAt != nil && b.DueAt == nil:
		return true
	case a.DueAt == nil && b.DueAt != nil:
		return false
	case a.DueAt != nil && b.DueAt != nil && !a.DueAt.Equal(*b.DueAt):
		return a.DueAt.Before(*b.DueAt)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.seq > b.seq
}
