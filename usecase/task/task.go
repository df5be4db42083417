package task

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/taskdesk/domain"
	"github.com/fastygo/taskdesk/pkg/extractor"
	"github.com/fastygo/taskdesk/pkg/logger"
	"github.com/fastygo/taskdesk/repository"
	"github.com/fastygo/taskdesk/usecase"
)

type UseCase struct {
	tasks  repository.TaskRepository
	buffer usecase.OperationBuffer
	logger *zap.Logger
	now    func() time.Time
}

// New wires the task use case. buffer may be nil, in which case storage
// errors are returned to the caller unchanged.
func New(tasks repository.TaskRepository, buffer usecase.OperationBuffer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		buffer: buffer,
		logger: logger,
		now:    time.Now,
	}
}

func (uc *UseCase) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	tasks, err := uc.tasks.List(ctx, filter)
	if err != nil {
		return nil, usecase.Internal("failed to list tasks", err)
	}
	return tasks, nil
}

func (uc *UseCase) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, usecase.Internal("failed to load task", err)
	}
	return task, nil
}

func (uc *UseCase) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	task.ApplyDefaults()
	if err := task.Validate(); err != nil {
		return nil, err
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationCreate, task) {
			return task, nil
		}
		return nil, usecase.Internal("failed to create task", err)
	}
	return created, nil
}

// UpdateTask merges patch into the stored record. Empty fields in patch are
// ignored, so a field can be changed but never cleared.
func (uc *UseCase) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	updated, err := uc.tasks.Update(ctx, id, patch)
	if err != nil {
		return nil, usecase.Internal("failed to update task", err)
	}
	return updated, nil
}

func (uc *UseCase) DeleteTask(ctx context.Context, id string) error {
	if err := uc.tasks.Delete(ctx, id); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return err
		}
		if uc.shouldBuffer(ctx, usecase.OperationDelete, &domain.Task{ID: id}) {
			return nil
		}
		return usecase.Internal("failed to delete task", err)
	}
	return nil
}

// ExtractTasks splits text into candidates and stores them one by one. It
// stops at the first storage error; tasks stored before it stay committed
// and are returned alongside the error.
func (uc *UseCase) ExtractTasks(ctx context.Context, text string) ([]domain.Task, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrTextRequired
	}

	candidates := extractor.Extract(text)
	created := make([]domain.Task, 0, len(candidates))
	for i, candidate := range candidates {
		saved, err := uc.tasks.Create(ctx, candidate.Task())
		if err != nil {
			logger.WithRequestID(ctx, uc.logger).Error("extracted task not stored",
				zap.Int("index", i),
				zap.Int("stored", len(created)),
				zap.Int("candidates", len(candidates)),
				zap.Error(err))
			return created, usecase.Internal("failed to store extracted task", err)
		}
		created = append(created, *saved)
	}

	logger.WithRequestID(ctx, uc.logger).Info("tasks extracted", zap.Int("count", len(created)))
	return created, nil
}

func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, task *domain.Task) bool {
	if uc.buffer == nil {
		return false
	}
	if operation == usecase.OperationCreate {
		if task.ID == "" {
			task.ID = uuid.NewString()
		}
		now := uc.now()
		task.CreatedAt = now
		task.UpdatedAt = now
	}
	log := logger.WithRequestID(ctx, uc.logger)
	if err := uc.buffer.BufferTask(ctx, usecase.TaskWrite{Operation: operation, Task: task}); err != nil {
		log.Error("failed to buffer task operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	log.Warn("task operation buffered", zap.String("operation", operation), zap.String("task_id", task.ID))
	return true
}
