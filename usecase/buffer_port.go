package usecase

import (
	"context"

	"github.com/fastygo/taskdesk/domain"
)

const (
	OperationCreate = "create"
	OperationDelete = "delete"
)

// TaskWrite is a task mutation that could not reach primary storage.
type TaskWrite struct {
	Operation string
	Task      *domain.Task
}

// OperationBuffer abstracts the offline buffer so use cases stay storage-agnostic.
type OperationBuffer interface {
	BufferTask(ctx context.Context, write TaskWrite) error
}
